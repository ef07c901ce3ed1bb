package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// ProfileUpdate is the edit form after parsing. Interests replace the
// current ones.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Grade     int
	Tutor     []string
	Learn     []string
}

type UserService struct {
	Store store.Store
}

// Authorize is the single capability check: nil when p is signed in with
// at least min.
func (s *UserService) Authorize(p domain.Principal, min domain.Role) error {
	if !p.IsAuthenticated() {
		return fail(ErrNoSession)
	}
	if !p.User.Role.AtLeast(min) {
		return fail(ErrInsufficientRole, "user_id", p.User.ID, "role", p.User.Role.String())
	}
	return nil
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fail(ErrUserNotFound, "user_id", userID)
		}
		return domain.User{}, storageFault(err, "get user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, storageFault(err, "list users")
	}
	return users, nil
}

// Profile loads a user with interests and authored requests.
func (s *UserService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	p := domain.Profile{User: user}
	if p.Tutoring, err = s.Store.Interests().ListSubjectsForUser(ctx, userID, domain.InterestTutor); err != nil {
		return domain.Profile{}, storageFault(err, "list tutoring")
	}
	if p.Learning, err = s.Store.Interests().ListSubjectsForUser(ctx, userID, domain.InterestLearn); err != nil {
		return domain.Profile{}, storageFault(err, "list learning")
	}
	if p.Requests, err = s.Store.Requests().ListRequestsByAuthor(ctx, userID); err != nil {
		return domain.Profile{}, storageFault(err, "list requests by author")
	}
	return p, nil
}

// UpdateProfile changes names and grade and replaces the user's interests.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) error {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return fail(ErrNameRequired)
	}
	if in.Grade < MinGrade || in.Grade > MaxGrade {
		return fail(ErrInvalidGrade, "grade", in.Grade)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateProfile(ctx, userID, firstName, lastName, in.Grade); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fail(ErrUserNotFound, "user_id", userID)
			}
			return err
		}
		if err := tx.Interests().ClearInterests(ctx, userID); err != nil {
			return err
		}
		return writeInterests(ctx, tx, userID, in.Tutor, in.Learn)
	})
	if err != nil {
		return storageFault(err, "update profile")
	}

	slogx.FromContext(ctx).Info("profile updated", slog.String("user_id", userID))
	return nil
}

// SetRole changes the role of userID on behalf of actor, who must be an
// admin.
func (s *UserService) SetRole(ctx context.Context, actor domain.Principal, userID string, role domain.Role) error {
	if err := s.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if !role.Valid() {
		return fail(ErrInvalidRole, "role", int(role))
	}

	if err := s.Store.Users().UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(ErrUserNotFound, "user_id", userID)
		}
		return storageFault(err, "update role")
	}

	slogx.FromContext(ctx).Info("role changed",
		slog.String("actor_id", actor.User.ID),
		slog.String("user_id", userID),
		slog.String("role", role.String()),
	)
	return nil
}

// Promote sets the role of the account with the exact email. It skips the
// capability check and is only reachable from the command line.
func (s *UserService) Promote(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, fail(ErrInvalidRole, "role", int(role))
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fail(ErrUnknownEmail, "email", email)
		}
		return domain.User{}, storageFault(err, "get user by email")
	}

	if err := s.Store.Users().UpdateRole(ctx, user.ID, role); err != nil {
		return domain.User{}, storageFault(err, "update role")
	}
	user.Role = role

	slogx.FromContext(ctx).Info("role set from command line",
		slog.String("user_id", user.ID),
		slog.String("role", role.String()),
	)
	return user, nil
}
