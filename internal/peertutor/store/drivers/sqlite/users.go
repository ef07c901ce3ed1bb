package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Grade:        int64(u.Grade),
		Role:         int64(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		LastLoggedIn: u.LastLoggedIn.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = mapUser(row)
	}
	return users, nil
}

func (r *usersRepo) UpdateLastLoggedIn(ctx context.Context, userID string, at time.Time) error {
	return mapAffected(r.q.UpdateUserLastLoggedIn(ctx, gen.UpdateUserLastLoggedInParams{
		LastLoggedIn: at.UTC(),
		ID:           userID,
	}))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return mapAffected(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		ID:           userID,
	}))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, firstName, lastName string, grade int) error {
	return mapAffected(r.q.UpdateUserProfile(ctx, gen.UpdateUserProfileParams{
		FirstName: firstName,
		LastName:  lastName,
		Grade:     int64(grade),
		ID:        userID,
	}))
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	return mapAffected(r.q.UpdateUserRole(ctx, gen.UpdateUserRoleParams{
		Role: int64(role),
		ID:   userID,
	}))
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}
