package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/pkg/cryptox"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/aussiebroadwan/peertutor/pkg/mailx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

const (
	// DefaultEmailSuffix is appended to the bare usernames typed into the
	// signup and reset forms.
	DefaultEmailSuffix = "@menloschool.org"

	// DefaultMailTimeout bounds a single reset email delivery.
	DefaultMailTimeout = 15 * time.Second

	MinGrade = 1
	MaxGrade = 12
)

type LoginRequest struct {
	Email    string
	Password string
	Remember bool
}

type SignupRequest struct {
	EmailLocal string // the part before the suffix
	Password   string
	FirstName  string
	LastName   string
	Grade      int

	// Subject names picked in the tutor_* and learn_* checkbox groups.
	Tutor []string
	Learn []string
}

// AuthResult is the signed-in user together with the session to hand to
// the browser.
type AuthResult struct {
	User    domain.User
	Session IssuedSession
}

// AuthService runs the login, signup and password reset workflows.
type AuthService struct {
	Store       store.Store
	Hasher      cryptox.PasswordHasher
	Mailer      mailx.Mailer
	Sessions    *SessionService
	EmailSuffix string
	LoginURL    string // linked from the reset email
	MailTimeout time.Duration
	Clock       Clock

	// GeneratePassword defaults to cryptox.GenerateResetPassword.
	GeneratePassword func() (string, error)
}

// Suffix is the institutional email suffix, "@menloschool.org" by default.
func (s *AuthService) Suffix() string {
	if s.EmailSuffix == "" {
		return DefaultEmailSuffix
	}
	return s.EmailSuffix
}

// NormalizeEmail appends the institutional suffix unless email already
// ends with it.
func (s *AuthService) NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || strings.HasSuffix(email, s.Suffix()) {
		return email
	}
	return email + s.Suffix()
}

// Login checks the credentials and establishes a session. The email is
// matched exactly as typed.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return AuthResult{}, fail(ErrEmailRequired)
	}
	if req.Password == "" {
		return AuthResult{}, fail(ErrPasswordRequired)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login for unknown email", slog.String("email", email))
			return AuthResult{}, fail(ErrUnknownEmail, "email", email)
		}
		return AuthResult{}, storageFault(err, "get user by email")
	}

	if err := s.Hasher.Verify(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrInvalidHash) {
			l.Warn("stored password hash is unreadable", slog.String("user_id", user.ID))
		}
		l.Info("login with incorrect password", slog.String("user_id", user.ID))
		return AuthResult{}, fail(ErrIncorrectPassword, "user_id", user.ID)
	}

	var upgraded string
	if s.Hasher.NeedsUpgrade(user.PasswordHash) {
		if upgraded, err = s.Hasher.Hash(req.Password); err != nil {
			return AuthResult{}, err
		}
	}

	// Never move backwards past creation or the previous login.
	at := s.Clock.now()
	if at.Before(user.CreatedAt) {
		at = user.CreatedAt
	}
	if at.Before(user.LastLoggedIn) {
		at = user.LastLoggedIn
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateLastLoggedIn(ctx, user.ID, at); err != nil {
			return err
		}
		if upgraded != "" {
			return tx.Users().UpdatePasswordHash(ctx, user.ID, upgraded)
		}
		return nil
	})
	if err != nil {
		return AuthResult{}, storageFault(err, "record login")
	}

	user.LastLoggedIn = at
	if upgraded != "" {
		user.PasswordHash = upgraded
		l.Info("password hash upgraded", slog.String("user_id", user.ID))
	}

	sess, err := s.Sessions.Establish(ctx, user, req.Remember)
	if err != nil {
		return AuthResult{}, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return AuthResult{User: user, Session: sess}, nil
}

// Signup creates an account with the given interests and signs it in
// without "remember me".
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	email, err := s.signupEmail(req.EmailLocal)
	if err != nil {
		return AuthResult{}, err
	}
	if req.Password == "" {
		return AuthResult{}, fail(ErrPasswordRequired)
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return AuthResult{}, fail(ErrNameRequired)
	}
	if req.Grade < MinGrade || req.Grade > MaxGrade {
		return AuthResult{}, fail(ErrInvalidGrade, "grade", req.Grade)
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.Clock.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Grade:        req.Grade,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		LastLoggedIn: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return fail(ErrEmailTaken, "email", email)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fail(ErrEmailTaken, "email", email)
			}
			return err
		}

		return writeInterests(ctx, tx, user.ID, req.Tutor, req.Learn)
	})
	if err != nil {
		return AuthResult{}, storageFault(err, "signup")
	}

	l.Info("user signed up", slog.String("user_id", user.ID), slog.String("email", email))

	sess, err := s.Sessions.Establish(ctx, user, false)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Session: sess}, nil
}

// signupEmail builds the full address from the typed local part. A local
// part that already carries the suffix is accepted as is.
func (s *AuthService) signupEmail(local string) (string, error) {
	local = strings.TrimSpace(local)
	local = strings.TrimSuffix(local, s.Suffix())
	if local == "" {
		return "", fail(ErrEmailRequired)
	}
	if strings.ContainsAny(local, "@ \t") {
		return "", fail(ErrInvalidEmail, "email", local)
	}
	return local + s.Suffix(), nil
}

// ResetPassword mails a freshly generated password to the account and only
// stores its hash once the mail has been accepted. It returns the normalised
// email, also alongside errors, for the messages shown to the user.
//
// Concurrent resets for one account are not serialised; the last one to
// commit wins.
func (s *AuthService) ResetPassword(ctx context.Context, email string) (string, error) {
	l := slogx.FromContext(ctx)

	email = s.NormalizeEmail(email)
	if email == "" {
		return "", fail(ErrEmailRequired)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return email, fail(ErrUnknownEmail, "email", email)
		}
		return email, storageFault(err, "get user by email")
	}

	generate := s.GeneratePassword
	if generate == nil {
		generate = cryptox.GenerateResetPassword
	}
	password, err := generate()
	if err != nil {
		return email, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return email, err
	}

	msg, err := renderResetMail(user, password, s.LoginURL)
	if err != nil {
		return email, err
	}

	timeout := s.MailTimeout
	if timeout <= 0 {
		timeout = DefaultMailTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Mailer.Send(sendCtx, msg); err != nil {
		l.Warn("reset email not delivered", slog.String("user_id", user.ID), slog.Any("error", err))
		return email, deliveryFailed(err, "user_id", user.ID)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Sessions().DeleteUserSessions(ctx, user.ID)
	})
	if err != nil {
		return email, storageFault(err, "store reset password")
	}

	l.Info("password reset", slog.String("user_id", user.ID))
	return email, nil
}

// writeInterests records the tutor and learn edges for the named subjects.
// Names that match no subject are skipped.
func writeInterests(ctx context.Context, tx store.Tx, userID string, tutor, learn []string) error {
	groups := []struct {
		kind  domain.InterestKind
		names []string
	}{
		{domain.InterestTutor, tutor},
		{domain.InterestLearn, learn},
	}

	for _, g := range groups {
		for _, name := range g.names {
			subject, err := tx.Subjects().GetSubjectByName(ctx, strings.TrimSpace(name))
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			err = tx.Interests().AddInterest(ctx, domain.Interest{
				UserID:    userID,
				SubjectID: subject.ID,
				Kind:      g.kind,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
