package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Repositories hang off the store so a transaction can hand out the same set
// bound to itself, which keeps callers from nesting transactions.
type Store interface {
	Users() Users
	Subjects() Subjects
	Interests() Interests
	Requests() Requests
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. The transaction is committed
	// when fn returns nil and rolled back when it returns an error or panics.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is an exact match; callers normalise the suffix first.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns every user ordered by last name, first name.
	ListUsers(ctx context.Context) ([]domain.User, error)

	UpdateLastLoggedIn(ctx context.Context, userID string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
	UpdateProfile(ctx context.Context, userID, firstName, lastName string, grade int) error
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	CountUsers(ctx context.Context) (int64, error)
}

type Subjects interface {
	GetSubjectByName(ctx context.Context, name string) (domain.Subject, error)
	GetSubjectByTitle(ctx context.Context, title string) (domain.Subject, error)

	// ListSubjects returns subjects ordered by category then title.
	ListSubjects(ctx context.Context) ([]domain.Subject, error)

	// UpsertSubject inserts s, or updates title and category of the subject
	// with the same name.
	UpsertSubject(ctx context.Context, s domain.Subject) error

	// ListSubjectSummaries counts tutors, learners and requests per subject.
	ListSubjectSummaries(ctx context.Context) ([]domain.SubjectSummary, error)
}

type Interests interface {
	// AddInterest records an edge. Adding an existing edge is a no-op.
	AddInterest(ctx context.Context, in domain.Interest) error

	// ClearInterests removes every edge of the user.
	ClearInterests(ctx context.Context, userID string) error

	// ListSubjectsForUser returns the subjects the user relates to by kind.
	ListSubjectsForUser(ctx context.Context, userID string, kind domain.InterestKind) ([]domain.Subject, error)
}

type Requests interface {
	CreateRequest(ctx context.Context, r domain.Request) error
	GetRequestByID(ctx context.Context, id string) (domain.Request, error)

	// The list methods return newest first with SubjectTitle and AuthorName set.
	ListRequests(ctx context.Context) ([]domain.Request, error)
	ListRequestsByAuthor(ctx context.Context, authorID string) ([]domain.Request, error)
	// ListRequestsForTutor returns requests filed against subjects the tutor tutors.
	ListRequestsForTutor(ctx context.Context, tutorID string) ([]domain.Request, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions removes sessions that expired at or before now
	// and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
