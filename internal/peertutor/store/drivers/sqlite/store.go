package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite/gen"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

var _ store.Store = (*Store)(nil)

// DSN builds a modernc connection string for path. Foreign keys and the
// busy timeout are per-connection settings, so they ride along as pragmas
// instead of being set once after open. Times are written in the SQLite
// format so stored UTC timestamps compare correctly as text.
func DSN(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if path != ":memory:" {
		pragmas += "&_pragma=journal_mode(WAL)"
	}
	return path + "?" + pragmas
}

// NewStore opens the database at dsn. Use DSN to build one from a file path.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is its own database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rolls back on early return and on panic; a no-op after Commit.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users         { return &usersRepo{q: s.q} }
func (s *Store) Subjects() store.Subjects   { return &subjectsRepo{q: s.q} }
func (s *Store) Interests() store.Interests { return &interestsRepo{q: s.q} }
func (s *Store) Requests() store.Requests   { return &requestsRepo{q: s.q} }
func (s *Store) Sessions() store.Sessions   { return &sessionsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns unique and primary key violations into
// store.ErrAlreadyExists.
func mapConstraint(err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		case sqlite3.SQLITE_CONSTRAINT:
			if strings.Contains(serr.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
		}
	}
	return err
}

// mapAffected reports ErrNotFound when an update touched no rows.
func mapAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Grade:        int(row.Grade),
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt.UTC(),
		LastLoggedIn: row.LastLoggedIn.UTC(),
	}
}

func mapSubject(row gen.Subject) domain.Subject {
	return domain.Subject{
		ID:       row.ID,
		Name:     row.Name,
		Title:    row.Title,
		Category: row.Category,
	}
}

func mapRequest(row gen.Request) domain.Request {
	return domain.Request{
		ID:            row.ID,
		SubjectID:     row.SubjectID,
		AuthorID:      row.AuthorID,
		Title:         row.Title,
		Issue:         row.Issue,
		Body:          row.Body,
		ExtraRequests: row.ExtraRequests,
		Availability:  row.Availability,
		Additional:    row.Additional,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}

// mapRequestRow maps any of the request listing rows; they share one shape.
func mapRequestRow(row gen.ListRequestsRow) domain.Request {
	r := mapRequest(gen.Request{
		ID:            row.ID,
		SubjectID:     row.SubjectID,
		AuthorID:      row.AuthorID,
		Title:         row.Title,
		Issue:         row.Issue,
		Body:          row.Body,
		ExtraRequests: row.ExtraRequests,
		Availability:  row.Availability,
		Additional:    row.Additional,
		CreatedAt:     row.CreatedAt,
	})
	r.SubjectTitle = row.SubjectTitle
	r.AuthorName = domain.User{FirstName: row.AuthorFirstName, LastName: row.AuthorLastName}.FullName()
	return r
}

func mapSession(row gen.Session) domain.Session {
	return domain.Session{
		ID:         row.ID,
		UserID:     row.UserID,
		Persistent: row.Persistent,
		ExpiresAt:  row.ExpiresAt.UTC(),
		CreatedAt:  row.CreatedAt.UTC(),
	}
}
