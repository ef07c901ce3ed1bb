package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "peertutor.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$stub",
		FirstName:    "Jane",
		LastName:     "Doe",
		Grade:        10,
		Role:         domain.RoleUser,
		CreatedAt:    epoch,
		LastLoggedIn: epoch,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedSubject(t *testing.T, s store.Store, name, title, category string) domain.Subject {
	t.Helper()

	sub := domain.Subject{ID: idx.New().String(), Name: name, Title: title, Category: category}
	require.NoError(t, s.Subjects().UpsertSubject(context.Background(), sub))
	return sub
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "jdoe@menloschool.org")

	got, err := s.Users().GetUserByEmail(ctx, "jdoe@menloschool.org")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.True(t, got.CreatedAt.Equal(epoch))
	require.True(t, got.LastLoggedIn.Equal(epoch))

	_, err = s.Users().GetUserByEmail(ctx, "JDOE@menloschool.org")
	require.ErrorIs(t, err, store.ErrNotFound, "lookup is exact")

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("empty hash rejected", func(t *testing.T) {
		bad := u
		bad.ID = idx.New().String()
		bad.Email = "other@menloschool.org"
		bad.PasswordHash = ""
		require.Error(t, s.Users().CreateUser(ctx, bad))
	})

	t.Run("updates", func(t *testing.T) {
		later := epoch.Add(time.Hour)
		require.NoError(t, s.Users().UpdateLastLoggedIn(ctx, u.ID, later))
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "$argon2id$new"))
		require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "Janet", "Dough", 11))
		require.NoError(t, s.Users().UpdateRole(ctx, u.ID, domain.RoleAdmin))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.LastLoggedIn.Equal(later))
		require.Equal(t, "$argon2id$new", got.PasswordHash)
		require.Equal(t, "Janet Dough", got.FullName())
		require.Equal(t, 11, got.Grade)
		require.Equal(t, domain.RoleAdmin, got.Role)
	})

	t.Run("last login before creation rejected", func(t *testing.T) {
		require.Error(t, s.Users().UpdateLastLoggedIn(ctx, u.ID, epoch.Add(-time.Hour)))
	})

	t.Run("updates on unknown user", func(t *testing.T) {
		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdateRole(ctx, "missing", domain.RoleAdmin), store.ErrNotFound)
	})

	count, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestSubjectsAndInterests(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bio := seedSubject(t, s, "ap_bio", "AP Biology", domain.CategoryScience)
	calc := seedSubject(t, s, "calc_bc", "AP Calculus BC", domain.CategoryMath)

	t.Run("upsert keeps id and updates title", func(t *testing.T) {
		require.NoError(t, s.Subjects().UpsertSubject(ctx, domain.Subject{
			ID: idx.New().String(), Name: "ap_bio", Title: "AP Bio", Category: domain.CategoryScience,
		}))
		got, err := s.Subjects().GetSubjectByName(ctx, "ap_bio")
		require.NoError(t, err)
		require.Equal(t, bio.ID, got.ID)
		require.Equal(t, "AP Bio", got.Title)

		byTitle, err := s.Subjects().GetSubjectByTitle(ctx, "AP Bio")
		require.NoError(t, err)
		require.Equal(t, bio.ID, byTitle.ID)
	})

	u := seedUser(t, s, "jdoe@menloschool.org")
	v := seedUser(t, s, "amy@menloschool.org")

	for _, in := range []domain.Interest{
		{UserID: u.ID, SubjectID: bio.ID, Kind: domain.InterestTutor},
		{UserID: u.ID, SubjectID: bio.ID, Kind: domain.InterestTutor}, // duplicate is a no-op
		{UserID: u.ID, SubjectID: calc.ID, Kind: domain.InterestLearn},
		{UserID: v.ID, SubjectID: bio.ID, Kind: domain.InterestLearn},
	} {
		require.NoError(t, s.Interests().AddInterest(ctx, in))
	}

	tutoring, err := s.Interests().ListSubjectsForUser(ctx, u.ID, domain.InterestTutor)
	require.NoError(t, err)
	require.Len(t, tutoring, 1)
	require.Equal(t, "ap_bio", tutoring[0].Name)

	summaries, err := s.Subjects().ListSubjectSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	byName := map[string]domain.SubjectSummary{}
	for _, sum := range summaries {
		byName[sum.Subject.Name] = sum
	}
	require.Equal(t, 1, byName["ap_bio"].Tutors)
	require.Equal(t, 1, byName["ap_bio"].Learners)
	require.Equal(t, 0, byName["calc_bc"].Tutors)
	require.Equal(t, 1, byName["calc_bc"].Learners)

	require.NoError(t, s.Interests().ClearInterests(ctx, u.ID))
	tutoring, err = s.Interests().ListSubjectsForUser(ctx, u.ID, domain.InterestTutor)
	require.NoError(t, err)
	require.Empty(t, tutoring)
}

func TestRequests(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bio := seedSubject(t, s, "ap_bio", "AP Biology", domain.CategoryScience)
	calc := seedSubject(t, s, "calc_bc", "AP Calculus BC", domain.CategoryMath)
	author := seedUser(t, s, "jdoe@menloschool.org")
	tutor := seedUser(t, s, "tutor@menloschool.org")
	require.NoError(t, s.Interests().AddInterest(ctx, domain.Interest{UserID: tutor.ID, SubjectID: bio.ID, Kind: domain.InterestTutor}))

	newRequest := func(subject domain.Subject, at time.Time) domain.Request {
		r := domain.Request{
			ID:        idx.NewAt(at).String(),
			SubjectID: subject.ID,
			AuthorID:  author.ID,
			Title:     "Help with " + subject.Title,
			Issue:     "Homework",
			Body:      "stuck",
			CreatedAt: at,
		}
		require.NoError(t, s.Requests().CreateRequest(ctx, r))
		return r
	}

	first := newRequest(bio, epoch)
	second := newRequest(calc, epoch.Add(time.Minute))
	third := newRequest(bio, epoch.Add(2*time.Minute))

	all, err := s.Requests().ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	require.Equal(t, "AP Biology", all[0].SubjectTitle)
	require.Equal(t, "Jane Doe", all[0].AuthorName)

	mine, err := s.Requests().ListRequestsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)

	forTutor, err := s.Requests().ListRequestsForTutor(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, forTutor, 2)
	for _, r := range forTutor {
		require.Equal(t, bio.ID, r.SubjectID)
	}

	got, err := s.Requests().GetRequestByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, second.Title, got.Title)

	t.Run("unknown subject rejected", func(t *testing.T) {
		err := s.Requests().CreateRequest(ctx, domain.Request{
			ID: idx.New().String(), SubjectID: "missing", AuthorID: author.ID,
			Title: "x", Issue: "Test", Body: "y", CreatedAt: epoch,
		})
		require.Error(t, err)
	})
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "jdoe@menloschool.org")

	live := domain.Session{ID: idx.New().String(), UserID: u.ID, Persistent: true, ExpiresAt: epoch.Add(time.Hour), CreatedAt: epoch}
	dead := domain.Session{ID: idx.New().String(), UserID: u.ID, ExpiresAt: epoch.Add(-time.Second), CreatedAt: epoch.Add(-time.Hour)}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, dead))

	got, err := s.Sessions().GetSessionByID(ctx, live.ID)
	require.NoError(t, err)
	require.True(t, got.Persistent)
	require.True(t, got.ExpiresAt.Equal(live.ExpiresAt))

	n, err := s.Sessions().DeleteExpiredSessions(ctx, epoch)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Sessions().GetSessionByID(ctx, dead.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Sessions().DeleteUserSessions(ctx, u.ID))
	_, err = s.Sessions().GetSessionByID(ctx, live.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("commit", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			seedUser(t, tx, "commit@menloschool.org")
			return nil
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByEmail(ctx, "commit@menloschool.org")
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			seedUser(t, tx, "error@menloschool.org")
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByEmail(ctx, "error@menloschool.org")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		require.Panics(t, func() {
			_ = s.WithTx(ctx, func(tx store.Tx) error {
				seedUser(t, tx, "panic@menloschool.org")
				panic("storage fault")
			})
		})

		_, err := s.Users().GetUserByEmail(ctx, "panic@menloschool.org")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("no nesting", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.Error(t, err)
	})
}

func TestMigrations(t *testing.T) {
	s := newTestStore(t)

	version, dirty, err := s.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)

	require.NoError(t, s.ApplyMigrations(), "re-applying is a no-op")

	require.NoError(t, s.RollbackMigrations(1))
	version, _, err = s.MigrationVersion()
	require.NoError(t, err)
	require.EqualValues(t, 0, version)

	require.NoError(t, s.ApplyMigrations())
}

func TestMemoryStore(t *testing.T) {
	s, err := sqlite.NewStore(sqlite.DSN(":memory:"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
	seedUser(t, s, "mem@menloschool.org")
}
