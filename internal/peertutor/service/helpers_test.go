package service_test

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite"
	"github.com/aussiebroadwan/peertutor/pkg/cryptox"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/aussiebroadwan/peertutor/pkg/jwtx"
	"github.com/aussiebroadwan/peertutor/pkg/mailx"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// countingStore counts every repository or transaction access so tests can
// assert that rejected input never reached storage.
type countingStore struct {
	store.Store
	calls atomic.Int64
}

func (c *countingStore) Users() store.Users {
	c.calls.Add(1)
	return c.Store.Users()
}

func (c *countingStore) Subjects() store.Subjects {
	c.calls.Add(1)
	return c.Store.Subjects()
}

func (c *countingStore) Interests() store.Interests {
	c.calls.Add(1)
	return c.Store.Interests()
}

func (c *countingStore) Requests() store.Requests {
	c.calls.Add(1)
	return c.Store.Requests()
}

func (c *countingStore) Sessions() store.Sessions {
	c.calls.Add(1)
	return c.Store.Sessions()
}

func (c *countingStore) Tx(ctx context.Context) (store.Tx, error) {
	c.calls.Add(1)
	return c.Store.Tx(ctx)
}

func (c *countingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	c.calls.Add(1)
	return c.Store.WithTx(ctx, fn)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailx.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailx.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last(t *testing.T) mailx.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db       *sqlite.Store
	store    *countingStore
	hasher   *cryptox.Argon2id
	mailer   *fakeMailer
	clock    *testClock
	sessions *service.SessionService
	auth     *service.AuthService
	users    *service.UserService
	catalog  *service.CatalogService
	requests *service.RequestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "peertutor.db")))
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations())
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:     db,
		store:  &countingStore{Store: db},
		hasher: &cryptox.Argon2id{Pepper: "test-pepper", Memory: 1024, Iterations: 1, Parallelism: 1},
		mailer: &fakeMailer{},
		clock:  &testClock{now: epoch},
	}
	clock := service.Clock(f.clock.Now)

	key := bytes.Repeat([]byte("k"), jwtx.MinKeyLength)
	signer, err := jwtx.NewSignerHS256(key)
	require.NoError(t, err)

	f.sessions = &service.SessionService{
		Store:       f.store,
		Signer:      signer,
		Verifier:    jwtx.NewVerifierHS256(key, jwtx.VerifyOptions{Issuer: "peertutor-test", Now: f.clock.Now}),
		Issuer:      "peertutor-test",
		TTL:         time.Hour,
		RememberTTL: 24 * time.Hour,
		Clock:       clock,
	}
	f.auth = &service.AuthService{
		Store:    f.store,
		Hasher:   f.hasher,
		Mailer:   f.mailer,
		Sessions: f.sessions,
		LoginURL: "http://peertutor.test/login",
		Clock:    clock,
	}
	f.users = &service.UserService{Store: f.store}
	f.catalog = &service.CatalogService{Store: f.store}
	f.requests = &service.RequestService{Store: f.store, Clock: clock}

	entries, err := service.DefaultCatalogue()
	require.NoError(t, err)
	_, err = f.catalog.Seed(context.Background(), entries)
	require.NoError(t, err)

	f.store.calls.Store(0)
	return f
}

// createUser inserts a user straight into the store, bypassing signup.
func (f *fixture) createUser(t *testing.T, email, password string, role domain.Role) domain.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Jane",
		LastName:     "Doe",
		Grade:        10,
		Role:         role,
		CreatedAt:    f.clock.Now(),
		LastLoggedIn: f.clock.Now(),
	}
	require.NoError(t, f.db.Users().CreateUser(context.Background(), u))
	return u
}

func (f *fixture) reload(t *testing.T, userID string) domain.User {
	t.Helper()

	u, err := f.db.Users().GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	return u
}

func (f *fixture) drainSessions(t *testing.T) int64 {
	t.Helper()

	// Deletes every session row and reports how many there were.
	n, err := f.db.Sessions().DeleteExpiredSessions(context.Background(), f.clock.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	return n
}
