package http_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	peerhttp "github.com/aussiebroadwan/peertutor/internal/peertutor/http"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/metrics"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite"
	"github.com/aussiebroadwan/peertutor/pkg/cryptox"
	"github.com/aussiebroadwan/peertutor/pkg/jwtx"
	"github.com/aussiebroadwan/peertutor/pkg/mailx"
	"github.com/aussiebroadwan/peertutor/pkg/peersdk"
	"github.com/stretchr/testify/require"
)

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

func (m *fakeMailer) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last(t *testing.T) mailx.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

type site struct {
	srv     *httptest.Server
	router  *peerhttp.Router
	db      *sqlite.Store
	mailer  *fakeMailer
	metrics *metrics.Metrics
	users   *service.UserService
}

// newSite wires the full router over a temp-file database, the default
// subject catalogue and a fake mailer.
func newSite(t *testing.T) *site {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "peertutor.db")))
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations())
	t.Cleanup(func() { _ = db.Close() })

	key := bytes.Repeat([]byte("k"), jwtx.MinKeyLength)
	signer, err := jwtx.NewSignerHS256(key)
	require.NoError(t, err)

	s := &site{db: db, mailer: &fakeMailer{}, metrics: metrics.New()}

	sessions := &service.SessionService{
		Store:       db,
		Signer:      signer,
		Verifier:    jwtx.NewVerifierHS256(key, jwtx.VerifyOptions{Issuer: "peertutor-test"}),
		Issuer:      "peertutor-test",
		TTL:         time.Hour,
		RememberTTL: 24 * time.Hour,
	}
	catalog := &service.CatalogService{Store: db}
	entries, err := service.DefaultCatalogue()
	require.NoError(t, err)
	_, err = catalog.Seed(ctx, entries)
	require.NoError(t, err)
	s.users = &service.UserService{Store: db}

	flash := peerhttp.NewFlashStore(
		cryptox.DeriveKey("test-secret", "flash-auth"),
		cryptox.DeriveKey("test-secret", "flash-enc"),
		false,
	)
	views, err := peerhttp.NewViews(flash)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = peerhttp.NewRouter(db, views, flash, s.metrics, "test", false, logger)
	s.router.SessionService = sessions
	s.router.CatalogService = catalog
	s.router.UserService = s.users
	s.router.RequestService = &service.RequestService{Store: db}
	s.router.AuthService = &service.AuthService{
		Store:    db,
		Hasher:   &cryptox.Argon2id{Pepper: "test-pepper", Memory: 1024, Iterations: 1, Parallelism: 1},
		Mailer:   s.mailer,
		Sessions: sessions,
		LoginURL: "http://peertutor.test/login",
	}
	s.router.ApplyRoutes()

	s.srv = httptest.NewServer(s.router)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *site) client(t *testing.T) *peersdk.Client {
	t.Helper()

	c, err := peersdk.NewClient(s.srv.URL)
	require.NoError(t, err)
	return c
}

// signup registers local@menloschool.org with password "hunter22" and
// returns the signed in client with the new user's id.
func (s *site) signup(t *testing.T, local string, tutor, learn []string) (*peersdk.Client, string) {
	t.Helper()

	c := s.client(t)
	page, err := c.Signup(context.Background(), peersdk.SignupForm{
		EmailLocal: local,
		Password:   "hunter22",
		FirstName:  "Jane",
		LastName:   "Doe",
		Grade:      10,
		Tutor:      tutor,
		Learn:      learn,
	})
	require.NoError(t, err)
	require.Equal(t, "/me", page.Path, "flashes: %v", page.Flashes)
	require.NotEmpty(t, page.UserID)
	return c, page.UserID
}
