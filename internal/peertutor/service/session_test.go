package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "jdoe@menloschool.org", "pw", domain.RoleAdmin)

	issued, err := f.sessions.Establish(ctx, u, false)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	p, err := f.sessions.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	require.True(t, p.IsAuthenticated())
	require.Equal(t, issued.SessionID, p.SessionID)
	require.True(t, p.Can(domain.RoleAdmin))

	require.NoError(t, f.sessions.Clear(ctx, issued.Token))
	_, err = f.sessions.Resolve(ctx, issued.Token)
	require.ErrorIs(t, err, service.ErrNoSession)

	require.NoError(t, f.sessions.Clear(ctx, issued.Token), "clearing twice is fine")
	require.NoError(t, f.sessions.Clear(ctx, "garbage"))
}

func TestSessionResolve_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "jdoe@menloschool.org", "pw", domain.RoleUser)

	t.Run("empty and malformed tokens", func(t *testing.T) {
		for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
			p, err := f.sessions.Resolve(ctx, token)
			require.ErrorIs(t, err, service.ErrNoSession)
			require.False(t, p.IsAuthenticated())
		}
	})

	t.Run("foreign signing key", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256(bytes.Repeat([]byte("x"), jwtx.MinKeyLength))
		require.NoError(t, err)

		forged := *f.sessions
		forged.Signer = other
		issued, err := forged.Establish(ctx, u, false)
		require.NoError(t, err)

		_, err = f.sessions.Resolve(ctx, issued.Token)
		require.ErrorIs(t, err, service.ErrNoSession)
	})

	t.Run("expired", func(t *testing.T) {
		issued, err := f.sessions.Establish(ctx, u, false)
		require.NoError(t, err)

		f.clock.Advance(time.Hour + time.Second)
		_, err = f.sessions.Resolve(ctx, issued.Token)
		require.ErrorIs(t, err, service.ErrNoSession)
	})

	t.Run("deleted user sessions", func(t *testing.T) {
		issued, err := f.sessions.Establish(ctx, u, true)
		require.NoError(t, err)

		require.NoError(t, f.db.Sessions().DeleteUserSessions(ctx, u.ID))
		_, err = f.sessions.Resolve(ctx, issued.Token)
		require.ErrorIs(t, err, service.ErrNoSession)
	})
}
