package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/aussiebroadwan/peertutor/pkg/jwtx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// IssuedSession is what the HTTP layer needs to set the session cookie.
type IssuedSession struct {
	Token      string
	SessionID  string
	ExpiresAt  time.Time
	Persistent bool // cookie gets a Max-Age
}

// SessionService issues and resolves the signed session cookie. The token
// only resolves while its session row exists, so Clear logs a browser out
// for good.
type SessionService struct {
	Store       store.Store
	Signer      jwtx.Signer
	Verifier    jwtx.Verifier
	Issuer      string
	TTL         time.Duration
	RememberTTL time.Duration
	Clock       Clock
}

// Establish persists a session for user and signs its token.
func (s *SessionService) Establish(ctx context.Context, user domain.User, remember bool) (IssuedSession, error) {
	now := s.Clock.now()

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	if remember {
		ttl = s.RememberTTL
		if ttl <= 0 {
			ttl = jwtx.DefaultRememberTTL
		}
	}

	sess := domain.Session{
		ID:         idx.NewAt(now).String(),
		UserID:     user.ID,
		Persistent: remember,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return IssuedSession{}, storageFault(err, "create session")
	}

	token, err := s.Signer.Sign(jwtx.NewSessionClaims(user.ID, sess.ID, remember, ttl, s.Issuer, now))
	if err != nil {
		return IssuedSession{}, err
	}

	slogx.FromContext(ctx).Info("session established",
		slog.String("user_id", user.ID),
		slog.String("session_id", sess.ID),
		slog.Bool("remember", remember),
	)

	return IssuedSession{
		Token:      token,
		SessionID:  sess.ID,
		ExpiresAt:  sess.ExpiresAt,
		Persistent: remember,
	}, nil
}

// Resolve turns a cookie value into a principal. Every failure, including a
// storage error, is reported as ErrNoSession; callers treat the request as
// anonymous.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Anonymous, fail(ErrNoSession)
	}

	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		l.Debug("session token rejected", "error", err)
		return domain.Anonymous, fail(ErrNoSession, "reason", "token")
	}

	sess, err := s.Store.Sessions().GetSessionByID(ctx, claims.SID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Error("session lookup failed", "error", err)
		}
		return domain.Anonymous, fail(ErrNoSession, "reason", "session")
	}
	if sess.UserID != claims.Subject || sess.Expired(s.Clock.now()) {
		return domain.Anonymous, fail(ErrNoSession, "reason", "session")
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Error("session user lookup failed", "error", err)
		}
		return domain.Anonymous, fail(ErrNoSession, "reason", "user")
	}

	return domain.Principal{User: user, SessionID: sess.ID}, nil
}

// Clear deletes the session behind token. Unknown or invalid tokens are not
// an error: the browser ends up logged out either way.
func (s *SessionService) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.Store.Sessions().DeleteSession(ctx, claims.SID); err != nil {
		return storageFault(err, "delete session")
	}

	slogx.FromContext(ctx).Info("session cleared",
		slog.String("user_id", claims.Subject),
		slog.String("session_id", claims.SID),
	)
	return nil
}
