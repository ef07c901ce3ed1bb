package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "peertutor_session"

type principalKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal of the request, or
// domain.Anonymous.
func PrincipalFromContext(ctx context.Context) domain.Principal {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	if !ok {
		return domain.Anonymous
	}
	return p
}

// PrincipalMiddleware resolves the session cookie on every request. A cookie
// that no longer resolves is cleared and the request continues anonymously.
func PrincipalMiddleware(sessions *service.SessionService, secure bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			p, err := sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				clearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = httpx.WithUserID(ctx, p.User.ID)
			ctx = slogx.With(ctx, "user_id", p.User.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin sends anonymous requests to the login page with a next
// parameter pointing back at the requested page.
func RequireLogin(flash *FlashStore) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PrincipalFromContext(r.Context()).IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			if flash != nil {
				flash.Add(w, r, msgLoginRequired)
			}
			target := "/login?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
			httpx.SeeOther(w, r, target)
		})
	}
}

func setSessionCookie(w http.ResponseWriter, s service.IssuedSession, secure bool) {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.Persistent {
		c.Expires = s.ExpiresAt
		c.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	http.SetCookie(w, c)
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
