package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/metrics"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// AuthHandler serves the login, logout, signup and password reset pages.
type AuthHandler struct {
	Auth          *service.AuthService
	Sessions      *service.SessionService
	Catalog       *service.CatalogService
	Views         *Views
	Flash         *FlashStore
	Metrics       *metrics.Metrics
	SecureCookies bool
}

// loginEmailKey holds the address of a failed login for the next form.
const loginEmailKey = "login_email"

type loginView struct {
	Next  string
	Email string
}

type signupView struct {
	Suffix string
	Groups []subjectGroup
}

func (h *AuthHandler) record(flow string, err error) {
	if h.Metrics == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = service.Code(err)
	}
	h.Metrics.RecordAuth(flow, outcome)
}

// signedIn sends an already authenticated visitor to their profile.
func signedIn(w http.ResponseWriter, r *http.Request) bool {
	if !PrincipalFromContext(r.Context()).IsAuthenticated() {
		return false
	}
	httpx.SeeOther(w, r, "/me")
	return true
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if signedIn(w, r) {
		return
	}
	view := loginView{
		Next:  r.URL.Query().Get("next"),
		Email: h.Flash.Take(w, r, loginEmailKey),
	}
	h.Views.Render(w, r, http.StatusOK, "login.html", "Log In", view)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if signedIn(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	next := r.URL.Query().Get("next")
	email := strings.TrimSpace(r.PostForm.Get("email"))

	res, err := h.Auth.Login(r.Context(), service.LoginRequest{
		Email:    email,
		Password: r.PostForm.Get("password"),
		Remember: checked(r.PostForm.Get("remember-me")),
	})
	h.record(metrics.FlowLogin, err)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			h.Flash.Add(w, r, msgInvalidEmail)
		case errors.Is(err, service.ErrPasswordRequired):
			h.Flash.Add(w, r, msgInvalidPassword)
		case errors.Is(err, service.ErrUnknownEmail):
			h.Flash.Addf(w, r, msgUnknownLoginEmail, email)
		case errors.Is(err, service.ErrIncorrectPassword):
			h.Flash.Add(w, r, msgIncorrectPassword)
		default:
			h.Views.ServerError(w, r, err)
			return
		}

		h.Flash.Keep(w, r, loginEmailKey, email)

		target := "/login"
		if next != "" {
			target += "?" + url.Values{"next": {next}}.Encode()
		}
		httpx.SeeOther(w, r, target)
		return
	}

	setSessionCookie(w, res.Session, h.SecureCookies)
	h.Flash.Add(w, r, msgLoggedIn)
	httpx.SeeOther(w, r, httpx.LocalRedirectTarget(next, "/me"))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Sessions.Clear(r.Context(), cookie.Value); err != nil {
			h.Views.ServerError(w, r, err)
			return
		}
	}

	clearSessionCookie(w, h.SecureCookies)
	h.Flash.Add(w, r, msgLoggedOut)
	httpx.SeeOther(w, r, "/")
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if signedIn(w, r) {
		return
	}

	byCategory, err := h.Catalog.SubjectsByCategory(r.Context())
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}

	view := signupView{
		Suffix: h.Auth.Suffix(),
		Groups: subjectGroups(byCategory, nil),
	}
	h.Views.Render(w, r, http.StatusOK, "signup.html", "Sign Up", view)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if signedIn(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	local := strings.TrimSpace(r.PostForm.Get("email"))
	tutor, learn := interestsFromForm(r.PostForm)

	res, err := h.Auth.Signup(r.Context(), service.SignupRequest{
		EmailLocal: local,
		Password:   r.PostForm.Get("password"),
		FirstName:  r.PostForm.Get("first_name"),
		LastName:   r.PostForm.Get("last_name"),
		Grade:      formGrade(r.PostForm.Get("grade")),
		Tutor:      tutor,
		Learn:      learn,
	})
	h.record(metrics.FlowSignup, err)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			h.Flash.Add(w, r, msgSignupEmailRequired)
		case errors.Is(err, service.ErrInvalidEmail):
			h.Flash.Add(w, r, msgSignupEmailInvalid)
		case errors.Is(err, service.ErrPasswordRequired):
			h.Flash.Add(w, r, msgSignupPassword)
		case errors.Is(err, service.ErrNameRequired):
			h.Flash.Add(w, r, msgSignupName)
		case errors.Is(err, service.ErrInvalidGrade):
			h.Flash.Add(w, r, msgSignupGrade)
		case errors.Is(err, service.ErrEmailTaken):
			h.Flash.Addf(w, r, msgSignupEmailTaken, h.Auth.NormalizeEmail(local))
		default:
			h.Views.ServerError(w, r, err)
			return
		}
		httpx.SeeOther(w, r, "/signup")
		return
	}

	slogx.FromContext(r.Context()).Info("user signed up", "user_id", res.User.ID)
	setSessionCookie(w, res.Session, h.SecureCookies)
	h.Flash.Add(w, r, msgLoggedIn)
	httpx.SeeOther(w, r, "/me")
}

func (h *AuthHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	if signedIn(w, r) {
		return
	}
	h.Views.Render(w, r, http.StatusOK, "reset_password.html", "Reset Password", nil)
}

func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if signedIn(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	email, err := h.Auth.ResetPassword(r.Context(), r.PostForm.Get("email"))
	h.record(metrics.FlowReset, err)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			h.Flash.Add(w, r, msgResetEmailRequired)
		case errors.Is(err, service.ErrUnknownEmail):
			h.Flash.Addf(w, r, msgResetUnknownEmail, email)
		case errors.Is(err, service.ErrDeliveryFailed):
			h.Flash.Add(w, r, msgResetNotSent)
			h.Flash.Addf(w, r, msgResetSpecificError, shorten(service.DeliveryCause(err), maxFlashDetail))
		default:
			h.Views.ServerError(w, r, err)
			return
		}
		httpx.SeeOther(w, r, "/reset_password")
		return
	}

	h.Flash.Addf(w, r, msgResetSent, email)
	httpx.SeeOther(w, r, "/")
}
