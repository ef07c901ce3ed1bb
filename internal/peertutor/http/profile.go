package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
)

// ProfileHandler serves the signed-in user's own profile, the edit form
// and public profiles.
type ProfileHandler struct {
	Users   *service.UserService
	Catalog *service.CatalogService
	Views   *Views
	Flash   *FlashStore
}

type editView struct {
	User   domain.User
	Groups []subjectGroup
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.renderOwn(w, r, http.StatusOK)
}

// renderOwn shows the principal's profile page with status and any extra
// messages from this request.
func (h *ProfileHandler) renderOwn(w http.ResponseWriter, r *http.Request, status int, extra ...string) {
	p := PrincipalFromContext(r.Context())
	profile, err := h.Users.Profile(r.Context(), p.User.ID)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, status, "me.html", "Me", profile, extra...)
}

func (h *ProfileHandler) ViewUser(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		h.Views.NotFound(w, r)
		return
	}

	profile, err := h.Users.Profile(r.Context(), id.String())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.Views.NotFound(w, r)
			return
		}
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "view_user.html", profile.User.FullName(), profile)
}

func (h *ProfileHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFromContext(ctx)

	profile, err := h.Users.Profile(ctx, p.User.ID)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	byCategory, err := h.Catalog.SubjectsByCategory(ctx)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}

	view := editView{User: profile.User, Groups: subjectGroups(byCategory, &profile)}
	h.Views.Render(w, r, http.StatusOK, "edit.html", "Edit Profile", view)
}

func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	p := PrincipalFromContext(r.Context())
	tutor, learn := interestsFromForm(r.PostForm)

	err := h.Users.UpdateProfile(r.Context(), p.User.ID, service.ProfileUpdate{
		FirstName: r.PostForm.Get("first_name"),
		LastName:  r.PostForm.Get("last_name"),
		Grade:     formGrade(r.PostForm.Get("grade")),
		Tutor:     tutor,
		Learn:     learn,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired):
			h.Flash.Add(w, r, msgSignupName)
		case errors.Is(err, service.ErrInvalidGrade):
			h.Flash.Add(w, r, msgSignupGrade)
		default:
			h.Views.ServerError(w, r, err)
			return
		}
		httpx.SeeOther(w, r, "/edit")
		return
	}

	h.Flash.Add(w, r, msgProfileUpdated)
	httpx.SeeOther(w, r, "/me")
}
