package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// AdminHandler serves the overview page and user management.
type AdminHandler struct {
	Users    *service.UserService
	Requests *service.RequestService
	Catalog  *service.CatalogService
	Profiles *ProfileHandler
	Views    *Views
	Flash    *FlashStore
}

type adminView struct {
	CanManage bool
	Users     []domain.User
	Requests  []domain.Request
	Summaries []domain.SubjectSummary
}

type manageView struct {
	Users []domain.User
	Roles []domain.Role
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFromContext(ctx)

	view := adminView{CanManage: p.Can(domain.RoleAdmin)}
	var err error
	if view.Users, err = h.Users.List(ctx); err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	if view.Requests, err = h.Requests.ListAll(ctx); err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	if view.Summaries, err = h.Catalog.Summaries(ctx); err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "admin.html", "Admin", view)
}

// deny answers a request below the admin role with the caller's own
// profile and a 403.
func (h *AdminHandler) deny(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Info("access denied", "path", r.URL.Path, "error", err)
	h.Profiles.renderOwn(w, r, http.StatusForbidden, msgNoClearance)
}

func (h *AdminHandler) ManageUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Authorize(PrincipalFromContext(r.Context()), domain.RoleAdmin); err != nil {
		h.deny(w, r, err)
		return
	}

	users, err := h.Users.List(r.Context())
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	view := manageView{Users: users, Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}}
	h.Views.Render(w, r, http.StatusOK, "manage_users.html", "Manage Users", view)
}

func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if err := h.Users.Authorize(p, domain.RoleAdmin); err != nil {
		h.deny(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	role, err := domain.ParseRole(r.PostForm.Get("role"))
	if err != nil {
		h.Flash.Add(w, r, msgInvalidRole)
		httpx.SeeOther(w, r, "/manage_users")
		return
	}

	id, err := idx.Parse(r.PostForm.Get("user_id"))
	if err != nil {
		h.Flash.Add(w, r, msgUnknownUser)
		httpx.SeeOther(w, r, "/manage_users")
		return
	}

	userID := id.String()
	if err := h.Users.SetRole(r.Context(), p, userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			h.Flash.Add(w, r, msgUnknownUser)
		case errors.Is(err, service.ErrInvalidRole):
			h.Flash.Add(w, r, msgInvalidRole)
		default:
			h.Views.ServerError(w, r, err)
			return
		}
		httpx.SeeOther(w, r, "/manage_users")
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Flash.Addf(w, r, msgRoleChanged, user.FullName(), role)
	httpx.SeeOther(w, r, "/manage_users")
}
