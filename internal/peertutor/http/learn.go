package http

import (
	"errors"
	"net/http"
	"sort"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/metrics"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
)

// RequestHandler serves the learn form and the teach listing.
type RequestHandler struct {
	Requests *service.RequestService
	Catalog  *service.CatalogService
	Views    *Views
	Flash    *FlashStore
	Metrics  *metrics.Metrics
}

type issueOption struct {
	Code  string
	Label string
}

type learnView struct {
	Subjects []domain.Subject
	Issues   []issueOption
}

func issueOptions() []issueOption {
	opts := make([]issueOption, 0, len(domain.IssueLabels))
	for code, label := range domain.IssueLabels {
		opts = append(opts, issueOption{Code: code, Label: label})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })
	return opts
}

func (h *RequestHandler) LearnForm(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.Catalog.ListSubjects(r.Context())
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	view := learnView{Subjects: subjects, Issues: issueOptions()}
	h.Views.Render(w, r, http.StatusOK, "learn.html", "Learn", view)
}

func (h *RequestHandler) Learn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	p := PrincipalFromContext(r.Context())
	_, err := h.Requests.Create(r.Context(), p.User, service.NewRequest{
		SubjectTitle:  r.PostForm.Get("subj_title"),
		IssueCode:     r.PostForm.Get("issue"),
		Elaboration:   r.PostForm.Get("elaboration"),
		Title:         r.PostForm.Get("title"),
		Body:          r.PostForm.Get("challenge"),
		ExtraRequests: r.PostForm.Get("requests"),
		Availability:  r.PostForm.Get("availability"),
		Additional:    r.PostForm.Get("additional_comments"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSubject):
			h.Flash.Add(w, r, msgInvalidSubject)
		case errors.Is(err, service.ErrElaborationRequired):
			h.Flash.Add(w, r, msgBlankElaboration)
		case errors.Is(err, service.ErrInvalidIssue):
			h.Flash.Add(w, r, msgInvalidIssue)
		case errors.Is(err, service.ErrTitleRequired):
			h.Flash.Add(w, r, msgEmptyTitle)
		case errors.Is(err, service.ErrBodyRequired):
			h.Flash.Add(w, r, msgBlankBody)
		default:
			h.Views.ServerError(w, r, err)
			return
		}
		httpx.SeeOther(w, r, "/learn")
		return
	}

	if h.Metrics != nil {
		h.Metrics.RequestsFiled.Inc()
	}
	h.Flash.Add(w, r, msgRequestCreated)
	httpx.SeeOther(w, r, "/me")
}

func (h *RequestHandler) Teach(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	requests, err := h.Requests.ListForTutor(r.Context(), p.User.ID)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "teach.html", "Teach", requests)
}
