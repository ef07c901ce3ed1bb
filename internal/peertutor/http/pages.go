package http

import "net/http"

// PageHandler serves the static pages and the 404 fallback.
type PageHandler struct {
	Views *Views
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "index.html", "Home", nil)
}

func (h *PageHandler) Terms(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "termsconditions.html", "Terms and Conditions", nil)
}

// Root serves the landing page for GET or HEAD on "/" exactly and 404 for
// everything else nothing more specific matched.
func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		h.Views.NotFound(w, r)
		return
	}
	h.Index(w, r)
}
