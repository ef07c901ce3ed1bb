package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/metrics"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"

	_ "github.com/aussiebroadwan/peertutor/api/peertutor" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store   store.Store
	views   *Views
	flash   *FlashStore
	metrics *metrics.Metrics

	AuthService    *service.AuthService
	SessionService *service.SessionService
	UserService    *service.UserService
	RequestService *service.RequestService
	CatalogService *service.CatalogService
}

func NewRouter(
	st store.Store,
	views *Views,
	flash *FlashStore,
	m *metrics.Metrics,
	buildVersion string,
	secureCookies bool,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		secureCookies: secureCookies,
		store:         st,
		views:         views,
		flash:         flash,
		metrics:       m,
	}
}

// ApplyRoutes registers every route and builds the global middleware
// chain. Services must be set before it is called.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer(r.onPanic),
		httpx.SecurityHeaders,
		PrincipalMiddleware(r.SessionService, r.secureCookies),
		r.metrics.Middleware,
	}

	r.registerPages()
	r.registerAuth()
	r.registerProfiles()
	r.registerRequests()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			peertutor
//	@version		0.1.0
//	@description	Peer tutoring site for one school. Pages are server rendered HTML; only the
//	@description	operational endpoints below speak JSON.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/peertutor
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) onPanic(w http.ResponseWriter, req *http.Request, _ any) {
	r.views.Render(w, req, http.StatusInternalServerError, "500.html", "Server Error", nil)
}

func (r *Router) registerPages() {
	h := &PageHandler{Views: r.views}

	// "/" without a method matches every request nothing more specific
	// claims, so unknown paths get the 404 page whatever the method.
	r.Mux.HandleFunc("/", h.Root)
	r.Mux.HandleFunc("GET /index", h.Index)
	r.Mux.HandleFunc("GET /termsconditions", h.Terms)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Auth:          r.AuthService,
		Sessions:      r.SessionService,
		Catalog:       r.CatalogService,
		Views:         r.views,
		Flash:         r.flash,
		Metrics:       r.metrics,
		SecureCookies: r.secureCookies,
	}

	r.Mux.HandleFunc("GET /login", h.LoginForm)
	// Limited by IP + email so one address cannot be brute forced from many
	// tabs and one client cannot spray many addresses.
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.Login),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.HandleFunc("GET /logout", h.Logout)

	r.Mux.HandleFunc("GET /signup", h.SignupForm)
	r.Mux.Handle("POST /signup",
		httpx.Chain(http.HandlerFunc(h.Signup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.HandleFunc("GET /reset_password", h.ResetForm)
	r.Mux.Handle("POST /reset_password",
		httpx.Chain(http.HandlerFunc(h.Reset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) profileHandler() *ProfileHandler {
	return &ProfileHandler{
		Users:   r.UserService,
		Catalog: r.CatalogService,
		Views:   r.views,
		Flash:   r.flash,
	}
}

func (r *Router) registerProfiles() {
	h := r.profileHandler()
	requireLogin := RequireLogin(r.flash)

	r.Mux.Handle("GET /me", requireLogin(http.HandlerFunc(h.Me)))
	r.Mux.Handle("GET /edit", requireLogin(http.HandlerFunc(h.EditForm)))
	r.Mux.Handle("POST /edit",
		httpx.Chain(http.HandlerFunc(h.Edit),
			requireLogin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.HandleFunc("GET /user/{id}", h.ViewUser)
}

func (r *Router) registerRequests() {
	h := &RequestHandler{
		Requests: r.RequestService,
		Catalog:  r.CatalogService,
		Views:    r.views,
		Flash:    r.flash,
		Metrics:  r.metrics,
	}
	requireLogin := RequireLogin(r.flash)

	r.Mux.Handle("GET /learn", requireLogin(http.HandlerFunc(h.LearnForm)))
	r.Mux.Handle("POST /learn",
		httpx.Chain(http.HandlerFunc(h.Learn),
			requireLogin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /teach", requireLogin(http.HandlerFunc(h.Teach)))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		Users:    r.UserService,
		Requests: r.RequestService,
		Catalog:  r.CatalogService,
		Profiles: r.profileHandler(),
		Views:    r.views,
		Flash:    r.flash,
	}
	requireLogin := RequireLogin(r.flash)

	r.Mux.Handle("GET /admin", requireLogin(http.HandlerFunc(h.Overview)))
	r.Mux.Handle("GET /manage_users", requireLogin(http.HandlerFunc(h.ManageUsers)))
	r.Mux.Handle("POST /manage_users",
		httpx.Chain(http.HandlerFunc(h.ChangeRole),
			requireLogin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
