package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps http.ServeMux. Routes registered through protect go through
// the auth middleware when one is set.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
	auth   func(http.Handler) http.Handler
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler registers an http.Handler (metrics and the like).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// UseAuth sets the middleware applied to /api/v1 routes.
func (r *Router) UseAuth(mw func(http.Handler) http.Handler) {
	r.auth = mw
}

func (r *Router) protect(pattern string, h http.HandlerFunc) {
	if r.auth == nil {
		r.mux.HandleFunc(pattern, h)
		return
	}
	r.mux.Handle(pattern, r.auth(h))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes registers the public sign-in and recovery endpoints.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/api/v1/login", h.ServeHTTP)
	r.Handle("/auth/api/v1/register", h.ServeHTTP)
	r.Handle("/auth/api/v1/logout", h.ServeHTTP)
	r.Handle("/auth/api/v1/forgot-password", h.ServeHTTP)
	r.Handle("/auth/api/v1/password-reset", h.ServeHTTP)
}

func (r *Router) RegisterCatalogRoutes(h *CatalogHandler) {
	r.protect("/api/v1/plans", h.ServeHTTP)
	r.protect("/api/v1/timezones", h.ServeHTTP)
	r.protect("/api/v1/form-templates", h.ServeHTTP)
}

func (r *Router) RegisterAccountRoutes(h *AccountHandler) {
	r.protect("/api/v1/account", h.ServeHTTP)
	r.protect("/api/v1/account/", h.ServeHTTP)
}

func (r *Router) RegisterClinicRoutes(h *ClinicHandler) {
	r.protect("/api/v1/dashboard", h.Overview)
	r.protect("/api/v1/calendar", h.Overview)

	r.protect("/api/v1/clients", h.Clients)
	r.protect("/api/v1/clients/", h.Clients)

	r.protect("/api/v1/sessions", h.Sessions)
	r.protect("/api/v1/sessions/", h.Sessions)

	r.protect("/api/v1/notes/", h.Notes)
	r.protect("/api/v1/forms/", h.Forms)
	r.protect("/api/v1/evolution/", h.Evolution)
}

// RegisterOpsRoutes registers health and metrics, both unauthenticated.
func (r *Router) RegisterOpsRoutes(metrics http.Handler) {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
	r.HandleHandler("/metrics", metrics)
}
