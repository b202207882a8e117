package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"funclist/internal/auth"
	"funclist/internal/middleware"
	"funclist/internal/service"
)

// RouterConfig carries the route-level settings the router needs.
type RouterConfig struct {
	OIDCAuthority      string
	OIDCClientID       string
	CORSAllowedOrigins []string

	// StaticPath enables single-page-app hosting with fallback-to-index
	// routing when non-empty.
	StaticPath string
}

// NewRouter assembles the full HTTP surface: middleware chain, the /v1
// API, /metrics, and optional static hosting. Everything under /v1 except
// /v1/config requires a verified bearer token.
func NewRouter(cfg RouterConfig, lists *service.ListService, verifier *auth.Verifier, resolver *auth.Resolver, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Metrics())

	configHandler := NewConfigHandler(cfg.OIDCAuthority, cfg.OIDCClientID)
	listHandler := NewListHandler(lists)

	r.Get("/v1/config", configHandler.HandleGet)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(verifier, resolver))

		r.Post("/v1/lists", listHandler.HandleCreate)
		r.Get("/v1/lists", listHandler.HandleList)
		r.Get("/v1/lists/{listID}", listHandler.HandleGet)
		r.Put("/v1/lists/{listID}", listHandler.HandleUpdate)
		r.Post("/v1/lists/{listID}/events", listHandler.HandleAppendEvent)
	})

	if cfg.StaticPath != "" {
		r.NotFound(NewSPAHandler(cfg.StaticPath).ServeHTTP)
	}

	return r
}
