package main

import (
	"net/http"

	"crates-graph/handlers"
	"crates-graph/health"
	"crates-graph/observability"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

type routerConfig struct {
	BasePath       string
	AllowedOrigins []string
	Exclusions     observability.Exclusions
}

func newRouter(cfg routerConfig, logger *logrus.Logger, metrics *observability.Metrics, h *handlers.Handler, hh *health.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger, cfg.Exclusions))
	r.Use(metrics.Middleware(cfg.Exclusions))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Method(http.MethodGet, "/metrics", metrics.Handler(logger))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", hh.Get)
		r.Get("/liveness", health.Probe)
		r.Get("/liveliness", health.Probe)
		r.Get("/readiness", health.Probe)
	})

	app := func(r chi.Router) {
		r.Get("/dependency-graph", h.DependencyGraph)
		r.Route("/proxy", func(r chi.Router) {
			r.Get("/crate", h.ProxyCrate)
			r.Get("/crate_dependencies", h.ProxyCrateDependencies)
		})
		if h.Lookups != nil {
			r.Get("/lookups", h.ListLookups)
		}
	}

	if cfg.BasePath == "" {
		r.Group(app)
	} else {
		r.Route(cfg.BasePath, app)
	}

	return r
}
