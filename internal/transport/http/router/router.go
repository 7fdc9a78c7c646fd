package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/alchies-rsvp/internal/config"
	"github.com/baechuer/alchies-rsvp/internal/transport/http/handlers"
	mw "github.com/baechuer/alchies-rsvp/internal/transport/http/middleware"
)

// FunctionsPrefix lets a front end built for the serverless deployment call
// this server without changing its base URL.
const FunctionsPrefix = "/.netlify/functions"

func New(
	h *handlers.EventsHandler,
	up *handlers.UploadHandler,
	z *handlers.HealthHandler,
	auth *mw.AuthMiddleware,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	if cfg.OTelEnabled {
		r.Use(mw.Tracing("rsvp-gateway"))
	}
	r.Use(mw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.AccessLog)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Content-Type", "Authorization", mw.HeaderXRequestID},
		ExposedHeaders:     []string{mw.HeaderXRequestID},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	routes := func(r chi.Router) {
		r.Options("/*", handlers.Options)

		r.Get("/events", h.List)
		r.Get("/events/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Post("/events", h.Create)
			r.Put("/events/{id}", h.Update)
			r.Delete("/events/{id}", h.Delete)
			r.Post("/upload", up.Upload)
		})
	}

	routes(r)
	r.Route(FunctionsPrefix, routes)

	return r
}
