package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/voxmind/voxmind/internal/api/handlers"
	"github.com/voxmind/voxmind/internal/api/middleware"
)

type Router struct {
	mux     *chi.Mux
	updates handlers.UpdateHandler
	redis   handlers.Pinger
}

// NewRouter takes the update dispatcher and, optionally, the Redis-backed
// store used for readiness checks (nil when Redis is disabled).
func NewRouter(updates handlers.UpdateHandler, redis handlers.Pinger) *Router {
	return &Router{
		mux:     chi.NewRouter(),
		updates: updates,
		redis:   redis,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)

	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/", health.Home)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	webhookH := handlers.NewWebhookHandler(rt.updates)
	r.Post("/webhook", webhookH.Receive)

	return r
}
