package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pairpad/internal/api"
)

func New(h *api.Handlers, clientOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{clientOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", h.Health)

	r.Get("/api/languages", h.ListLanguages)
	r.Post("/api/sessions", h.CreateSession)
	r.Get("/api/sessions/{id}", h.GetSession)
	r.Post("/api/run", h.RunOnce)

	r.Get("/ws", h.SessionWS)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
