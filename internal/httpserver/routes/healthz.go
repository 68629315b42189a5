package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/handlers"
)

func init() { Register(registerHealthz) }

func registerHealthz(r chi.Router, d deps.Deps) {
	r.With(opsMiddlewares(d)...).Get("/healthz", handlers.Healthz(d))
}
