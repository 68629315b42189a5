package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/mw"
)

func init() { Register(registerReload) }

func registerReload(r chi.Router, d deps.Deps) {
	r.With(opsMiddlewares(d)...).With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
}
