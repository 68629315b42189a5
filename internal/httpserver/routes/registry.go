package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

// registry is filled by the init functions of this package.
var registry []entry

// Register a registrar with optional middlewares applied to all its routes.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll mounts every registrar on r and returns how many ran.
// Called once from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) int {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}
	return len(registry)
}
