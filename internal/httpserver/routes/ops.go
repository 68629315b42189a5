package routes

import (
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/mw"
)

// opsTimeout bounds probes that reach the persistence API or Redis.
const opsTimeout = 3 * time.Second

func opsMiddlewares(d deps.Deps) []Middleware {
	return []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		middleware.Timeout(opsTimeout),
	}
}
