package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/mw"
)

func init() { Register(registerEdit) }

func registerEdit(r chi.Router, d deps.Deps) {
	host := mw.EnforceHost(d.AllowedHosts, d.Logger)

	// saves are limited per signed-in user, falling back to the client IP
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.SubmitBurst,
		RefillPerIPPerMin: d.SubmitPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
		Key: func(req *http.Request) string {
			if ident := d.Auth.Identify(req); ident.Authenticated() {
				return "user:" + ident.UserID
			}
			return ""
		},
	})

	r.With(host).Get("/vendor/services/{id}/edit", handlers.EditPage(d))
	r.With(host, limit).Post("/vendor/services/{id}/edit", handlers.EditSubmit(d))
}
