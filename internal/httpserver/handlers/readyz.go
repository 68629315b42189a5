package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports ready once the persistence API answers. Redis is optional
// and does not affect readiness.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		if err := d.API.Ping(r.Context()); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(readyzResponse{Ready: false, Error: "persistence api unreachable"})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: true})
	}
}
