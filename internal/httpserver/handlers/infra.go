package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	IslandsLoaded *int   `json:"islands_loaded,omitempty"`
	Sessions      *int   `json:"sessions,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		islandCount := d.MemoryIndex.IslandCount()
		sessionCount := d.MemoryIndex.SessionCount()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"api": checkAPI(r.Context(), d),
			"islands": {
				// an empty cache only means forms fetch islands per session
				OK:            true,
				IslandsLoaded: &islandCount,
				LastReload:    lastReloadStr,
			},
			"sessions": {
				OK:       true,
				Sessions: &sessionCount,
			},
			"redis": checkRedis(r.Context(), d),
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if api, ok := components["api"]; ok && !api.OK {
		return "critical" // nothing can be loaded or saved
	}
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "degraded" // sessions do not survive a restart
	}
	return "optimal"
}

func checkAPI(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.API.Ping(ctx); err != nil {
		return componentStatus{OK: false, Impact: "editing-unavailable", Error: err.Error()}
	}
	return componentStatus{OK: true}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "sessions-lost-on-restart",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "sessions-lost-on-restart",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "mirrored",
		Impact: "sessions-survive-restart",
	}
}
