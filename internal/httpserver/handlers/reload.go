package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
)

// Reload triggers a manual refresh of the cached islands list.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual islands reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("islands reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
