package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/utils"
)

// EnforceHost allows requests only if the Host header matches one of the
// allowed hosts. Patterns like "*.example.com" match any subdomain. A
// pattern without a port matches the host on any port.
// If allowedHosts is empty, it acts as a passthrough.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		log.Debug("EnforceHost: empty allowedHosts, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		patterns = append(patterns, strings.ToLower(strings.TrimSpace(h)))
	}
	log.Debugf("EnforceHost: initialized with hosts=%v", patterns)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(r.Host)
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Debug("EnforceHost: host rejected",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// matchHost checks host against pattern, with or without the port.
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	if !strings.Contains(pattern, ":") {
		host = utils.ParseHostNoPort(host)
		if host == pattern {
			return true
		}
	}

	// *.example.com matches sub.example.com but not example.com
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return false
}
