package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/utils"
)

// Identity headers set by the upstream auth proxy.
const (
	HeaderUserID = "X-Auth-User-Id"
	HeaderRole   = "X-Auth-Role"
)

// Provider resolves who is making a request.
type Provider interface {
	Identify(r *http.Request) domain.Identity
}

// HeaderProvider reads the identity forwarded by an auth proxy.
//
// Headers are honoured only when TrustProxy is set and the direct peer
// (RemoteAddr) matches one of the Proxies IPs/CIDRs. An empty proxy list
// trusts no one.
type HeaderProvider struct {
	TrustProxy bool
	Proxies    *utils.IPMatcher
}

func NewHeaderProvider(trustProxy bool, proxies []string) *HeaderProvider {
	return &HeaderProvider{TrustProxy: trustProxy, Proxies: utils.NewIPMatcher(proxies)}
}

func (p *HeaderProvider) Identify(r *http.Request) domain.Identity {
	if !p.TrustProxy {
		return domain.Identity{}
	}
	if p.Proxies == nil || p.Proxies.IsEmpty() || !p.Proxies.Allow(utils.ParseHostNoPort(r.RemoteAddr)) {
		return domain.Identity{}
	}

	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" {
		return domain.Identity{}
	}
	return domain.Identity{
		UserID: userID,
		Role:   strings.TrimSpace(r.Header.Get(HeaderRole)),
	}
}

// SignInURL builds the sign-in redirect: base?reason=...&next=...
// next is dropped unless it is a local path, so the sign-in page can never
// bounce the user to another site.
func SignInURL(base, reason, next string) string {
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{Path: "/signin"}
	}
	q := u.Query()
	if reason != "" {
		q.Set("reason", reason)
	}
	if isLocalPath(next) {
		q.Set("next", next)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}
