package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ParseHostNoPort returns the host part (no port) from strings like "ip:port", "[v6]:port", or "ip".
func ParseHostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return strings.Trim(s, "[]")
}

// FirstForwardedFor returns the left-most entry of X-Forwarded-For, trimmed.
func FirstForwardedFor(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// ClientIP resolves the real client IP.
// If trustProxy is true, prefers CF-Connecting-IP, X-Forwarded-For (first), then X-Real-IP.
// Otherwise only RemoteAddr is used.
//
// Only set trustProxy when the origin is reachable through the proxy alone.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, v := range []string{
			r.Header.Get("CF-Connecting-IP"),
			FirstForwardedFor(r.Header.Get("X-Forwarded-For")),
			r.Header.Get("X-Real-IP"),
		} {
			if ip := ParseHostNoPort(strings.TrimSpace(v)); ip != "" {
				return ip
			}
		}
	}
	return ParseHostNoPort(r.RemoteAddr)
}

// IPMatcher matches exact IPs and CIDRs. Invalid entries are ignored.
type IPMatcher struct {
	prefixes []netip.Prefix
}

func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(s); err == nil {
			addr = addr.Unmap()
			m.prefixes = append(m.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

// Allow reports whether ipStr falls in one of the configured ranges.
// IPv4-mapped IPv6 addresses match their IPv4 form.
func (m *IPMatcher) Allow(ipStr string) bool {
	addr, err := netip.ParseAddr(ipStr)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
