package utils

import (
	"net/netip"
	"net/url"
	"strings"
)

// OriginPolicy decides which browser origins may call the API. Configured
// origins are matched exactly (scheme, host and port). Besides those, the
// SPA is allowed from localhost, private and link-local addresses, .local
// hostnames and single-label LAN names.
type OriginPolicy struct {
	explicit map[string]struct{}
}

func NewOriginPolicy(allowed []string) *OriginPolicy {
	p := &OriginPolicy{explicit: make(map[string]struct{}, len(allowed))}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin != "" {
			p.explicit[origin] = struct{}{}
		}
	}
	return p
}

// Allowed reports whether an Origin header value should be trusted.
func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if p != nil {
		if _, ok := p.explicit[strings.ToLower(origin)]; ok {
			return true
		}
	}
	return IsLocalOrigin(origin)
}

// IsLocalOrigin is true for origins that can only be reached from the LAN.
func IsLocalOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	hostname := parsed.Hostname()

	switch {
	case hostname == "localhost":
		return true
	case strings.HasSuffix(hostname, ".local"):
		return true
	}

	if addr, err := netip.ParseAddr(hostname); err == nil {
		return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
	}

	// LAN names have no dots.
	return !strings.Contains(hostname, ".")
}
