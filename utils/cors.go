package utils

import (
	"net"
	"net/url"
	"strings"
)

// OriginPolicy decides which Origin header values get CORS headers.
type OriginPolicy struct {
	any     bool
	allowed map[string]struct{}
}

// NewOriginPolicy builds a policy from configured origins. "*" allows every
// origin. With no origins configured only local and private-network origins
// are allowed.
func NewOriginPolicy(origins []string) OriginPolicy {
	p := OriginPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			p.any = true
			continue
		}
		p.allowed[strings.ToLower(o)] = struct{}{}
	}
	return p
}

// Allows reports whether the origin may make cross-origin requests.
func (p OriginPolicy) Allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	if len(p.allowed) > 0 {
		_, ok := p.allowed[strings.ToLower(strings.TrimRight(origin, "/"))]
		return ok
	}
	return IsLocalOrigin(origin)
}

// IsLocalOrigin allows localhost, private and link-local IPs, .local
// hostnames and single-label hostnames.
func IsLocalOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	if hostname == "localhost" || strings.HasSuffix(hostname, ".local") {
		return true
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
	}
	// LAN names
	return !strings.Contains(hostname, ".")
}
