// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements origin matching for CORS. The allowlist accepts exact
// origins ("http://localhost:5173") and wildcard-subdomain patterns
// ("https://*.vercel.app"), which match any single- or multi-level subdomain
// of the given domain under the given scheme.
package middleware

import "strings"

// OriginMatcher decides whether a request Origin is allowed by the configured
// whitelist. It is immutable after construction and safe for concurrent use.
type OriginMatcher struct {
	exact    map[string]struct{}
	wildcard []wildcardOrigin
}

// wildcardOrigin is a compiled "scheme://*.domain" pattern.
type wildcardOrigin struct {
	scheme string // e.g. "https"
	suffix string // e.g. ".vercel.app"
}

// NewOriginMatcher compiles the allowlist. Entries containing "*." after the
// scheme are treated as wildcard-subdomain patterns; everything else is an
// exact match. Malformed entries are ignored.
func NewOriginMatcher(allowed []string) *OriginMatcher {
	m := &OriginMatcher{exact: make(map[string]struct{}, len(allowed))}
	for _, o := range allowed {
		o = strings.TrimSpace(strings.TrimRight(o, "/"))
		if o == "" {
			continue
		}
		scheme, rest, ok := strings.Cut(o, "://")
		if ok && strings.HasPrefix(rest, "*.") {
			domain := strings.TrimPrefix(rest, "*.")
			if domain == "" {
				continue
			}
			m.wildcard = append(m.wildcard, wildcardOrigin{
				scheme: strings.ToLower(scheme),
				suffix: "." + strings.ToLower(domain),
			})
			continue
		}
		m.exact[strings.ToLower(o)] = struct{}{}
	}
	return m
}

// Allow reports whether origin matches an exact entry or a wildcard pattern.
func (m *OriginMatcher) Allow(origin string) bool {
	origin = strings.ToLower(strings.TrimSpace(strings.TrimRight(origin, "/")))
	if origin == "" {
		return false
	}
	if _, ok := m.exact[origin]; ok {
		return true
	}

	scheme, host, ok := strings.Cut(origin, "://")
	if !ok || host == "" {
		return false
	}
	for _, w := range m.wildcard {
		if scheme != w.scheme {
			continue
		}
		// Subdomain required: "app.vercel.app" matches "*.vercel.app",
		// the apex "vercel.app" does not.
		if strings.HasSuffix(host, w.suffix) && len(host) > len(w.suffix) {
			return true
		}
	}
	return false
}

// Empty reports whether no allowlist entries were configured.
func (m *OriginMatcher) Empty() bool {
	return len(m.exact) == 0 && len(m.wildcard) == 0
}
