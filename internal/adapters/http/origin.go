package http

import (
	"fmt"
	"net/http"
	"regexp"
)

// OriginMatcher accepts exact origins and origins matching any pattern.
type OriginMatcher struct {
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

func NewOriginMatcher(exact, patterns []string) (*OriginMatcher, error) {
	m := &OriginMatcher{exact: make(map[string]struct{}, len(exact))}
	for _, o := range exact {
		m.exact[o] = struct{}{}
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("origin pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

func (m *OriginMatcher) Allow(origin string) bool {
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, re := range m.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

// CheckOrigin vets a WebSocket upgrade. Requests without an Origin header
// come from non-browser clients and are let through.
func (m *OriginMatcher) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || m.Allow(origin)
}
