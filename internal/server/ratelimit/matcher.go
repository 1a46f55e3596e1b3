package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for the liveness probe
var unlimited = EndpointConfig{Path: "/health", Method: http.MethodGet}

// MatchEndpoint picks the rate limit policy for a request.
//
// GET /health is never limited. An exact path+method entry wins; otherwise
// the longest matching prefix entry (a Path ending in "/") applies, so every
// generation route under /api/ai/ and /api/interview/ shares the AI policy
// unless a more specific prefix is configured. Returns nil when nothing
// matches and the limiter's default applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		cfg := unlimited
		return &cfg
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if !strings.HasSuffix(cfg.Path, "/") || !strings.HasPrefix(path, cfg.Path) {
			continue
		}
		if best == nil || len(cfg.Path) > len(best.Path) {
			best = cfg
		}
	}
	return best
}
