package ratelimit

import (
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig builds the limiter configuration. Overrides are read from
// RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW, RATE_LIMIT_AI_PER_HOUR,
// RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST.
func LoadConfig(enabled bool) *Config {
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.Int("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.Duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.Duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.Str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.Str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(env.Int("RATE_LIMIT_AI_PER_HOUR", 120)),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. AI endpoints
// each allow aiPerHour calls per client.
func DefaultEndpointConfigs(aiPerHour int) []EndpointConfig {
	aiBurst := max(aiPerHour/12, 1)
	return []EndpointConfig{
		// Tier 1: AI generation and PDF rendering (strictest limits)
		{Path: "/api/ai/", Method: "POST", Limit: aiPerHour, Window: time.Hour, Burst: aiBurst},
		{Path: "/api/interview/", Method: "POST", Limit: aiPerHour, Window: time.Hour, Burst: aiBurst},
		{Path: "/api/profile/resume", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},

		// Tier 2: outbound search and login
		{Path: "/api/search", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},

		// Tier 3: everything else uses the default limit
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
