package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fixedClock pins the limiter's clock so refill is under test control.
func fixedClock(l *Limiter, start time.Time) func(time.Duration) {
	now := start
	var mu sync.Mutex
	l.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()
	fixedClock(limiter, time.Now())

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
	if !info.ResetTime.After(limiter.now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()
	advance := fixedClock(limiter, time.Now())

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/x", "GET")
	}
	if allowed, _ := limiter.Allow("c", "/x", "GET"); allowed {
		t.Fatal("Expected bucket to be empty")
	}

	advance(time.Second)
	if allowed, _ := limiter.Allow("c", "/x", "GET"); !allowed {
		t.Error("Expected request to be allowed after one token refilled")
	}
	if allowed, _ := limiter.Allow("c", "/x", "GET"); allowed {
		t.Error("Expected request to be denied after consuming refilled token")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); !allowed {
			t.Fatalf("Expected whitelisted request %d to be allowed", i+1)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.1": true},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("10.0.0.1", "/test", "GET"); allowed {
		t.Error("Expected blacklisted IP to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(LoadConfig(false))
	defer limiter.Stop()

	for i := 0; i < 1000; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/api/ai/cover-letter", "POST"); !allowed {
			t.Fatal("Expected all requests to be allowed when disabled")
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(24),
	})
	defer limiter.Stop()
	fixedClock(limiter, time.Now())

	// burst is 24/12 = 2
	for i := 0; i < 2; i++ {
		if allowed, _ := limiter.Allow("c", "/api/ai/cover-letter", "POST"); !allowed {
			t.Errorf("Expected AI request %d to be allowed", i+1)
		}
	}
	if allowed, info := limiter.Allow("c", "/api/ai/cold-email", "POST"); allowed {
		t.Error("Expected AI endpoints to share the prefix bucket")
	} else if info.Limit != 24 {
		t.Errorf("Expected limit 24, got %d", info.Limit)
	}

	// Other endpoints keep their own budget
	if allowed, _ := limiter.Allow("c", "/api/saved-jobs", "GET"); !allowed {
		t.Error("Expected default endpoint to be allowed")
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		if allowed, _ := limiter.Allow("c", "/health", "GET"); !allowed {
			t.Fatal("Expected health checks to be unlimited")
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()
	fixedClock(limiter, time.Now())

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/test", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 50 {
		t.Errorf("Expected exactly 50 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})
	defer limiter.Stop()
	advance := fixedClock(limiter, time.Now())

	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/test", "GET")
	}
	if limiter.Len() != 5 {
		t.Fatalf("Expected 5 buckets, got %d", limiter.Len())
	}

	advance(30 * time.Second)
	limiter.Allow("client-0", "/test", "GET")
	advance(45 * time.Second)
	limiter.cleanupBuckets()

	if limiter.Len() != 1 {
		t.Errorf("Expected only the recently used bucket to survive, got %d", limiter.Len())
	}
}

func TestLimiter_StopIdempotent(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(120)

	tests := []struct {
		path, method string
		wantPath     string
	}{
		{"/api/ai/gap-analysis", "POST", "/api/ai/"},
		{"/api/interview/start", "POST", "/api/interview/"},
		{"/api/search", "GET", "/api/search"},
		{"/auth/login", "POST", "/auth/login"},
		{"/api/saved-jobs", "GET", ""},
		{"/api/ai/gap-analysis", "GET", ""},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.wantPath == "" {
			if got != nil {
				t.Errorf("%s %s: expected no match, got %s", tt.method, tt.path, got.Path)
			}
			continue
		}
		if got == nil || got.Path != tt.wantPath {
			t.Errorf("%s %s: expected %s, got %v", tt.method, tt.path, tt.wantPath, got)
		}
	}
}

func TestMatchEndpoint_LongestPrefixWins(t *testing.T) {
	configs := append(DefaultEndpointConfigs(120),
		EndpointConfig{Path: "/api/ai/tailored-cv/", Method: "POST", Limit: 5, Window: time.Hour, Burst: 1})

	got := MatchEndpoint("/api/ai/tailored-cv/pdf", "POST", configs)
	if got == nil || got.Path != "/api/ai/tailored-cv/" || got.Limit != 5 {
		t.Errorf("expected the tailored-cv policy, got %v", got)
	}

	got = MatchEndpoint("/api/ai/cover-letter", "POST", configs)
	if got == nil || got.Path != "/api/ai/" {
		t.Errorf("expected the shared AI policy, got %v", got)
	}
}

func TestMatchEndpoint_HealthUnlimited(t *testing.T) {
	got := MatchEndpoint("/health", "GET", DefaultEndpointConfigs(120))
	if got == nil || got.Limit != 0 {
		t.Fatalf("expected unlimited health policy, got %v", got)
	}
	got.Limit = 99
	if again := MatchEndpoint("/health", "GET", nil); again.Limit != 0 {
		t.Errorf("health policy must not be shared between calls")
	}
}

func TestParseIPList(t *testing.T) {
	got := parseIPList(" 1.1.1.1, ,2.2.2.2")
	if len(got) != 2 || !got["1.1.1.1"] || !got["2.2.2.2"] {
		t.Errorf("unexpected list: %v", got)
	}
}
