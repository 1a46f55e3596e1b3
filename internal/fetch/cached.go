package fetch

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched job description is reused.
const DefaultCacheTTL = 6 * time.Hour

// DefaultMaxEntries caps the number of cached job descriptions.
const DefaultMaxEntries = 256

// BrowserFunc renders a URL and returns its HTML.
type BrowserFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// CachedFetcher turns job URLs into description text, remembering results
// in memory for CacheTTL. When the HTTP text is too short and a browser is
// configured, the page is rendered headlessly instead.
type CachedFetcher struct {
	Options    *Options
	CacheTTL   time.Duration
	MaxEntries int
	Browser    BrowserFunc

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	text      string
	fetchedAt time.Time
}

// NewCachedFetcher creates a fetcher. useBrowser enables the headless
// Chrome fallback.
func NewCachedFetcher(opts *Options, useBrowser bool) *CachedFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	f := &CachedFetcher{
		Options:    opts,
		CacheTTL:   DefaultCacheTTL,
		MaxEntries: DefaultMaxEntries,
		cache:      make(map[string]cacheEntry),
		now:        time.Now,
	}
	if useBrowser {
		f.Browser = WithBrowser
	}
	return f
}

// JobText returns the readable description of the job page at url.
func (f *CachedFetcher) JobText(ctx context.Context, url string) (string, error) {
	if text, ok := f.lookup(url); ok {
		return text, nil
	}

	platform := DetectPlatform(url)
	result, err := URL(ctx, url, f.Options)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", &Error{URL: url, Message: "failed to extract text", Cause: err}
	}

	if ShouldUseBrowser(text) && f.Browser != nil {
		html, berr := f.Browser(ctx, url, f.Options.Timeout)
		if berr != nil {
			log.Printf("[fetch] browser fallback failed for %s: %v", url, berr)
		} else if rendered, xerr := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...); xerr == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if text == "" {
		return "", &Error{URL: url, Message: "page contained no readable text"}
	}

	f.store(url, text)
	return text, nil
}

// Invalidate drops a cached entry.
func (f *CachedFetcher) Invalidate(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, url)
}

func (f *CachedFetcher) lookup(url string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[url]
	if !ok {
		return "", false
	}
	if f.now().Sub(entry.fetchedAt) > f.CacheTTL {
		delete(f.cache, url)
		return "", false
	}
	return entry.text, true
}

// store caches text for url. Expired entries are swept first; when the
// cache is still full the oldest entry is evicted.
func (f *CachedFetcher) store(url, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if _, ok := f.cache[url]; !ok {
		for u, entry := range f.cache {
			if now.Sub(entry.fetchedAt) > f.CacheTTL {
				delete(f.cache, u)
			}
		}
		if f.MaxEntries > 0 && len(f.cache) >= f.MaxEntries {
			f.evictOldest()
		}
	}
	f.cache[url] = cacheEntry{text: text, fetchedAt: now}
}

func (f *CachedFetcher) evictOldest() {
	var (
		oldestURL string
		oldest    time.Time
	)
	for u, entry := range f.cache {
		if oldestURL == "" || entry.fetchedAt.Before(oldest) {
			oldestURL, oldest = u, entry.fetchedAt
		}
	}
	if oldestURL != "" {
		delete(f.cache, oldestURL)
	}
}
