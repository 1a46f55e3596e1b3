package tracker

import (
	"sync"
)

// SavedURLIndex answers "is this URL already saved" without a store query.
//
// Saves and deletes patch it synchronously. A board load rebuilds it from a
// store snapshot: BeginRebuild marks a generation, Rebuild replaces the set
// with the snapshot and replays every patch recorded after that generation,
// so a patch racing the snapshot read is never lost.
type SavedURLIndex struct {
	mu       sync.RWMutex
	urls     map[string]struct{}
	seq      uint64
	inflight int
	journal  []patch
}

type patch struct {
	seq   uint64
	url   string
	saved bool
}

// NewSavedURLIndex returns an empty index
func NewSavedURLIndex() *SavedURLIndex {
	return &SavedURLIndex{urls: make(map[string]struct{})}
}

// IsSaved reports whether url is in the index (exact match)
func (x *SavedURLIndex) IsSaved(url string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.urls[url]
	return ok
}

// MarkSaved adds url to the index
func (x *SavedURLIndex) MarkSaved(url string) {
	x.apply(url, true)
}

// MarkUnsaved removes url from the index
func (x *SavedURLIndex) MarkUnsaved(url string) {
	x.apply(url, false)
}

func (x *SavedURLIndex) apply(url string, saved bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.seq++
	setURL(x.urls, url, saved)
	if x.inflight > 0 {
		x.journal = append(x.journal, patch{seq: x.seq, url: url, saved: saved})
	}
}

// BeginRebuild must be called before reading the store snapshot that will be
// passed to Rebuild. It returns the generation to pass along.
func (x *SavedURLIndex) BeginRebuild() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.inflight++
	return x.seq
}

// Rebuild replaces the index with urls, then reapplies patches made after gen.
func (x *SavedURLIndex) Rebuild(gen uint64, urls []string) {
	next := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		next[u] = struct{}{}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, p := range x.journal {
		if p.seq > gen {
			setURL(next, p.url, p.saved)
		}
	}
	x.urls = next
	x.finishRebuild()
}

// AbortRebuild ends a rebuild whose snapshot could not be read
func (x *SavedURLIndex) AbortRebuild() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.finishRebuild()
}

func (x *SavedURLIndex) finishRebuild() {
	if x.inflight > 0 {
		x.inflight--
	}
	if x.inflight == 0 {
		x.journal = nil
	}
}

// Len returns the number of indexed URLs
func (x *SavedURLIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.urls)
}

// snapshot returns a copy of the indexed URLs in no particular order
func (x *SavedURLIndex) snapshot() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]string, 0, len(x.urls))
	for u := range x.urls {
		out = append(out, u)
	}
	return out
}

func setURL(m map[string]struct{}, url string, saved bool) {
	if saved {
		m[url] = struct{}{}
	} else {
		delete(m, url)
	}
}
