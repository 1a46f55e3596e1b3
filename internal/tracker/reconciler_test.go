package tracker

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSavedURLIndex_MarkAndCheck(t *testing.T) {
	x := NewSavedURLIndex()
	assert.False(t, x.IsSaved("http://ok.com/1"))

	x.MarkSaved("http://ok.com/1")
	x.MarkSaved("http://ok.com/1")
	assert.True(t, x.IsSaved("http://ok.com/1"))
	assert.Equal(t, 1, x.Len())

	x.MarkUnsaved("http://ok.com/1")
	assert.False(t, x.IsSaved("http://ok.com/1"))
	assert.Equal(t, 0, x.Len())

	// Removing an absent URL is harmless
	x.MarkUnsaved("http://ok.com/2")
	assert.Equal(t, 0, x.Len())
}

func TestSavedURLIndex_ExactIdentity(t *testing.T) {
	x := NewSavedURLIndex()
	x.MarkSaved("http://x.com/job")

	assert.True(t, x.IsSaved("http://x.com/job"))
	assert.False(t, x.IsSaved("http://x.com/job/"))
	assert.False(t, x.IsSaved("HTTP://X.COM/job"))
	assert.False(t, x.IsSaved("http://x.com/job?ref=1"))
}

func TestSavedURLIndex_RebuildIsFullReplace(t *testing.T) {
	x := NewSavedURLIndex()
	x.MarkSaved("http://stale.com/1")

	gen := x.BeginRebuild()
	x.Rebuild(gen, []string{"http://a.com/1", "http://b.com/2"})

	assert.False(t, x.IsSaved("http://stale.com/1"))
	assert.ElementsMatch(t, []string{"http://a.com/1", "http://b.com/2"}, x.snapshot())
}

func TestSavedURLIndex_RebuildKeepsConcurrentPatches(t *testing.T) {
	x := NewSavedURLIndex()
	x.MarkSaved("http://deleted.com/1")

	gen := x.BeginRebuild()
	// Snapshot was read before these mutations reached the store
	snapshot := []string{"http://deleted.com/1", "http://kept.com/1"}
	x.MarkSaved("http://new.com/1")
	x.MarkUnsaved("http://deleted.com/1")
	x.Rebuild(gen, snapshot)

	assert.True(t, x.IsSaved("http://new.com/1"))
	assert.True(t, x.IsSaved("http://kept.com/1"))
	assert.False(t, x.IsSaved("http://deleted.com/1"))
}

func TestSavedURLIndex_PatchBeforeBeginIsNotReplayed(t *testing.T) {
	x := NewSavedURLIndex()
	x.MarkSaved("http://gone.com/1")
	x.MarkUnsaved("http://gone.com/1")

	gen := x.BeginRebuild()
	x.Rebuild(gen, []string{"http://gone.com/1"})

	// Snapshot wins for mutations that happened before the rebuild began
	assert.True(t, x.IsSaved("http://gone.com/1"))
}

func TestSavedURLIndex_AbortRebuildKeepsState(t *testing.T) {
	x := NewSavedURLIndex()
	x.MarkSaved("http://a.com/1")

	x.BeginRebuild()
	x.MarkSaved("http://b.com/1")
	x.AbortRebuild()

	assert.True(t, x.IsSaved("http://a.com/1"))
	assert.True(t, x.IsSaved("http://b.com/1"))
	assert.Nil(t, x.journal)
}

func TestSavedURLIndex_ConcurrentAccess(t *testing.T) {
	x := NewSavedURLIndex()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("http://ok.com/%d", i)
			x.MarkSaved(url)
			_ = x.IsSaved(url)
			gen := x.BeginRebuild()
			x.Rebuild(gen, x.snapshot())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, x.Len())
}
