package monitor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/social-monitor/internal/models"
)

func TestSeenSetObserveIdempotent(t *testing.T) {
	s := NewSeenSet()

	if !s.Observe("weibo", "p1") {
		t.Error("first observation should report new")
	}
	if s.Observe("weibo", "p1") {
		t.Error("second observation should not report new")
	}
	if !s.Observe("douyin", "p1") {
		t.Error("same post id on a different platform is a distinct key")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSeenSetConcurrentObserve(t *testing.T) {
	s := NewSeenSet()

	const workers = 16
	const posts = 50

	var newCount int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < posts; i++ {
				if s.Observe("weibo", fmt.Sprintf("post-%d", i)) {
					atomic.AddInt64(&newCount, 1)
				}
			}
		}()
	}
	wg.Wait()

	// Exactly one worker may win each key
	if newCount != posts {
		t.Errorf("got %d new observations, want %d", newCount, posts)
	}
	if s.Len() != posts {
		t.Errorf("Len() = %d, want %d", s.Len(), posts)
	}
}

func TestSeenSetSeedAndClear(t *testing.T) {
	s := NewSeenSet()
	s.Seed([]*models.Post{
		{Platform: "weibo", PostID: "a"},
		{Platform: "weibo", PostID: "b"},
	})

	if s.Observe("weibo", "a") {
		t.Error("seeded post should not be new")
	}
	if !s.Observe("weibo", "c") {
		t.Error("unseeded post should be new")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
	if !s.Observe("weibo", "a") {
		t.Error("cleared post should be new again")
	}
}

func TestDedupKey(t *testing.T) {
	if got := DedupKey("weibo", "12345"); got != "weibo_12345" {
		t.Errorf("DedupKey = %q, want %q", got, "weibo_12345")
	}
}
