package monitor

import (
	"sync"

	"github.com/social-monitor/internal/models"
)

// SeenSeedLimit bounds how many persisted posts seed the seen set at
// startup. Posts older than the most recent 1000 are treated as unseen if
// they ever resurface; a trade-off favoring startup cost over exhaustive
// historical dedup.
const SeenSeedLimit = 1000

// SeenSet is an in-memory record of (platform, post_id) keys already
// observed, layered above the durable store to suppress duplicate match
// notifications. Safe for concurrent use.
type SeenSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewSeenSet creates an empty seen set
func NewSeenSet() *SeenSet {
	return &SeenSet{keys: make(map[string]struct{})}
}

// Seed populates the set from persisted posts
func (s *SeenSet) Seed(posts []*models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, post := range posts {
		s.keys[DedupKey(post.Platform, post.PostID)] = struct{}{}
	}
}

// Observe atomically checks membership and marks the key as seen. It
// reports true iff the key was not previously present, so concurrent
// observers of the same post agree on exactly one "new" outcome.
func (s *SeenSet) Observe(platform, postID string) bool {
	key := DedupKey(platform, postID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Clear empties the set. Previously seen posts will trigger match
// notifications again until re-observed.
func (s *SeenSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{})
}

// Len returns the number of observed keys
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// DedupKey builds the composite identity used to detect previously
// observed posts.
func DedupKey(platform, postID string) string {
	return platform + "_" + postID
}
