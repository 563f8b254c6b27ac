package source

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/social-monitor/internal/models"
)

// ErrUnsupportedPlatform is returned when no source is registered for a
// requested platform.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// PostSource defines the interface for platform fetch adapters
type PostSource interface {
	// Platform returns the platform name this source serves
	Platform() string

	// GetUserInfo retrieves profile data for a user. A nil UserInfo with
	// a nil error means the user was not found.
	GetUserInfo(ctx context.Context, userID string) (*models.UserInfo, error)

	// GetUserPosts retrieves up to maxCount recent posts for a user.
	// An empty result is valid and means no content this cycle.
	GetUserPosts(ctx context.Context, userID string, maxCount int) ([]*models.PostRecord, error)
}

// Registry holds the registered sources keyed by platform name
type Registry struct {
	mu      sync.RWMutex
	sources map[string]PostSource
}

// NewRegistry creates an empty source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]PostSource),
	}
}

// Register adds a source, replacing any previous source for the same platform
func (r *Registry) Register(source PostSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.Platform()] = source
}

// Get returns the source for a platform, or ErrUnsupportedPlatform
func (r *Registry) Get(platform string) (PostSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.sources[platform]
	if !ok {
		return nil, ErrUnsupportedPlatform
	}
	return source, nil
}

// Platforms returns the registered platform names in sorted order
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	platforms := make([]string, 0, len(r.sources))
	for name := range r.sources {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)
	return platforms
}
