package storage

import (
	"context"

	"github.com/social-monitor/internal/models"
)

// Repository defines the interface for data persistence
type Repository interface {
	// UpsertUser inserts or updates a user keyed by (platform, user_id)
	UpsertUser(ctx context.Context, user *models.User) error

	// UpsertPost inserts or updates a post keyed by (platform, post_id)
	UpsertPost(ctx context.Context, post *models.Post) error

	// GetPosts returns posts matching the filter, ordered by
	// published_at descending
	GetPosts(ctx context.Context, filter PostFilter) ([]*models.Post, error)

	// CountPosts returns the number of posts matching the filter
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)

	// GetUsers returns users, optionally restricted to one platform
	GetUsers(ctx context.Context, platform string) ([]*models.User, error)

	// DeleteUser removes a user and all of that user's posts
	DeleteUser(ctx context.Context, platform, userID string) error

	// Maintenance
	Migrate() error
	Close() error
}

// PostFilter defines filtering options for posts. Zero-valued fields are
// not applied.
type PostFilter struct {
	Platform string
	UserID   string
	Limit    int
	Offset   int
}

// DefaultPostFilter returns a filter with sensible defaults
func DefaultPostFilter() PostFilter {
	return PostFilter{Limit: 100}
}
