// Package mock provides a simulated post source for platforms without a
// native adapter. Fetching real weibo/douyin content requires signed
// requests and valid session cookies, which live outside this codebase;
// the mock keeps the rest of the pipeline exercisable in development.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/social-monitor/internal/models"
	"github.com/social-monitor/internal/source"
)

// Source implements PostSource with deterministic synthetic data
type Source struct {
	platform string
}

// New creates a mock source for the given platform name
func New(platform string) *Source {
	return &Source{platform: platform}
}

// Platform returns the simulated platform name
func (s *Source) Platform() string {
	return s.platform
}

// GetUserInfo returns a synthetic profile for any user ID
func (s *Source) GetUserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{
		UserID:      userID,
		Username:    fmt.Sprintf("%s_user_%s", s.platform, userID),
		Avatar:      "https://via.placeholder.com/150",
		Description: fmt.Sprintf("Simulated %s account", s.platform),
		Followers:   10000,
	}, nil
}

// GetUserPosts returns up to ten synthetic posts, newest first
func (s *Source) GetUserPosts(ctx context.Context, userID string, maxCount int) ([]*models.PostRecord, error) {
	count := maxCount
	if count > 10 || count <= 0 {
		count = 10
	}

	now := time.Now()
	records := make([]*models.PostRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, &models.PostRecord{
			PostID:      fmt.Sprintf("mock_%s_%d", userID, i),
			Content:     fmt.Sprintf("Sample %s post %d from user %s", s.platform, i+1, userID),
			Images:      []string{"https://via.placeholder.com/400x600"},
			Videos:      []string{"https://example.com/video.mp4"},
			Likes:       1000 + i*100,
			Comments:    50 + i*10,
			Shares:      20 + i*5,
			PostURL:     fmt.Sprintf("https://%s.example.com/post/mock_%s_%d", s.platform, userID, i),
			PublishedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return records, nil
}

// Ensure Source implements source.PostSource
var _ source.PostSource = (*Source)(nil)
