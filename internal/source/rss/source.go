package rss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/social-monitor/internal/models"
	"github.com/social-monitor/internal/source"
)

// Source implements PostSource for RSS/Atom feeds. The user identifier
// is the feed URL, so any feed can be monitored without configuration
// beyond adding its URL to the platform user list.
type Source struct {
	parser *gofeed.Parser
}

// New creates a new RSS source
func New() *Source {
	return &Source{
		parser: gofeed.NewParser(),
	}
}

// Platform returns "rss"
func (s *Source) Platform() string {
	return "rss"
}

// GetUserInfo fetches the feed and maps its channel metadata to a user profile
func (s *Source) GetUserInfo(ctx context.Context, feedURL string) (*models.UserInfo, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	info := &models.UserInfo{
		UserID:      feedURL,
		Username:    cleanText(feed.Title),
		Description: cleanText(feed.Description),
	}
	if info.Username == "" {
		info.Username = feedURL
	}
	if feed.Image != nil {
		info.Avatar = feed.Image.URL
	}
	return info, nil
}

// GetUserPosts fetches the feed and maps its items to post records
func (s *Source) GetUserPosts(ctx context.Context, feedURL string, maxCount int) ([]*models.PostRecord, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	records := make([]*models.PostRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if maxCount > 0 && len(records) >= maxCount {
			break
		}

		postID := item.GUID
		if postID == "" {
			postID = item.Link
		}
		if postID == "" {
			continue
		}

		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		content := cleanText(item.Title)
		if desc := cleanText(item.Description); desc != "" {
			content = content + "\n" + desc
		}

		record := &models.PostRecord{
			PostID:      postID,
			Content:     content,
			PostURL:     item.Link,
			PublishedAt: publishedAt,
		}
		if item.Image != nil {
			record.Images = []string{item.Image.URL}
		}
		records = append(records, record)
	}

	return records, nil
}

// cleanText removes HTML tags and extra whitespace
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "<br>", " ")
	text = strings.ReplaceAll(text, "<br/>", " ")
	text = strings.ReplaceAll(text, "<br />", " ")
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<p>", "")

	// Remove remaining HTML tags
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
		} else if r == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(r)
		}
	}

	// Clean up whitespace
	text = result.String()
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}

// Ensure Source implements source.PostSource
var _ source.PostSource = (*Source)(nil)
