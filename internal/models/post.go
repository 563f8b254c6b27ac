package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringSlice is a custom type for storing string arrays as JSON columns
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return nil
}

// Post represents a persisted social media post.
// The natural key is (platform, post_id); upserts update the mutable
// fields (content, media, counters) and leave created_at untouched.
type Post struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Platform    string      `gorm:"uniqueIndex:idx_posts_platform_post;index:idx_posts_platform_user;not null" json:"platform"`
	PostID      string      `gorm:"uniqueIndex:idx_posts_platform_post;not null" json:"post_id"`
	UserID      string      `gorm:"index:idx_posts_platform_user;not null" json:"user_id"`
	Username    string      `gorm:"not null" json:"username"`
	Content     string      `gorm:"type:text" json:"content"`
	Images      StringSlice `gorm:"type:json" json:"images"`
	Videos      StringSlice `gorm:"type:json" json:"videos"`
	Likes       int         `gorm:"default:0" json:"likes"`
	Comments    int         `gorm:"default:0" json:"comments"`
	Shares      int         `gorm:"default:0" json:"shares"`
	PostURL     string      `json:"post_url"`
	PublishedAt time.Time   `gorm:"index" json:"published_at"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// PostRecord is the raw post data a PostSource returns before it is
// enriched with the platform and the account's username.
type PostRecord struct {
	PostID      string    `json:"post_id"`
	Content     string    `json:"content"`
	Images      []string  `json:"images"`
	Videos      []string  `json:"videos"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	PostURL     string    `json:"post_url"`
	PublishedAt time.Time `json:"published_at"`
}
