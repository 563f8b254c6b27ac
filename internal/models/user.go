package models

import (
	"time"
)

// User represents a monitored account on a platform.
// The natural key is (platform, user_id); re-fetching upserts in place.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Platform    string    `gorm:"uniqueIndex:idx_users_platform_user;not null" json:"platform"`
	UserID      string    `gorm:"uniqueIndex:idx_users_platform_user;not null" json:"user_id"`
	Username    string    `gorm:"not null" json:"username"`
	Avatar      string    `json:"avatar"`
	Description string    `json:"description"`
	Followers   int       `gorm:"default:0" json:"followers"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserInfo is the raw profile data a PostSource returns for an account.
type UserInfo struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	Followers   int    `json:"followers"`
}
