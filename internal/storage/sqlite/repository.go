package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/social-monitor/internal/models"
	"github.com/social-monitor/internal/storage"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.Post{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertUser inserts a user or, on a (platform, user_id) conflict,
// refreshes the mutable profile fields
func (r *Repository) UpsertUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "avatar", "description", "followers", "updated_at",
		}),
	}).Create(user).Error
}

// UpsertPost inserts a post or, on a (platform, post_id) conflict,
// refreshes content, media and engagement counters. created_at is never
// touched on conflict, so first-seen time survives re-fetches.
func (r *Repository) UpsertPost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "content", "images", "videos",
			"likes", "comments", "shares", "updated_at",
		}),
	}).Create(post).Error
}

// GetPosts returns posts matching the filter, newest first
func (r *Repository) GetPosts(ctx context.Context, filter storage.PostFilter) ([]*models.Post, error) {
	var posts []*models.Post
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	query = query.Order("published_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the number of posts matching the filter
func (r *Repository) CountPosts(ctx context.Context, filter storage.PostFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetUsers returns users ordered by most recently updated
func (r *Repository) GetUsers(ctx context.Context, platform string) ([]*models.User, error) {
	var users []*models.User
	query := r.db.WithContext(ctx).Model(&models.User{}).Order("updated_at DESC")
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user and cascades to that user's posts
func (r *Repository) DeleteUser(ctx context.Context, platform, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("platform = ? AND user_id = ?", platform, userID).
			Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Where("platform = ? AND user_id = ?", platform, userID).
			Delete(&models.User{}).Error
	})
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
