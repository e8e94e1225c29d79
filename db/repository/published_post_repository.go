package repository

import (
	"github.com/soletta-dev/postpilot/db/models"
	"gorm.io/gorm"
)

// PublishedPostRepository defines the interface for archive operations
type PublishedPostRepository interface {
	Create(post *models.PublishedPost) error
	FindByDraftID(draftID string) ([]models.PublishedPost, error)
	ExistsByPostID(postID string) (bool, error)
	CountSince(since int64) (int64, error)
}

// GormPublishedPostRepository implements PublishedPostRepository using GORM
type GormPublishedPostRepository struct {
	db *gorm.DB
}

// NewPublishedPostRepository creates a new archive repository
func NewPublishedPostRepository(db *gorm.DB) PublishedPostRepository {
	return &GormPublishedPostRepository{db: db}
}

func (r *GormPublishedPostRepository) Create(post *models.PublishedPost) error {
	return r.db.Create(post).Error
}

func (r *GormPublishedPostRepository) FindByDraftID(draftID string) ([]models.PublishedPost, error) {
	var posts []models.PublishedPost
	err := r.db.Where("draft_id = ?", draftID).Order("position asc").Find(&posts).Error
	return posts, err
}

func (r *GormPublishedPostRepository) ExistsByPostID(postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PublishedPost{}).Where("post_id = ?", postID).Count(&count).Error
	return count > 0, err
}

// CountSince counts archived posts published at or after the given unix time.
func (r *GormPublishedPostRepository) CountSince(since int64) (int64, error) {
	var count int64
	err := r.db.Model(&models.PublishedPost{}).Where("published_at >= datetime(?, 'unixepoch')", since).Count(&count).Error
	return count, err
}
