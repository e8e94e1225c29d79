package models

import (
	"time"
)

// PublishedPost is one platform post that went out, with its position in
// the thread it belonged to (0 for standalone posts).
type PublishedPost struct {
	ID          uint   `gorm:"primaryKey"`
	DraftID     string `gorm:"index;not null"`
	PostID      string `gorm:"uniqueIndex;not null"`
	Kind        string `gorm:"index"`
	Position    int
	ThreadURL   string
	PublishedAt time.Time
	CreatedAt   time.Time
}

// TableName overrides the table name
func (PublishedPost) TableName() string {
	return "published_posts"
}
