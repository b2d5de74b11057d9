package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to exactly one post and is displayed oldest-first.
// Nickname is denormalized at write time; admin commenters are relabeled
// to the fixed admin display name.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	Nickname  string         `gorm:"not null" json:"nickname"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
