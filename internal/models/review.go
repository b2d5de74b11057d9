package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxReviewLength caps one-line review content.
const MaxReviewLength = 80

// Review is an anonymous one-line service review shown on the landing page.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Nickname  string         `gorm:"not null" json:"nickname"`
	Content   string         `gorm:"not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
