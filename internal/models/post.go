package models

import (
	"time"

	"gorm.io/gorm"
)

// Post categories. CategoryNotice is admin-only and always sorts first.
const (
	CategoryNotice     = "notice"
	CategoryQuestion   = "question"
	CategoryInfo       = "info"
	CategoryExperience = "experience"
)

// Image size classes applied to an embedded post image at render time.
const (
	ImageSizeSmall  = "small"
	ImageSizeMedium = "medium"
	ImageSizeLarge  = "large"
)

// Image alignment classes.
const (
	ImageAlignLeft   = "left"
	ImageAlignCenter = "center"
	ImageAlignRight  = "right"
)

// Post is a community board post. Content is the marker-encoded payload
// produced by the content package; ImageURL plus the size/align classes are
// the placement metadata for the single optional embedded image.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"not null;index;default:question" json:"category"`
	// UserID is nullable: anonymous posts carry no author id.
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	// Nickname is captured at post-creation time, not live-joined to the
	// author's current profile.
	Nickname   string `gorm:"not null" json:"nickname"`
	ImageURL   string `json:"image_url"`
	ImageSize  string `gorm:"default:medium" json:"image_size"`
	ImageAlign string `gorm:"default:center" json:"image_align"`
	// Denormalized counters, adjusted through explicit update calls.
	ViewCount    int `gorm:"not null;default:0" json:"view_count"`
	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	CommentCount int `gorm:"not null;default:0" json:"comment_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidCategory reports whether category is one of the supported post
// categories.
func ValidCategory(category string) bool {
	switch category {
	case CategoryNotice, CategoryQuestion, CategoryInfo, CategoryExperience:
		return true
	}
	return false
}

// ValidImageSize reports whether size is a supported image size class.
func ValidImageSize(size string) bool {
	switch size {
	case ImageSizeSmall, ImageSizeMedium, ImageSizeLarge:
		return true
	}
	return false
}

// ValidImageAlign reports whether align is a supported image alignment.
func ValidImageAlign(align string) bool {
	switch align {
	case ImageAlignLeft, ImageAlignCenter, ImageAlignRight:
		return true
	}
	return false
}
