package models

import (
	"time"

	"github.com/challecara/tsunagulink/internal/constants"
)

// Idea is a short blog post published on a profile page.
type Idea struct {
	ID          int64     `json:"id" db:"idea_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title" validate:"required,min=1,max=200"`
	Content     string    `json:"content" db:"content" validate:"required,min=1"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Tag         string    `json:"tag" db:"tag" validate:"omitempty,idea_tag"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Idea model.
func (i *Idea) TableName() string {
	return "ideas"
}

// IdeaRequest represents the data for creating or updating an idea.
type IdeaRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Content     string `json:"content" validate:"required,min=1"`
	ImageURL    string `json:"image_url" validate:"omitempty"`
	Tag         string `json:"tag" validate:"omitempty,idea_tag"`
	IsPublished bool   `json:"is_published"`
}

// FirstIdeaRequest represents the optional first post captured during
// registration. Title and content must both be present for the post to be
// created; the request is otherwise ignored.
type FirstIdeaRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Tag      string `json:"tag"`
}

// HasContent reports whether the first post carries both a title and a body.
func (f *FirstIdeaRequest) HasContent() bool {
	return f != nil && f.Title != "" && f.Content != ""
}

// IsValidIdeaTag reports whether the tag is empty or one of the fixed
// category values.
func IsValidIdeaTag(tag string) bool {
	if tag == "" {
		return true
	}
	for _, t := range constants.IdeaTags {
		if tag == t {
			return true
		}
	}
	return false
}
