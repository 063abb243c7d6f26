package models

import (
	"time"

	"github.com/challecara/tsunagulink/internal/constants"
)

// SocialLink connects a profile to an external social account.
type SocialLink struct {
	ID        int64     `json:"id" db:"link_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Provider  string    `json:"provider" db:"provider" validate:"required,social_provider"`
	URL       string    `json:"url" db:"url" validate:"required,url"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the SocialLink model.
func (sl *SocialLink) TableName() string {
	return "social_links"
}

// SocialLinkRequest represents a link submitted during registration or editing.
type SocialLinkRequest struct {
	Provider string `json:"provider" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
}

// IsValidSocialProvider reports whether the provider is one of the
// supported platforms.
func IsValidSocialProvider(provider string) bool {
	for _, p := range constants.SocialLinkProviders {
		if provider == p {
			return true
		}
	}
	return false
}
