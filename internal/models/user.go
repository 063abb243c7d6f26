package models

import (
	"time"
)

// User represents a registered member of the TsunaguLink application.
// The ID is the subject identifier issued by the identity gateway, so a
// profile row and its credentials share the same key.
type User struct {
	ID           string    `json:"id" db:"user_id"`
	AccountID    string    `json:"account_id" db:"account_id" validate:"required,min=3,max=20"`
	Nickname     string    `json:"nickname" db:"nickname" validate:"required,min=1,max=50"`
	Bio          string    `json:"bio" db:"bio"`
	AvatarURL    string    `json:"avatar_url" db:"avatar_url"`
	UniqueID     string    `json:"unique_id" db:"unique_id"`
	Layout       int       `json:"layout" db:"layout"`
	BgColor      string    `json:"bg_color" db:"bg_color"`
	TextColor    string    `json:"text_color" db:"text_color"`
	TutorialDone bool      `json:"tutorial_done" db:"tutorial_done"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance keyed by the identity subject id.
// The public unique id is assigned later during the registration workflow.
func NewUser(id, accountID, nickname string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		AccountID: accountID,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// UserCredentials represents the login credentials provided by a user.
type UserCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateProfileRequest represents the data required for profile registration.
// It carries the account credentials plus the initial page content created
// during onboarding.
type CreateProfileRequest struct {
	AccountID   string              `json:"account_id" validate:"required,min=3,max=20"`
	Email       string              `json:"email" validate:"required,email"`
	Password    string              `json:"password" validate:"required,min=8"`
	Nickname    string              `json:"nickname" validate:"required,min=1,max=50"`
	Bio         string              `json:"bio" validate:"omitempty,max=1000"`
	Avatar      string              `json:"avatar" validate:"omitempty"`
	Layout      int                 `json:"layout" validate:"omitempty,min=0"`
	BgColor     string              `json:"bg_color" validate:"omitempty,max=32"`
	TextColor   string              `json:"text_color" validate:"omitempty,max=32"`
	SocialLinks []SocialLinkRequest `json:"social_links" validate:"omitempty,dive"`
	FirstIdea   *FirstIdeaRequest   `json:"first_idea" validate:"omitempty"`
}

// UserUpdate represents the profile fields that can be updated after creation.
type UserUpdate struct {
	Nickname     *string `json:"nickname" validate:"omitempty,min=1,max=50"`
	Bio          *string `json:"bio" validate:"omitempty,max=1000"`
	Avatar       *string `json:"avatar" validate:"omitempty"`
	Layout       *int    `json:"layout" validate:"omitempty,min=0"`
	BgColor      *string `json:"bg_color" validate:"omitempty,max=32"`
	TextColor    *string `json:"text_color" validate:"omitempty,max=32"`
	TutorialDone *bool   `json:"tutorial_done"`
}
