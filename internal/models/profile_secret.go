package models

import (
	"time"
)

// ProfileSecret gates a public profile behind a question and answer.
// Only the hash of the normalized answer is stored; at most one secret
// exists per user.
type ProfileSecret struct {
	ID         int64     `json:"id" db:"secret_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Question   string    `json:"question" db:"question" validate:"required,min=1,max=200"`
	AnswerHash string    `json:"-" db:"answer_hash"`
	IsEnabled  bool      `json:"is_enabled" db:"is_enabled"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the ProfileSecret model.
func (ps *ProfileSecret) TableName() string {
	return "profile_secrets"
}

// SecretRequest represents the data for setting or replacing a profile secret.
type SecretRequest struct {
	Question  string `json:"question" validate:"required,min=1,max=200"`
	Answer    string `json:"answer" validate:"required,min=1,max=200"`
	IsEnabled bool   `json:"is_enabled"`
}

// SecretVerifyRequest represents a visitor's attempt to unlock a profile.
type SecretVerifyRequest struct {
	Answer string `json:"answer" validate:"required,min=1,max=200"`
}
