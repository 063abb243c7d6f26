package models

import (
	"time"
)

// Account is the identity record held by the local identity gateway.
// It is never returned to clients; profile data lives on User.
type Account struct {
	ID           string    `json:"id" db:"account_id"`
	Email        string    `json:"email" db:"email" validate:"required,email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewAccount creates a new Account for the given email address.
// Password fields are populated by the gateway during registration.
func NewAccount(id, email string) *Account {
	now := time.Now()
	return &Account{
		ID:        id,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the Account model.
func (a *Account) TableName() string {
	return "accounts"
}

// Sanitize removes credential material from the Account object.
func (a *Account) Sanitize() *Account {
	sanitized := *a
	sanitized.PasswordHash = ""
	sanitized.Salt = ""
	return &sanitized
}
