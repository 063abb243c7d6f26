package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/challecara/tsunagulink/internal/models"
)

func TestUser_TableName(t *testing.T) {
	user := &models.User{
		ID:        "user-1",
		AccountID: "alice123",
		Nickname:  "Alice",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	assert.Equal(t, "users", user.TableName(), "TableName should return the correct database table name")
}

func TestNewUser(t *testing.T) {
	now := time.Now()
	user := models.NewUser("subject-1", "alice123", "Alice")

	assert.NotNil(t, user, "NewUser should return a non-nil User")
	assert.Equal(t, "subject-1", user.ID, "User should be keyed by the identity subject id")
	assert.Equal(t, "alice123", user.AccountID, "User should have the provided account id")
	assert.Equal(t, "Alice", user.Nickname, "User should have the provided nickname")
	assert.Empty(t, user.UniqueID, "A new User should have no unique id until the workflow assigns one")
	assert.WithinDuration(t, now, user.CreatedAt, time.Second, "CreatedAt should be set to current time")
	assert.WithinDuration(t, now, user.UpdatedAt, time.Second, "UpdatedAt should be set to current time")
}

func TestAccount_Sanitize(t *testing.T) {
	account := &models.Account{
		ID:           "acc-1",
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		Salt:         "salt_value",
	}

	sanitized := account.Sanitize()

	assert.Empty(t, sanitized.PasswordHash, "Sanitize should clear the password hash")
	assert.Empty(t, sanitized.Salt, "Sanitize should clear the salt")
	assert.Equal(t, account.Email, sanitized.Email, "Sanitize should keep the email")
	assert.Equal(t, "hashed_password", account.PasswordHash, "Sanitize should not modify the original")
}

func TestNewAccount(t *testing.T) {
	account := models.NewAccount("acc-1", "alice@example.com")

	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.Equal(t, "accounts", account.TableName())
}
