package service

import (
	"context"
	"testing"

	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

type secretServiceFixture struct {
	secretRepo *MockProfileSecretRepository
	userRepo   *MockUserRepository
	service    *SecretService
	user       *models.User
}

func newSecretServiceFixture(t *testing.T) *secretServiceFixture {
	t.Helper()

	secretRepo := NewMockProfileSecretRepository()
	userRepo := NewMockUserRepository()

	user := models.NewUser("user-1", "alice123", "Alice")
	user.UniqueID = "Ab3dE6gH9j"
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	return &secretServiceFixture{
		secretRepo: secretRepo,
		userRepo:   userRepo,
		service:    NewSecretService(secretRepo, userRepo),
		user:       user,
	}
}

func TestNewSecretService(t *testing.T) {
	f := newSecretServiceFixture(t)
	if f.service == nil {
		t.Error("Expected non-nil service")
	}
}

func TestSecretService_SetSecret(t *testing.T) {
	f := newSecretServiceFixture(t)

	req := &models.SecretRequest{
		Question:  "What is my cat's name?",
		Answer:    "Fluffy",
		IsEnabled: true,
	}

	secret, err := f.service.SetSecret(context.Background(), f.user.ID, req)
	if err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	if secret.Question != req.Question {
		t.Errorf("Expected question %q, got %q", req.Question, secret.Question)
	}
	if secret.AnswerHash == "" || secret.AnswerHash == "Fluffy" {
		t.Error("Expected the answer to be stored as a hash")
	}
	if !secret.IsEnabled {
		t.Error("Expected the secret to be enabled")
	}
}

func TestSecretService_SetSecret_Validation(t *testing.T) {
	f := newSecretServiceFixture(t)

	testCases := []struct {
		name     string
		question string
		answer   string
	}{
		{"Empty question", "", "Fluffy"},
		{"Blank question", "   ", "Fluffy"},
		{"Empty answer", "What is my cat's name?", ""},
		{"Blank answer", "What is my cat's name?", "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &models.SecretRequest{Question: tc.question, Answer: tc.answer, IsEnabled: true}
			_, err := f.service.SetSecret(context.Background(), f.user.ID, req)
			if !utils.IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestSecretService_SetSecret_Replace(t *testing.T) {
	f := newSecretServiceFixture(t)

	first := &models.SecretRequest{Question: "First?", Answer: "one", IsEnabled: true}
	if _, err := f.service.SetSecret(context.Background(), f.user.ID, first); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	second := &models.SecretRequest{Question: "Second?", Answer: "two", IsEnabled: true}
	if _, err := f.service.SetSecret(context.Background(), f.user.ID, second); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	stored, err := f.service.GetSecret(context.Background(), f.user.ID)
	if err != nil {
		t.Fatalf("GetSecret() error = %v", err)
	}
	if stored.Question != "Second?" {
		t.Errorf("Expected the replacement question, got %q", stored.Question)
	}

	ok, err := f.service.VerifySecret(context.Background(), f.user.UniqueID, "two")
	if err != nil {
		t.Fatalf("VerifySecret() error = %v", err)
	}
	if !ok {
		t.Error("Expected the new answer to verify")
	}
}

func TestSecretService_VerifySecret(t *testing.T) {
	f := newSecretServiceFixture(t)

	req := &models.SecretRequest{Question: "What is my cat's name?", Answer: "Fluffy", IsEnabled: true}
	if _, err := f.service.SetSecret(context.Background(), f.user.ID, req); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	// Verification ignores case and surrounding whitespace
	testCases := []struct {
		name   string
		answer string
		want   bool
	}{
		{"Exact answer", "Fluffy", true},
		{"Lowercased", "fluffy", true},
		{"Padded and mixed case", "  fLuFfY  ", true},
		{"Wrong answer", "Rex", false},
		{"Empty answer", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.service.VerifySecret(context.Background(), f.user.UniqueID, tc.answer)
			if err != nil {
				t.Fatalf("VerifySecret() error = %v", err)
			}
			if ok != tc.want {
				t.Errorf("VerifySecret(%q) = %v, want %v", tc.answer, ok, tc.want)
			}
		})
	}
}

func TestSecretService_VerifySecret_NoSecret(t *testing.T) {
	f := newSecretServiceFixture(t)

	// A profile without a secret verifies trivially
	ok, err := f.service.VerifySecret(context.Background(), f.user.UniqueID, "anything")
	if err != nil {
		t.Fatalf("VerifySecret() error = %v", err)
	}
	if !ok {
		t.Error("Expected verification to pass without a secret")
	}
}

func TestSecretService_VerifySecret_Disabled(t *testing.T) {
	f := newSecretServiceFixture(t)

	req := &models.SecretRequest{Question: "What is my cat's name?", Answer: "Fluffy", IsEnabled: false}
	if _, err := f.service.SetSecret(context.Background(), f.user.ID, req); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	ok, err := f.service.VerifySecret(context.Background(), f.user.UniqueID, "wrong answer")
	if err != nil {
		t.Fatalf("VerifySecret() error = %v", err)
	}
	if !ok {
		t.Error("Expected verification to pass with a disabled secret")
	}
}

func TestSecretService_VerifySecret_UnknownProfile(t *testing.T) {
	f := newSecretServiceFixture(t)

	_, err := f.service.VerifySecret(context.Background(), "ZzZzZzZzZz", "anything")
	if !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestSecretService_DisableSecret(t *testing.T) {
	f := newSecretServiceFixture(t)

	req := &models.SecretRequest{Question: "What is my cat's name?", Answer: "Fluffy", IsEnabled: true}
	if _, err := f.service.SetSecret(context.Background(), f.user.ID, req); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	if err := f.service.DisableSecret(context.Background(), f.user.ID); err != nil {
		t.Fatalf("DisableSecret() error = %v", err)
	}

	// The gate is off but the question and answer are kept
	stored, err := f.service.GetSecret(context.Background(), f.user.ID)
	if err != nil {
		t.Fatalf("GetSecret() error = %v", err)
	}
	if stored.IsEnabled {
		t.Error("Expected the secret to be disabled")
	}
	if stored.Question != req.Question {
		t.Errorf("Expected the question to be kept, got %q", stored.Question)
	}

	ok, err := f.service.VerifySecret(context.Background(), f.user.UniqueID, "wrong answer")
	if err != nil {
		t.Fatalf("VerifySecret() error = %v", err)
	}
	if !ok {
		t.Error("Expected verification to pass after disabling")
	}
}

func TestSecretService_DisableSecret_NoSecret(t *testing.T) {
	f := newSecretServiceFixture(t)

	err := f.service.DisableSecret(context.Background(), f.user.ID)
	if !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestSecretService_DeleteSecret(t *testing.T) {
	f := newSecretServiceFixture(t)

	req := &models.SecretRequest{Question: "What is my cat's name?", Answer: "Fluffy", IsEnabled: true}
	if _, err := f.service.SetSecret(context.Background(), f.user.ID, req); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	if err := f.service.DeleteSecret(context.Background(), f.user.ID); err != nil {
		t.Fatalf("DeleteSecret() error = %v", err)
	}

	_, err := f.service.GetSecret(context.Background(), f.user.ID)
	if !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}
