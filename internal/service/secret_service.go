package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/repository"
	"github.com/challecara/tsunagulink/internal/utils"
)

// SecretService manages the question/answer gate on public profile pages.
type SecretService struct {
	secretRepo repository.ProfileSecretRepository
	userRepo   repository.UserRepository
}

// NewSecretService creates a new SecretService
func NewSecretService(secretRepo repository.ProfileSecretRepository, userRepo repository.UserRepository) *SecretService {
	return &SecretService{
		secretRepo: secretRepo,
		userRepo:   userRepo,
	}
}

// SetSecret creates or replaces the user's secret. The answer is normalized
// (lowercased, trimmed) before hashing so verification is forgiving about
// case and surrounding whitespace.
func (s *SecretService) SetSecret(ctx context.Context, userID string, req *models.SecretRequest) (*models.ProfileSecret, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, utils.NewValidationError("question", "Question must not be empty")
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, utils.NewValidationError("answer", "Answer must not be empty")
	}

	secret := &models.ProfileSecret{
		UserID:     userID,
		Question:   req.Question,
		AnswerHash: auth.HashSecretAnswer(req.Answer),
		IsEnabled:  req.IsEnabled,
	}

	if err := s.secretRepo.Upsert(ctx, secret); err != nil {
		return nil, fmt.Errorf("failed to save secret: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Bool("is_enabled", secret.IsEnabled).
		Msg("Profile secret set")

	return secret, nil
}

// GetSecret returns the user's secret configuration, if any.
func (s *SecretService) GetSecret(ctx context.Context, userID string) (*models.ProfileSecret, error) {
	return s.secretRepo.GetByUserID(ctx, userID)
}

// VerifySecret checks a visitor's answer against the secret of the profile
// behind the given public unique id. A profile without an enabled secret
// verifies trivially.
func (s *SecretService) VerifySecret(ctx context.Context, uniqueID string, answer string) (bool, error) {
	user, err := s.userRepo.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return false, err
	}

	secret, err := s.secretRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get secret: %w", err)
	}

	if !secret.IsEnabled {
		return true, nil
	}

	return auth.VerifySecretAnswer(answer, secret.AnswerHash), nil
}

// DisableSecret turns the gate off without discarding the question/answer.
func (s *SecretService) DisableSecret(ctx context.Context, userID string) error {
	secret, err := s.secretRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	secret.IsEnabled = false
	if err := s.secretRepo.Upsert(ctx, secret); err != nil {
		return fmt.Errorf("failed to disable secret: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Msg("Profile secret disabled")

	return nil
}

// DeleteSecret removes the user's secret entirely.
func (s *SecretService) DeleteSecret(ctx context.Context, userID string) error {
	return s.secretRepo.DeleteByUserID(ctx, userID)
}
