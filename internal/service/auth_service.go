package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/repository"
	"github.com/challecara/tsunagulink/internal/utils"
)

// AuthService handles login, token refresh, and logout. Registration lives in
// ProfileService because creating credentials is one step of the profile
// creation workflow.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	identity    auth.IdentityGateway
	jwtService  *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	identity auth.IdentityGateway,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		identity:    identity,
		jwtService:  jwtService,
	}
}

// Login verifies credentials, loads the matching profile, and issues tokens.
// The order is fixed: authenticate first, then load the profile. A verified
// account without a profile row (an aborted registration) surfaces as
// UserNotFound, distinct from an authentication failure.
func (s *AuthService) Login(ctx context.Context, creds *models.UserCredentials) (*models.User, *auth.TokenPair, error) {
	account, err := s.identity.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		utils.LogAuth("login_failed", "", creds.Email, false, "authentication failed")
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, account.ID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login_failed", account.ID, creds.Email, false, "no profile for account")
			return nil, nil, utils.NewNotFoundError("User", account.ID)
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	tokens, err := s.identity.GenerateTokens(user.ID, user.AccountID, account.Email)
	if err != nil {
		return nil, nil, err
	}

	// Track the refresh token so it can be revoked
	session := models.NewSession(user.ID, tokens.RefreshJWTID, s.jwtService.GetConfig().RefreshExpiry)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	utils.LogAuth("login_success", user.ID, creds.Email, true, "")

	return user, tokens, nil
}

// RefreshTokens validates a refresh token and rotates it for a new pair.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	// Parse the refresh token without validating to get the JWT ID
	jwtID, err := s.jwtService.ParseTokenWithoutValidation(refreshToken)
	if err != nil {
		return nil, utils.NewInvalidTokenError()
	}

	// Check if the token is in the active sessions
	isValid, err := s.sessionRepo.IsValidSession(ctx, jwtID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session validity: %w", err)
	}
	if !isValid {
		return nil, utils.NewInvalidTokenError()
	}

	// Validate the refresh token
	claims, err := s.jwtService.ValidateToken(refreshToken, "refresh")
	if err != nil {
		// Delete the session if the token is invalid
		_ = s.sessionRepo.DeleteByJWTID(ctx, jwtID)
		return nil, err
	}

	// Get the user from the claims
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Delete the old session
	if err := s.sessionRepo.DeleteByJWTID(ctx, jwtID); err != nil {
		log.Warn().
			Err(err).
			Str("jwt_id", jwtID).
			Msg("Failed to delete old session during token refresh")
	}

	// Issue a new pair and track the new refresh token
	tokens, err := s.identity.GenerateTokens(user.ID, user.AccountID, claims.Email)
	if err != nil {
		return nil, err
	}

	session := models.NewSession(user.ID, tokens.RefreshJWTID, s.jwtService.GetConfig().RefreshExpiry)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("account_id", user.AccountID).
		Msg("Tokens refreshed successfully")

	return tokens, nil
}

// Logout invalidates the session behind a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	jwtID, err := s.identity.SignOut(refreshToken)
	if err != nil {
		return err
	}

	// Delete the session
	if err := s.sessionRepo.DeleteByJWTID(ctx, jwtID); err != nil {
		if utils.IsNotFoundError(err) {
			// Already logged out
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// LogoutAll invalidates all of a user's sessions.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

// CleanupExpiredSessions deletes expired sessions and returns the count.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}
