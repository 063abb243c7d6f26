package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// AccountStore is the persistence surface the local identity gateway needs.
// It is implemented by repository.AccountRepository.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenPair carries the tokens issued for an authenticated user.
type TokenPair struct {
	AccessToken  string
	AccessJWTID  string
	RefreshToken string
	RefreshJWTID string
	ExpiresIn    time.Duration
}

// IdentityGateway abstracts the identity provider behind the registration and
// login workflows. Provider failures are surfaced as domain errors so callers
// never see provider-specific codes.
type IdentityGateway interface {
	// CreateAccount registers credentials and returns the new subject id.
	CreateAccount(ctx context.Context, email, password string) (string, error)

	// Authenticate verifies credentials and returns the account on success.
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)

	// GenerateTokens issues an access and refresh token pair for the subject.
	GenerateTokens(userID, accountID, email string) (*TokenPair, error)

	// SignOut extracts the token id from a refresh token so the caller can
	// revoke the matching session. Expired tokens are still accepted.
	SignOut(refreshToken string) (string, error)
}

// LocalIdentityGateway implements IdentityGateway against the application's
// own account table, argon2id hashing, and JWT issuance.
type LocalIdentityGateway struct {
	accounts    AccountStore
	passwordCfg *PasswordConfig
	jwtService  *JWTService
}

// NewLocalIdentityGateway creates a gateway over the given account store.
func NewLocalIdentityGateway(accounts AccountStore, passwordCfg *PasswordConfig, jwtService *JWTService) *LocalIdentityGateway {
	return &LocalIdentityGateway{
		accounts:    accounts,
		passwordCfg: passwordCfg,
		jwtService:  jwtService,
	}
}

// CreateAccount registers a new identity record and returns its subject id.
func (g *LocalIdentityGateway) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if !utils.IsValidEmail(email) {
		return "", utils.NewValidationError("email", "Must be a valid email address")
	}
	if err := utils.ValidatePassword(password); err != nil {
		return "", err
	}

	exists, err := g.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return "", utils.ParseError(err)
	}
	if exists {
		return "", utils.NewDuplicateError("account", "email", email)
	}

	hash, salt, err := HashPassword(password, g.passwordCfg)
	if err != nil {
		return "", utils.NewInternalServerError(err)
	}

	account := models.NewAccount(uuid.New().String(), email)
	account.PasswordHash = hash
	account.Salt = salt

	if err := g.accounts.Create(ctx, account); err != nil {
		// A concurrent registration can still hit the unique constraint
		return "", utils.ParseError(err)
	}

	log.Info().Str("account_id", account.ID).Msg("Identity account created")
	return account.ID, nil
}

// Authenticate verifies the credentials and returns the matching account.
func (g *LocalIdentityGateway) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := g.accounts.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewInvalidCredentialsError()
		}
		return nil, utils.ParseError(err)
	}

	match, err := VerifyPassword(password, account.PasswordHash, account.Salt, g.passwordCfg)
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}
	if !match {
		return nil, utils.NewInvalidCredentialsError()
	}

	return account, nil
}

// GenerateTokens issues an access and refresh token pair for the subject.
func (g *LocalIdentityGateway) GenerateTokens(userID, accountID, email string) (*TokenPair, error) {
	accessToken, accessJWTID, err := g.jwtService.GenerateAccessToken(userID, accountID, email)
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	refreshToken, refreshJWTID, err := g.jwtService.GenerateRefreshToken(userID, accountID, email)
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		AccessJWTID:  accessJWTID,
		RefreshToken: refreshToken,
		RefreshJWTID: refreshJWTID,
		ExpiresIn:    g.jwtService.GetConfig().Expiry,
	}, nil
}

// SignOut extracts the JWT id from a refresh token for session revocation.
func (g *LocalIdentityGateway) SignOut(refreshToken string) (string, error) {
	jwtID, err := g.jwtService.ParseTokenWithoutValidation(refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidTokenClaims) {
			return "", utils.NewInvalidTokenError()
		}
		return "", utils.ParseError(err)
	}
	return jwtID, nil
}
