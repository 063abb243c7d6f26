// Package handlers provides HTTP request handlers and service interfaces for
// the TsunaguLink application. The interfaces in this file establish the
// contracts between handlers and service implementations, following the
// dependency injection pattern so handlers can be tested against mocks.
package handlers

import (
	"context"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/models"
)

// AuthServiceInterface defines the methods required from AuthService.
type AuthServiceInterface interface {
	// Login verifies credentials, loads the matching profile, and issues a
	// token pair. A verified account without a profile row surfaces as a
	// not-found error, distinct from an authentication failure.
	Login(ctx context.Context, creds *models.UserCredentials) (*models.User, *auth.TokenPair, error)

	// RefreshTokens validates a refresh token and rotates it for a new pair.
	RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// Logout invalidates the session behind a refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// LogoutAll invalidates all of a user's sessions.
	LogoutAll(ctx context.Context, userID string) error
}

// ProfileServiceInterface defines the methods required from ProfileService.
type ProfileServiceInterface interface {
	// CreateProfile runs the registration workflow: handle check, avatar
	// validation, identity account, unique id, profile row, social links,
	// optional first post. There is no rollback on partial failure.
	CreateProfile(ctx context.Context, req *models.CreateProfileRequest) (*models.User, error)

	// GetProfile loads the owner's composite profile page, drafts included.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// GetPublicProfile loads the page behind a public unique-id URL. When
	// the owner has an enabled secret the result is locked.
	GetPublicProfile(ctx context.Context, uniqueID string) (*models.PublicProfile, error)

	// UnlockPublicProfile returns the full public page after the visitor's
	// answer has been verified.
	UnlockPublicProfile(ctx context.Context, uniqueID string) (*models.PublicProfile, error)

	// UpdateProfile applies field changes to the user's profile.
	UpdateProfile(ctx context.Context, userID string, update *models.UserUpdate) (*models.User, error)

	// CheckAccountID reports whether a handle is free to register.
	CheckAccountID(ctx context.Context, accountID string) (*models.AccountIDAvailability, error)
}

// SecretServiceInterface defines the methods required from SecretService.
type SecretServiceInterface interface {
	// SetSecret creates or replaces the user's question/answer gate.
	SetSecret(ctx context.Context, userID string, req *models.SecretRequest) (*models.ProfileSecret, error)

	// GetSecret returns the user's secret configuration, if any.
	GetSecret(ctx context.Context, userID string) (*models.ProfileSecret, error)

	// VerifySecret checks a visitor's answer for the profile behind the
	// given public unique id.
	VerifySecret(ctx context.Context, uniqueID string, answer string) (bool, error)

	// DisableSecret turns the gate off without discarding the secret.
	DisableSecret(ctx context.Context, userID string) error

	// DeleteSecret removes the user's secret entirely.
	DeleteSecret(ctx context.Context, userID string) error
}

// AnalyticsServiceInterface defines the methods required from AnalyticsService.
type AnalyticsServiceInterface interface {
	// RecordView records one page view, deduplicated per viewer within the
	// configured window. It reports whether the view was stored.
	RecordView(ctx context.Context, uniqueID, viewerKey, referrer string) (bool, error)

	// GetAnalytics aggregates view activity for the owner's dashboard over
	// a trailing window of the given number of days.
	GetAnalytics(ctx context.Context, userID string, days int) (*models.ProfileAnalytics, error)
}

// IdeaServiceInterface defines the methods required from IdeaService.
type IdeaServiceInterface interface {
	// CreateIdea creates a post for the user.
	CreateIdea(ctx context.Context, userID string, req *models.IdeaRequest) (*models.Idea, error)

	// GetIdea retrieves a single post.
	GetIdea(ctx context.Context, id int64) (*models.Idea, error)

	// ListByUser retrieves the user's posts, optionally published only.
	ListByUser(ctx context.Context, userID string, publishedOnly bool) ([]*models.Idea, error)

	// ListPublished retrieves a page of published posts across all users.
	ListPublished(ctx context.Context, tag string, page, pageSize int) ([]*models.Idea, int, error)

	// CountByTag returns the user's post counts grouped by tag.
	CountByTag(ctx context.Context, userID string) (map[string]int, error)

	// UpdateIdea applies changes to a post after verifying ownership.
	UpdateIdea(ctx context.Context, userID string, id int64, req *models.IdeaRequest) (*models.Idea, error)

	// DeleteIdea removes a post after verifying ownership.
	DeleteIdea(ctx context.Context, userID string, id int64) error
}
