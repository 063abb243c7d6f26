package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/models"
)

// Mock service implementations shared by the handler tests

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds *models.UserCredentials) (*models.User, *auth.TokenPair, error) {
	args := m.Called(ctx, creds)
	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	var tokens *auth.TokenPair
	if args.Get(1) != nil {
		tokens = args.Get(1).(*auth.TokenPair)
	}
	return user, tokens, args.Error(2)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateProfile(ctx context.Context, req *models.CreateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetPublicProfile(ctx context.Context, uniqueID string) (*models.PublicProfile, error) {
	args := m.Called(ctx, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicProfile), args.Error(1)
}

func (m *MockProfileService) UnlockPublicProfile(ctx context.Context, uniqueID string) (*models.PublicProfile, error) {
	args := m.Called(ctx, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicProfile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID string, update *models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileService) CheckAccountID(ctx context.Context, accountID string) (*models.AccountIDAvailability, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountIDAvailability), args.Error(1)
}

type MockSecretService struct {
	mock.Mock
}

func (m *MockSecretService) SetSecret(ctx context.Context, userID string, req *models.SecretRequest) (*models.ProfileSecret, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileSecret), args.Error(1)
}

func (m *MockSecretService) GetSecret(ctx context.Context, userID string) (*models.ProfileSecret, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileSecret), args.Error(1)
}

func (m *MockSecretService) VerifySecret(ctx context.Context, uniqueID string, answer string) (bool, error) {
	args := m.Called(ctx, uniqueID, answer)
	return args.Bool(0), args.Error(1)
}

func (m *MockSecretService) DisableSecret(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSecretService) DeleteSecret(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) RecordView(ctx context.Context, uniqueID, viewerKey, referrer string) (bool, error) {
	args := m.Called(ctx, uniqueID, viewerKey, referrer)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnalyticsService) GetAnalytics(ctx context.Context, userID string, days int) (*models.ProfileAnalytics, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileAnalytics), args.Error(1)
}

type MockIdeaService struct {
	mock.Mock
}

func (m *MockIdeaService) CreateIdea(ctx context.Context, userID string, req *models.IdeaRequest) (*models.Idea, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) GetIdea(ctx context.Context, id int64) (*models.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) ListByUser(ctx context.Context, userID string, publishedOnly bool) ([]*models.Idea, error) {
	args := m.Called(ctx, userID, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Idea), args.Error(1)
}

func (m *MockIdeaService) ListPublished(ctx context.Context, tag string, page, pageSize int) ([]*models.Idea, int, error) {
	args := m.Called(ctx, tag, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Idea), args.Int(1), args.Error(2)
}

func (m *MockIdeaService) CountByTag(ctx context.Context, userID string) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockIdeaService) UpdateIdea(ctx context.Context, userID string, id int64, req *models.IdeaRequest) (*models.Idea, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) DeleteIdea(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// authContext returns a context carrying an authenticated user.
func authContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), auth.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, auth.AccountIDContextKey, "alice123")
	return context.WithValue(ctx, auth.EmailContextKey, "alice@example.com")
}
