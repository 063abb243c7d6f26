package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/config"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(&config.JWTSettings{
		Secret:        "test-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-issuer",
	})
}

func setupAuthTest() (*AuthHandler, *MockAuthService, *MockProfileService) {
	mockAuth := new(MockAuthService)
	mockProfile := new(MockProfileService)
	handler := NewAuthHandler(mockAuth, mockProfile, testJWTService())
	return handler, mockAuth, mockProfile
}

func testUser() *models.User {
	user := models.NewUser("user-1", "alice123", "Alice")
	user.UniqueID = "Ab3dE6gH9j"
	return user
}

func testTokenPair() *auth.TokenPair {
	return &auth.TokenPair{
		AccessToken:  "access-token",
		AccessJWTID:  "access-jwt-id",
		RefreshToken: "refresh-token",
		RefreshJWTID: "refresh-jwt-id",
		ExpiresIn:    15 * time.Minute,
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	handler, _, mockProfile := setupAuthTest()

	mockProfile.On("CreateProfile", mock.Anything, mock.AnythingOfType("*models.CreateProfileRequest")).
		Return(testUser(), nil)

	body, _ := json.Marshal(map[string]interface{}{
		"account_id": "alice123",
		"email":      "alice@example.com",
		"password":   "password123",
		"nickname":   "Alice",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	mockProfile.AssertExpectations(t)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	handler, _, mockProfile := setupAuthTest()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockProfile.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_DuplicateHandle(t *testing.T) {
	handler, _, mockProfile := setupAuthTest()

	mockProfile.On("CreateProfile", mock.Anything, mock.Anything).
		Return(nil, utils.NewDuplicateError("User", "account_id", "alice123"))

	body, _ := json.Marshal(map[string]interface{}{
		"account_id": "alice123",
		"email":      "alice@example.com",
		"password":   "password123",
		"nickname":   "Alice",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
}

func TestAuthHandler_Login(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	mockAuth.On("Login", mock.Anything, mock.AnythingOfType("*models.UserCredentials")).
		Return(testUser(), testTokenPair(), nil)

	body, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "access-token", data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])

	// The refresh token travels as an HTTP-only cookie only
	cookie := findCookie(rec, constants.RefreshTokenCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.NotContains(t, rec.Body.String(), "refresh-token")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	mockAuth.On("Login", mock.Anything, mock.Anything).
		Return(nil, nil, utils.NewInvalidCredentialsError())

	body, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(rec, constants.RefreshTokenCookie))
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	rotated := testTokenPair()
	rotated.AccessToken = "new-access-token"
	rotated.RefreshToken = "new-refresh-token"
	mockAuth.On("RefreshTokens", mock.Anything, "refresh-token").Return(rotated, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookie, Value: "refresh-token"})
	rec := httptest.NewRecorder()

	handler.RefreshToken(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "new-access-token", data["access_token"])

	cookie := findCookie(rec, constants.RefreshTokenCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "new-refresh-token", cookie.Value)
}

func TestAuthHandler_RefreshToken_MissingCookie(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	rec := httptest.NewRecorder()

	handler.RefreshToken(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAuth.AssertNotCalled(t, "RefreshTokens", mock.Anything, mock.Anything)
}

func TestAuthHandler_Logout(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	mockAuth.On("Logout", mock.Anything, "refresh-token").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookie, Value: "refresh-token"})
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockAuth.AssertExpectations(t)

	// The cookie is cleared
	cookie := findCookie(rec, constants.RefreshTokenCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	// Logout is idempotent even without a session to revoke
	assert.Equal(t, http.StatusOK, rec.Code)
	mockAuth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	mockAuth.On("LogoutAll", mock.Anything, "user-1").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.LogoutAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_LogoutAll_Unauthenticated(t *testing.T) {
	handler, mockAuth, _ := setupAuthTest()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)
	rec := httptest.NewRecorder()

	handler.LogoutAll(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAuth.AssertNotCalled(t, "LogoutAll", mock.Anything, mock.Anything)
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	handler, _, _ := setupAuthTest()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.VerifyToken(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["authenticated"])
	assert.Equal(t, "user-1", data["user_id"])
	assert.Equal(t, "alice123", data["account_id"])
}
