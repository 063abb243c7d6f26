package handlers

import (
	"net/http"
	"time"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService    AuthServiceInterface
	profileService ProfileServiceInterface
	jwtService     *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, profileService ProfileServiceInterface, jwtService *auth.JWTService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if profileService == nil {
		panic("profileService cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		jwtService:     jwtService,
	}
}

// Register handles the profile registration workflow
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var req models.CreateProfileRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Run the registration workflow
	user, err := h.profileService.CreateProfile(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the newly created profile
	utils.JSON(w, constants.StatusCreated, user)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Authenticate the user
	user, tokens, err := h.authService.Login(r.Context(), &creds)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Set the refresh token as an HTTP-only cookie
	h.setRefreshCookie(w, r, tokens.RefreshToken)

	// Return the access token and user info
	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"user":         user,
		"access_token": tokens.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(tokens.ExpiresIn.Seconds()),
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	// Get the refresh token from the cookie
	cookie, err := r.Cookie(constants.RefreshTokenCookie)
	if err != nil {
		utils.Unauthorized(w, "Refresh token not found")
		return
	}

	// Rotate the tokens
	tokens, err := h.authService.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Set the new refresh token as a cookie
	h.setRefreshCookie(w, r, tokens.RefreshToken)

	// Return the new access token
	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"access_token": tokens.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(tokens.ExpiresIn.Seconds()),
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Invalidate the session if the cookie is present
	cookie, err := r.Cookie(constants.RefreshTokenCookie)
	if err == nil {
		_ = h.authService.Logout(r.Context(), cookie.Value)
	}

	// Clear the refresh token cookie
	h.clearRefreshCookie(w, r)

	// Return success
	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"message": "Successfully logged out",
	})
}

// LogoutAll handles logging out all sessions for a user
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Invalidate all sessions
	if err := h.authService.LogoutAll(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Clear the refresh token cookie
	h.clearRefreshCookie(w, r)

	// Return success
	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"message": "Successfully logged out of all sessions",
	})
}

// VerifyToken checks if the current token is valid
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	// The auth middleware already verified the token
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	accountID, _ := auth.GetAccountID(r)
	email, _ := auth.GetEmail(r)

	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user_id":       userID,
		"account_id":    accountID,
		"email":         email,
	})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, r *http.Request, refreshToken string) {
	refreshExpiry := h.jwtService.GetConfig().RefreshExpiry
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshExpiry.Seconds()),
		Expires:  time.Now().Add(refreshExpiry),
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
