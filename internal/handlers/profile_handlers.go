package handlers

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// ProfileHandler handles profile page routes, both the owner's view and the
// public unique-id URLs.
type ProfileHandler struct {
	profileService   ProfileServiceInterface
	secretService    SecretServiceInterface
	analyticsService AnalyticsServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService ProfileServiceInterface, secretService SecretServiceInterface, analyticsService AnalyticsServiceInterface) *ProfileHandler {
	if profileService == nil {
		panic("profileService cannot be nil")
	}
	if secretService == nil {
		panic("secretService cannot be nil")
	}
	if analyticsService == nil {
		panic("analyticsService cannot be nil")
	}
	return &ProfileHandler{
		profileService:   profileService,
		secretService:    secretService,
		analyticsService: analyticsService,
	}
}

// GetCurrentProfile returns the authenticated user's own profile page,
// drafts included
func (h *ProfileHandler) GetCurrentProfile(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Load the composite page
	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, profile)
}

// UpdateProfile applies field changes to the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var update models.UserUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Apply the update
	user, err := h.profileService.UpdateProfile(r.Context(), userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, user)
}

// CheckAccountID checks if an account handle is available
func (h *ProfileHandler) CheckAccountID(w http.ResponseWriter, r *http.Request) {
	// Get the handle from the query
	accountID := r.URL.Query().Get(constants.QueryParamAccountID)
	if accountID == "" {
		utils.BadRequest(w, "Account ID parameter is required", nil)
		return
	}

	// Check availability
	availability, err := h.profileService.CheckAccountID(r.Context(), accountID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, availability)
}

// GetPublicProfile serves a profile page by its public unique id. The view is
// recorded for analytics; a profile with an enabled secret comes back locked,
// carrying only the user summary and the question.
func (h *ProfileHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	uniqueID := chi.URLParam(r, constants.ParamUniqueID)
	if uniqueID == "" {
		utils.BadRequest(w, "Unique ID is required", nil)
		return
	}

	// Load the page
	profile, err := h.profileService.GetPublicProfile(r.Context(), uniqueID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Record the view. This is best effort and never blocks page delivery.
	if _, err := h.analyticsService.RecordView(r.Context(), uniqueID, viewerKey(r), r.Referer()); err != nil {
		log.Debug().
			Err(err).
			Str("unique_id", uniqueID).
			Msg("Failed to record profile view")
	}

	utils.JSON(w, constants.StatusOK, profile)
}

// VerifySecret checks a visitor's answer against a locked profile's secret.
// A correct answer unlocks the page: the full composite is returned.
func (h *ProfileHandler) VerifySecret(w http.ResponseWriter, r *http.Request) {
	uniqueID := chi.URLParam(r, constants.ParamUniqueID)
	if uniqueID == "" {
		utils.BadRequest(w, "Unique ID is required", nil)
		return
	}

	// Decode and validate the request body
	var req models.SecretVerifyRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Check the answer
	ok, err := h.secretService.VerifySecret(r.Context(), uniqueID, req.Answer)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if !ok {
		utils.Error(w, constants.StatusForbidden, constants.CodeForbidden, "Incorrect answer", nil)
		return
	}

	// Correct answer: return the full page
	profile, err := h.profileService.UnlockPublicProfile(r.Context(), uniqueID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, profile)
}

// viewerKey identifies a visitor for view deduplication. The RealIP
// middleware has already resolved proxy headers into RemoteAddr.
func viewerKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
