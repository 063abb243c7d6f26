package handlers

import (
	"net/http"
	"strconv"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/utils"
)

// AnalyticsHandler handles the profile view dashboard routes
type AnalyticsHandler struct {
	analyticsService AnalyticsServiceInterface
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService AnalyticsServiceInterface) *AnalyticsHandler {
	if analyticsService == nil {
		panic("analyticsService cannot be nil")
	}
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetAnalytics returns view statistics for the authenticated user's profile
// over a trailing window selected with the days query parameter, plus the
// per-day series for the trailing week
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	days := constants.DefaultAnalyticsDays
	if raw := r.URL.Query().Get(constants.QueryParamDays); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.ErrorFromAppError(w, utils.NewValidationError("days", "Must be a positive number of days"))
			return
		}
		days = parsed
	}

	analytics, err := h.analyticsService.GetAnalytics(r.Context(), userID, days)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, analytics)
}
