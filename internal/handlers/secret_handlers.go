package handlers

import (
	"net/http"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// SecretHandler handles the question/answer gate configuration routes.
// Verification by visitors lives on ProfileHandler since it belongs to the
// public page flow.
type SecretHandler struct {
	secretService SecretServiceInterface
}

// NewSecretHandler creates a new SecretHandler
func NewSecretHandler(secretService SecretServiceInterface) *SecretHandler {
	if secretService == nil {
		panic("secretService cannot be nil")
	}
	return &SecretHandler{
		secretService: secretService,
	}
}

// GetSecret returns the authenticated user's secret configuration
func (h *SecretHandler) GetSecret(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	secret, err := h.secretService.GetSecret(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// The answer hash never leaves the model's json encoding
	utils.JSON(w, constants.StatusOK, secret)
}

// SetSecret creates or replaces the authenticated user's secret
func (h *SecretHandler) SetSecret(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var req models.SecretRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	secret, err := h.secretService.SetSecret(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, secret)
}

// DisableSecret turns the gate off without discarding the secret
func (h *SecretHandler) DisableSecret(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := h.secretService.DisableSecret(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"message": "Secret disabled",
	})
}

// DeleteSecret removes the authenticated user's secret
func (h *SecretHandler) DeleteSecret(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := h.secretService.DeleteSecret(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}
