package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

func setupSecretTest() (*SecretHandler, *MockSecretService) {
	mockService := new(MockSecretService)
	handler := NewSecretHandler(mockService)
	return handler, mockService
}

func testSecret() *models.ProfileSecret {
	return &models.ProfileSecret{
		ID:        1,
		UserID:    "user-1",
		Question:  "What is my cat's name?",
		IsEnabled: true,
	}
}

func TestSecretHandler_GetSecret(t *testing.T) {
	handler, mockService := setupSecretTest()

	mockService.On("GetSecret", mock.Anything, "user-1").Return(testSecret(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/me/secret", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.GetSecret(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "What is my cat's name?", data["question"])
	// The answer hash is never serialized
	assert.NotContains(t, rec.Body.String(), "answer")
}

func TestSecretHandler_GetSecret_NotConfigured(t *testing.T) {
	handler, mockService := setupSecretTest()

	mockService.On("GetSecret", mock.Anything, "user-1").
		Return(nil, utils.NewNotFoundError("ProfileSecret", "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/me/secret", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.GetSecret(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecretHandler_SetSecret(t *testing.T) {
	handler, mockService := setupSecretTest()

	mockService.On("SetSecret", mock.Anything, "user-1", mock.AnythingOfType("*models.SecretRequest")).
		Return(testSecret(), nil)

	body, _ := json.Marshal(map[string]string{
		"question": "What is my cat's name?",
		"answer":   "Fluffy",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/me/secret", bytes.NewReader(body))
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.SetSecret(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestSecretHandler_SetSecret_MissingAnswer(t *testing.T) {
	handler, mockService := setupSecretTest()

	body, _ := json.Marshal(map[string]string{"question": "What is my cat's name?"})
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/me/secret", bytes.NewReader(body))
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.SetSecret(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "SetSecret", mock.Anything, mock.Anything, mock.Anything)
}

func TestSecretHandler_SetSecret_Unauthenticated(t *testing.T) {
	handler, mockService := setupSecretTest()

	req := httptest.NewRequest(http.MethodPut, "/api/profiles/me/secret", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	handler.SetSecret(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "SetSecret", mock.Anything, mock.Anything, mock.Anything)
}

func TestSecretHandler_DisableSecret(t *testing.T) {
	handler, mockService := setupSecretTest()

	mockService.On("DisableSecret", mock.Anything, "user-1").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/profiles/me/secret/disable", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.DisableSecret(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Secret disabled", data["message"])
	mockService.AssertExpectations(t)
}

func TestSecretHandler_DeleteSecret(t *testing.T) {
	handler, mockService := setupSecretTest()

	mockService.On("DeleteSecret", mock.Anything, "user-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/profiles/me/secret", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.DeleteSecret(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	mockService.AssertExpectations(t)
}

func TestSecretHandler_DeleteSecret_Unauthenticated(t *testing.T) {
	handler, mockService := setupSecretTest()

	req := httptest.NewRequest(http.MethodDelete, "/api/profiles/me/secret", nil)
	rec := httptest.NewRecorder()

	handler.DeleteSecret(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "DeleteSecret", mock.Anything, mock.Anything)
}

func TestSecretHandler_NewSecretHandler_NilService(t *testing.T) {
	require.Panics(t, func() {
		NewSecretHandler(nil)
	})
}
