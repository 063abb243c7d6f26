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

func setupIdeaTest() (*IdeaHandler, *MockIdeaService) {
	mockService := new(MockIdeaService)
	handler := NewIdeaHandler(mockService)
	return handler, mockService
}

func testIdea(id int64, userID string, published bool) *models.Idea {
	return &models.Idea{
		ID:          id,
		UserID:      userID,
		Title:       "Weekend project",
		Content:     "Built a birdhouse",
		Tag:         "lifestyle",
		IsPublished: published,
	}
}

func TestIdeaHandler_CreateIdea(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("CreateIdea", mock.Anything, "user-1", mock.AnythingOfType("*models.IdeaRequest")).
		Return(testIdea(1, "user-1", true), nil)

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Weekend project",
		"content":      "Built a birdhouse",
		"tag":          "lifestyle",
		"is_published": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/ideas", bytes.NewReader(body))
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.CreateIdea(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertExpectations(t)
}

func TestIdeaHandler_CreateIdea_Unauthenticated(t *testing.T) {
	handler, mockService := setupIdeaTest()

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	handler.CreateIdea(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "CreateIdea", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdeaHandler_GetIdea_Published(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("GetIdea", mock.Anything, int64(1)).Return(testIdea(1, "user-1", true), nil)

	// No authentication: published posts are public
	req := httptest.NewRequest(http.MethodGet, "/api/ideas/1", nil)
	req = withURLParam(req, "ideaID", "1")
	rec := httptest.NewRecorder()

	handler.GetIdea(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdeaHandler_GetIdea_DraftHiddenFromOthers(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("GetIdea", mock.Anything, int64(1)).Return(testIdea(1, "user-1", false), nil)

	testCases := []struct {
		name   string
		userID string
	}{
		{"Anonymous visitor", ""},
		{"Different user", "user-2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ideas/1", nil)
			if tc.userID != "" {
				req = req.WithContext(authContext(tc.userID))
			}
			req = withURLParam(req, "ideaID", "1")
			rec := httptest.NewRecorder()

			handler.GetIdea(rec, req)

			// Drafts read as absent to everyone but the owner
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestIdeaHandler_GetIdea_DraftVisibleToOwner(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("GetIdea", mock.Anything, int64(1)).Return(testIdea(1, "user-1", false), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ideas/1", nil)
	req = req.WithContext(authContext("user-1"))
	req = withURLParam(req, "ideaID", "1")
	rec := httptest.NewRecorder()

	handler.GetIdea(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdeaHandler_GetIdea_InvalidID(t *testing.T) {
	handler, mockService := setupIdeaTest()

	req := httptest.NewRequest(http.MethodGet, "/api/ideas/abc", nil)
	req = withURLParam(req, "ideaID", "abc")
	rec := httptest.NewRecorder()

	handler.GetIdea(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetIdea", mock.Anything, mock.Anything)
}

func TestIdeaHandler_ListMyIdeas(t *testing.T) {
	handler, mockService := setupIdeaTest()

	ideas := []*models.Idea{
		testIdea(2, "user-1", false),
		testIdea(1, "user-1", true),
	}
	mockService.On("ListByUser", mock.Anything, "user-1", false).Return(ideas, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ideas/me", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.ListMyIdeas(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.([]interface{})
	assert.Len(t, data, 2)
}

func TestIdeaHandler_ListPublished(t *testing.T) {
	handler, mockService := setupIdeaTest()

	ideas := []*models.Idea{testIdea(1, "user-1", true)}
	mockService.On("ListPublished", mock.Anything, "travel", 2, 10).Return(ideas, 15, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ideas?tag=travel&page=2&page_size=10", nil)
	rec := httptest.NewRecorder()

	handler.ListPublished(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 15, resp.Meta.TotalItems)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestIdeaHandler_ListPublished_InvalidTag(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("ListPublished", mock.Anything, "gardening", mock.Anything, mock.Anything).
		Return(nil, 0, utils.NewValidationError("tag", "Unknown idea tag: gardening"))

	req := httptest.NewRequest(http.MethodGet, "/api/ideas?tag=gardening", nil)
	rec := httptest.NewRecorder()

	handler.ListPublished(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdeaHandler_GetTagCounts(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("CountByTag", mock.Anything, "user-1").
		Return(map[string]int{"travel": 2, "food": 1}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ideas/me/tags", nil)
	req = req.WithContext(authContext("user-1"))
	rec := httptest.NewRecorder()

	handler.GetTagCounts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["travel"])
}

func TestIdeaHandler_UpdateIdea(t *testing.T) {
	handler, mockService := setupIdeaTest()

	updated := testIdea(1, "user-1", true)
	updated.Title = "Updated title"
	mockService.On("UpdateIdea", mock.Anything, "user-1", int64(1), mock.AnythingOfType("*models.IdeaRequest")).
		Return(updated, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Updated title",
		"content":      "New content",
		"is_published": true,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/ideas/1", bytes.NewReader(body))
	req = req.WithContext(authContext("user-1"))
	req = withURLParam(req, "ideaID", "1")
	rec := httptest.NewRecorder()

	handler.UpdateIdea(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestIdeaHandler_UpdateIdea_Forbidden(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("UpdateIdea", mock.Anything, "user-2", int64(1), mock.Anything).
		Return(nil, utils.NewForbiddenError("You do not have permission to modify this idea"))

	body, _ := json.Marshal(map[string]interface{}{
		"title":   "Hijacked",
		"content": "C",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/ideas/1", bytes.NewReader(body))
	req = req.WithContext(authContext("user-2"))
	req = withURLParam(req, "ideaID", "1")
	rec := httptest.NewRecorder()

	handler.UpdateIdea(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIdeaHandler_DeleteIdea(t *testing.T) {
	handler, mockService := setupIdeaTest()

	mockService.On("DeleteIdea", mock.Anything, "user-1", int64(1)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/ideas/1", nil)
	req = req.WithContext(authContext("user-1"))
	req = withURLParam(req, "ideaID", "1")
	rec := httptest.NewRecorder()

	handler.DeleteIdea(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockService.AssertExpectations(t)
}
