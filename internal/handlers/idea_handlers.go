package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// IdeaHandler handles the blog post routes
type IdeaHandler struct {
	ideaService IdeaServiceInterface
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideaService IdeaServiceInterface) *IdeaHandler {
	if ideaService == nil {
		panic("ideaService cannot be nil")
	}
	return &IdeaHandler{
		ideaService: ideaService,
	}
}

// CreateIdea creates a post for the authenticated user
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var req models.IdeaRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	idea, err := h.ideaService.CreateIdea(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, idea)
}

// GetIdea retrieves a single post. Drafts are only visible to their owner.
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	id, err := ideaIDParam(r)
	if err != nil {
		utils.BadRequest(w, "Invalid idea ID", nil)
		return
	}

	idea, err := h.ideaService.GetIdea(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// A draft reads as absent to everyone but its owner
	if !idea.IsPublished {
		userID, ok := auth.GetUserID(r)
		if !ok || userID != idea.UserID {
			utils.NotFound(w, "Idea not found")
			return
		}
	}

	utils.JSON(w, constants.StatusOK, idea)
}

// ListMyIdeas returns the authenticated user's posts, drafts included
func (h *IdeaHandler) ListMyIdeas(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	ideas, err := h.ideaService.ListByUser(r.Context(), userID, false)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, ideas)
}

// ListPublished returns a page of published posts across all users,
// optionally filtered by tag
func (h *IdeaHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get(constants.QueryParamTag)
	pagination := utils.GetPaginationParams(r)

	ideas, total, err := h.ideaService.ListPublished(r.Context(), tag, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, constants.StatusOK, ideas, pagination.Page, pagination.PageSize, total)
}

// GetTagCounts returns the authenticated user's post counts grouped by tag
func (h *IdeaHandler) GetTagCounts(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	counts, err := h.ideaService.CountByTag(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, counts)
}

// UpdateIdea applies changes to a post owned by the authenticated user
func (h *IdeaHandler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	id, err := ideaIDParam(r)
	if err != nil {
		utils.BadRequest(w, "Invalid idea ID", nil)
		return
	}

	// Decode and validate the request body
	var req models.IdeaRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	idea, err := h.ideaService.UpdateIdea(r.Context(), userID, id, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, idea)
}

// DeleteIdea removes a post owned by the authenticated user
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	id, err := ideaIDParam(r)
	if err != nil {
		utils.BadRequest(w, "Invalid idea ID", nil)
		return
	}

	if err := h.ideaService.DeleteIdea(r.Context(), userID, id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

func ideaIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, constants.ParamIdeaID), 10, 64)
}
