package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/repository"
	"github.com/challecara/tsunagulink/internal/utils"
)

// IdeaService handles the blog posts attached to a profile.
type IdeaService struct {
	ideaRepo repository.IdeaRepository
}

// NewIdeaService creates a new IdeaService
func NewIdeaService(ideaRepo repository.IdeaRepository) *IdeaService {
	return &IdeaService{
		ideaRepo: ideaRepo,
	}
}

// CreateIdea creates a post for the user.
func (s *IdeaService) CreateIdea(ctx context.Context, userID string, req *models.IdeaRequest) (*models.Idea, error) {
	if !models.IsValidIdeaTag(req.Tag) {
		return nil, utils.NewValidationError("tag", fmt.Sprintf("Unknown idea tag: %s", req.Tag))
	}

	idea := &models.Idea{
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		Tag:         req.Tag,
		IsPublished: req.IsPublished,
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	return idea, nil
}

// GetIdea retrieves a single post.
func (s *IdeaService) GetIdea(ctx context.Context, id int64) (*models.Idea, error) {
	return s.ideaRepo.GetByID(ctx, id)
}

// ListByUser retrieves the user's posts, drafts included when the caller is
// the owner.
func (s *IdeaService) ListByUser(ctx context.Context, userID string, publishedOnly bool) ([]*models.Idea, error) {
	return s.ideaRepo.GetByUserID(ctx, userID, publishedOnly)
}

// ListPublished retrieves a page of published posts across all users,
// optionally filtered by tag.
func (s *IdeaService) ListPublished(ctx context.Context, tag string, page, pageSize int) ([]*models.Idea, int, error) {
	if tag != "" && !models.IsValidIdeaTag(tag) {
		return nil, 0, utils.NewValidationError("tag", fmt.Sprintf("Unknown idea tag: %s", tag))
	}

	return s.ideaRepo.ListPublished(ctx, tag, page, pageSize)
}

// CountByTag returns the user's post counts grouped by tag.
func (s *IdeaService) CountByTag(ctx context.Context, userID string) (map[string]int, error) {
	return s.ideaRepo.CountByTag(ctx, userID)
}

// UpdateIdea applies changes to a post after verifying ownership.
func (s *IdeaService) UpdateIdea(ctx context.Context, userID string, id int64, req *models.IdeaRequest) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if idea.UserID != userID {
		return nil, utils.NewForbiddenError("You do not have permission to modify this idea")
	}

	if !models.IsValidIdeaTag(req.Tag) {
		return nil, utils.NewValidationError("tag", fmt.Sprintf("Unknown idea tag: %s", req.Tag))
	}

	idea.Title = req.Title
	idea.Content = req.Content
	idea.ImageURL = req.ImageURL
	idea.Tag = req.Tag
	idea.IsPublished = req.IsPublished

	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}

	return idea, nil
}

// DeleteIdea removes a post after verifying ownership.
func (s *IdeaService) DeleteIdea(ctx context.Context, userID string, id int64) error {
	idea, err := s.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if idea.UserID != userID {
		return utils.NewForbiddenError("You do not have permission to delete this idea")
	}

	if err := s.ideaRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}

	log.Info().
		Int64("idea_id", id).
		Str("user_id", userID).
		Msg("Idea deleted by owner")

	return nil
}
