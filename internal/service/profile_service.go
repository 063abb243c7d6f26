package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/repository"
	"github.com/challecara/tsunagulink/internal/utils"
)

// ProfileService handles profile registration and profile page reads.
type ProfileService struct {
	userRepo   repository.UserRepository
	linkRepo   repository.SocialLinkRepository
	ideaRepo   repository.IdeaRepository
	secretRepo repository.ProfileSecretRepository
	identity   auth.IdentityGateway
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userRepo repository.UserRepository,
	linkRepo repository.SocialLinkRepository,
	ideaRepo repository.IdeaRepository,
	secretRepo repository.ProfileSecretRepository,
	identity auth.IdentityGateway,
) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		linkRepo:   linkRepo,
		ideaRepo:   ideaRepo,
		secretRepo: secretRepo,
		identity:   identity,
	}
}

// CreateProfile runs the registration workflow. The steps run in a fixed
// order and there is NO rollback: a failure partway leaves the earlier steps'
// records in place (an identity account without a profile row, or a profile
// without its links). Callers retry; the duplicate checks at the top make the
// retry converge.
func (s *ProfileService) CreateProfile(ctx context.Context, req *models.CreateProfileRequest) (*models.User, error) {
	// Step 1: reject a taken handle before touching the identity provider
	exists, err := s.userRepo.ExistsByAccountID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check account id existence: %w", err)
	}
	if exists {
		return nil, utils.NewDuplicateError("User", "account_id", req.AccountID)
	}

	// Step 2: validate the avatar while nothing has been written yet
	if req.Avatar != "" {
		if err := utils.ValidateAvatar(req.Avatar); err != nil {
			return nil, err
		}
	}

	// Step 3: register credentials; the subject id becomes the user id
	subjectID, err := s.identity.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// Step 4: draw a public unique id, retrying on collision
	uniqueID, err := s.generateUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	// Step 5: persist the profile row
	user := models.NewUser(subjectID, req.AccountID, req.Nickname)
	user.Bio = req.Bio
	user.AvatarURL = req.Avatar
	user.UniqueID = uniqueID
	user.Layout = req.Layout
	user.BgColor = req.BgColor
	user.TextColor = req.TextColor

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Step 6: social links in input order. An invalid provider fails the
	// whole workflow; the user record created above remains.
	for _, linkReq := range req.SocialLinks {
		if !models.IsValidSocialProvider(linkReq.Provider) {
			return nil, utils.NewValidationError("provider",
				fmt.Sprintf("Unknown social provider: %s", linkReq.Provider))
		}

		link := &models.SocialLink{
			UserID:   user.ID,
			Provider: linkReq.Provider,
			URL:      linkReq.URL,
			IsActive: true,
		}
		if err := s.linkRepo.Create(ctx, link); err != nil {
			return nil, fmt.Errorf("failed to create social link: %w", err)
		}
	}

	// Step 7: first post, published immediately, only when both title and
	// content were supplied
	if req.FirstIdea.HasContent() {
		if !models.IsValidIdeaTag(req.FirstIdea.Tag) {
			return nil, utils.NewValidationError("tag",
				fmt.Sprintf("Unknown idea tag: %s", req.FirstIdea.Tag))
		}

		idea := &models.Idea{
			UserID:      user.ID,
			Title:       req.FirstIdea.Title,
			Content:     req.FirstIdea.Content,
			ImageURL:    req.FirstIdea.ImageURL,
			Tag:         req.FirstIdea.Tag,
			IsPublished: true,
		}
		if err := s.ideaRepo.Create(ctx, idea); err != nil {
			return nil, fmt.Errorf("failed to create first idea: %w", err)
		}
	}

	log.Info().
		Str("user_id", user.ID).
		Str("account_id", user.AccountID).
		Str("unique_id", user.UniqueID).
		Int("social_links", len(req.SocialLinks)).
		Msg("Profile created")

	// Step 8: the created profile is the result
	return user, nil
}

// generateUniqueID draws public ids until one is unused, bounded by
// UniqueIDMaxAttempts. The unique constraint on users.unique_id still backs
// this up against concurrent winners.
func (s *ProfileService) generateUniqueID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < constants.UniqueIDMaxAttempts; attempt++ {
		id, err := utils.GenerateUniqueID()
		if err != nil {
			return "", fmt.Errorf("failed to generate unique id: %w", err)
		}

		taken, err := s.userRepo.ExistsByUniqueID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check unique id existence: %w", err)
		}
		if !taken {
			return id, nil
		}

		log.Warn().
			Int("attempt", attempt+1).
			Msg("Unique id collision, retrying")
	}

	return "", utils.NewInternalServerError(
		fmt.Errorf("could not find a free unique id in %d attempts", constants.UniqueIDMaxAttempts))
}

// GetProfile loads the composite profile page for its owner: the user record
// plus social links and all ideas including drafts.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get social links: %w", err)
	}

	ideas, err := s.ideaRepo.GetByUserID(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get ideas: %w", err)
	}

	return &models.Profile{
		User:        user,
		SocialLinks: derefLinks(links),
		Ideas:       derefIdeas(ideas),
	}, nil
}

// GetPublicProfile loads the composite page behind a public unique-id URL.
// When the owner has an enabled secret, the result is locked: links and ideas
// are withheld and only the question is exposed.
func (s *ProfileService) GetPublicProfile(ctx context.Context, uniqueID string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, err
	}

	secret, err := s.secretRepo.GetByUserID(ctx, user.ID)
	if err != nil && !utils.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get profile secret: %w", err)
	}

	if secret != nil && secret.IsEnabled {
		return &models.PublicProfile{
			User:     user,
			Locked:   true,
			Question: secret.Question,
		}, nil
	}

	links, err := s.linkRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get social links: %w", err)
	}

	// Public pages only show published ideas
	ideas, err := s.ideaRepo.GetByUserID(ctx, user.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get ideas: %w", err)
	}

	return &models.PublicProfile{
		User:        user,
		SocialLinks: derefLinks(links),
		Ideas:       derefIdeas(ideas),
		Locked:      false,
	}, nil
}

// UnlockPublicProfile returns the full public page after the visitor's
// answer has been verified by the secret service.
func (s *ProfileService) UnlockPublicProfile(ctx context.Context, uniqueID string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get social links: %w", err)
	}

	ideas, err := s.ideaRepo.GetByUserID(ctx, user.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get ideas: %w", err)
	}

	return &models.PublicProfile{
		User:        user,
		SocialLinks: derefLinks(links),
		Ideas:       derefIdeas(ideas),
		Locked:      false,
	}, nil
}

// UpdateProfile applies the supplied field changes to the user's profile.
// The account handle and public unique id are immutable.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update *models.UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Nickname != nil {
		if err := utils.ValidateNickname(*update.Nickname); err != nil {
			return nil, err
		}
		user.Nickname = *update.Nickname
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Avatar != nil {
		if *update.Avatar != "" {
			if err := utils.ValidateAvatar(*update.Avatar); err != nil {
				return nil, err
			}
		}
		user.AvatarURL = *update.Avatar
	}
	if update.Layout != nil {
		user.Layout = *update.Layout
	}
	if update.BgColor != nil {
		user.BgColor = *update.BgColor
	}
	if update.TextColor != nil {
		user.TextColor = *update.TextColor
	}
	if update.TutorialDone != nil {
		user.TutorialDone = *update.TutorialDone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// CheckAccountID reports whether an account handle is free to register.
func (s *ProfileService) CheckAccountID(ctx context.Context, accountID string) (*models.AccountIDAvailability, error) {
	if err := utils.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check account id existence: %w", err)
	}

	return &models.AccountIDAvailability{
		AccountID: accountID,
		Available: !exists,
	}, nil
}

func derefLinks(links []*models.SocialLink) []models.SocialLink {
	result := make([]models.SocialLink, 0, len(links))
	for _, link := range links {
		result = append(result, *link)
	}
	return result
}

func derefIdeas(ideas []*models.Idea) []models.Idea {
	result := make([]models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		result = append(result, *idea)
	}
	return result
}
