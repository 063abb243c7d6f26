package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/config"
	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/repository"
)

// AnalyticsService records profile page views and aggregates them for the
// owner's dashboard.
type AnalyticsService struct {
	viewRepo    repository.ProfileViewRepository
	userRepo    repository.UserRepository
	dedupWindow time.Duration
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(viewRepo repository.ProfileViewRepository, userRepo repository.UserRepository, cfg *config.AnalyticsSettings) *AnalyticsService {
	dedupWindow := constants.ViewDedupWindow
	if cfg != nil && cfg.ViewDedupWindow > 0 {
		dedupWindow = cfg.ViewDedupWindow
	}

	return &AnalyticsService{
		viewRepo:    viewRepo,
		userRepo:    userRepo,
		dedupWindow: dedupWindow,
	}
}

// RecordView records one page view for the profile behind the public unique
// id. A repeat view by the same viewer within the dedup window is suppressed
// and reported as recorded=false. Recording is best effort and never blocks
// page delivery, so callers may ignore the error.
func (s *AnalyticsService) RecordView(ctx context.Context, uniqueID, viewerKey, referrer string) (bool, error) {
	user, err := s.userRepo.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return false, err
	}

	cutoff := time.Now().Add(-s.dedupWindow)
	seen, err := s.viewRepo.HasRecentView(ctx, user.ID, viewerKey, cutoff)
	if err != nil {
		return false, fmt.Errorf("failed to check for recent view: %w", err)
	}
	if seen {
		return false, nil
	}

	view := &models.ProfileView{
		UserID:    user.ID,
		ViewerKey: viewerKey,
		Referrer:  referrer,
	}
	if err := s.viewRepo.Create(ctx, view); err != nil {
		return false, fmt.Errorf("failed to record view: %w", err)
	}

	return true, nil
}

// GetAnalytics aggregates view activity for a profile over a trailing window
// of the given number of calendar days: total and distinct-viewer counts
// scoped to the window, plus a per-day series for the trailing seven days,
// each bucket labeled with its weekday name. Days without views appear with
// a zero count. A non-positive days value falls back to the default window.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userID string, days int) (*models.ProfileAnalytics, error) {
	if days <= 0 {
		days = constants.DefaultAnalyticsDays
	}
	if days > constants.MaxAnalyticsDays {
		days = constants.MaxAnalyticsDays
	}

	// Windows start at local midnight so they line up with calendar days
	// rather than a rolling 24-hour boundary
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(days - 1))

	total, err := s.viewRepo.CountTotal(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}

	distinct, err := s.viewRepo.CountDistinctViewers(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count distinct viewers: %w", err)
	}

	from := today.AddDate(0, 0, -(constants.AnalyticsDailyBuckets - 1))

	counts, err := s.viewRepo.GetDailyCounts(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily counts: %w", err)
	}

	daily := make([]models.DailyViewCount, 0, constants.AnalyticsDailyBuckets)
	for i := 0; i < constants.AnalyticsDailyBuckets; i++ {
		day := from.AddDate(0, 0, i)
		daily = append(daily, models.DailyViewCount{
			Date:    day,
			Weekday: day.Weekday().String(),
			Count:   counts[day.Format("2006-01-02")],
		})
	}

	log.Debug().
		Str("user_id", userID).
		Int("window_days", days).
		Int("total_views", total).
		Int("distinct_viewers", distinct).
		Msg("Analytics computed")

	return &models.ProfileAnalytics{
		WindowDays:      days,
		TotalViews:      total,
		DistinctViewers: distinct,
		Daily:           daily,
	}, nil
}
