package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/database"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// ProfileViewRepository defines methods for recording and aggregating
// profile page views.
type ProfileViewRepository interface {
	Create(ctx context.Context, view *models.ProfileView) error
	HasRecentView(ctx context.Context, userID, viewerKey string, since time.Time) (bool, error)
	CountTotal(ctx context.Context, userID string, since time.Time) (int, error)
	CountDistinctViewers(ctx context.Context, userID string, since time.Time) (int, error)
	GetDailyCounts(ctx context.Context, userID string, from time.Time) (map[string]int, error)
}

// PostgresProfileViewRepository is a PostgreSQL implementation of ProfileViewRepository
type PostgresProfileViewRepository struct {
	db *database.Pool
}

// NewProfileViewRepository creates a new ProfileViewRepository
func NewProfileViewRepository(db *database.Pool) ProfileViewRepository {
	return &PostgresProfileViewRepository{
		db: db,
	}
}

// Create records a profile page visit
func (r *PostgresProfileViewRepository) Create(ctx context.Context, view *models.ProfileView) error {
	// Start query timer
	startTime := time.Now()

	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}

	// Define the query with RETURNING for PostgreSQL
	query := `
        INSERT INTO profile_views (user_id, viewer_key, referrer, viewed_at)
        VALUES ($1, $2, $3, $4)
        RETURNING view_id
    `

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		view.UserID,
		view.ViewerKey,
		view.Referrer,
		view.ViewedAt,
	).Scan(&view.ID)

	// Log the query execution (the viewer key identifies a visitor)
	utils.LogDBQuery(
		query,
		[]interface{}{view.UserID, "[REDACTED]", view.Referrer, view.ViewedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for foreign key violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == constants.PGErrorForeignKeyConstraint {
				return utils.NewNotFoundError("User", view.UserID)
			}
		}
		return fmt.Errorf("failed to record profile view: %w", err)
	}

	log.Debug().
		Int64("view_id", view.ID).
		Str("user_id", view.UserID).
		Msg("Profile view recorded")

	return nil
}

// HasRecentView reports whether the viewer already visited the profile at or
// after the given cutoff. Used to deduplicate repeat visits within a window.
func (r *PostgresProfileViewRepository) HasRecentView(ctx context.Context, userID, viewerKey string, since time.Time) (bool, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT EXISTS(
            SELECT 1 FROM profile_views
            WHERE user_id = $1 AND viewer_key = $2 AND viewed_at >= $3
        )
    `

	// Execute the query
	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, viewerKey, since).Scan(&exists)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, "[REDACTED]", since},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to check for recent view: %w", err)
	}

	return exists, nil
}

// CountTotal returns the view count for a profile at or after the cutoff
func (r *PostgresProfileViewRepository) CountTotal(ctx context.Context, userID string, since time.Time) (int, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `SELECT COUNT(*) FROM profile_views WHERE user_id = $1 AND viewed_at >= $2`

	// Execute the query
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, since},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to count profile views: %w", err)
	}

	return count, nil
}

// CountDistinctViewers returns the number of distinct viewer keys that have
// visited the profile at or after the cutoff
func (r *PostgresProfileViewRepository) CountDistinctViewers(ctx context.Context, userID string, since time.Time) (int, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `SELECT COUNT(DISTINCT viewer_key) FROM profile_views WHERE user_id = $1 AND viewed_at >= $2`

	// Execute the query
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, since},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to count distinct viewers: %w", err)
	}

	return count, nil
}

// GetDailyCounts returns per-day view counts since the given date, keyed by
// the date in YYYY-MM-DD form. Days without views are absent; the service
// layer fills the gaps.
func (r *PostgresProfileViewRepository) GetDailyCounts(ctx context.Context, userID string, from time.Time) (map[string]int, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT TO_CHAR(viewed_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM profile_views
        WHERE user_id = $1 AND viewed_at >= $2
        GROUP BY day
        ORDER BY day ASC
    `

	// Execute the query
	rows, err := r.db.QueryContext(ctx, query, userID, from)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, from},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get daily view counts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count row: %w", err)
		}
		counts[day] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily count rows: %w", err)
	}

	return counts, nil
}
