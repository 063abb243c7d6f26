package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/constants"
	"github.com/challecara/tsunagulink/internal/database"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// SocialLinkRepository defines methods for interacting with social links
type SocialLinkRepository interface {
	Create(ctx context.Context, link *models.SocialLink) error
	GetByID(ctx context.Context, id int64) (*models.SocialLink, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.SocialLink, error)
	Update(ctx context.Context, link *models.SocialLink) error
	Delete(ctx context.Context, id int64) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// PostgresSocialLinkRepository is a PostgreSQL implementation of SocialLinkRepository
type PostgresSocialLinkRepository struct {
	db *database.Pool
}

// NewSocialLinkRepository creates a new SocialLinkRepository
func NewSocialLinkRepository(db *database.Pool) SocialLinkRepository {
	return &PostgresSocialLinkRepository{
		db: db,
	}
}

// Create adds a new social link to the database
func (r *PostgresSocialLinkRepository) Create(ctx context.Context, link *models.SocialLink) error {
	// Start query timer
	startTime := time.Now()

	link.CreatedAt = time.Now()

	// Define the query with RETURNING for PostgreSQL
	query := `
        INSERT INTO social_links (user_id, provider, url, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING link_id
    `

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		link.UserID,
		link.Provider,
		link.URL,
		link.IsActive,
		link.CreatedAt,
	).Scan(&link.ID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{link.UserID, link.Provider, link.URL, link.IsActive},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for foreign key violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == constants.PGErrorForeignKeyConstraint {
				return utils.NewNotFoundError("User", link.UserID)
			}
		}
		return fmt.Errorf("failed to create social link: %w", err)
	}

	log.Info().
		Int64("link_id", link.ID).
		Str("user_id", link.UserID).
		Str("provider", link.Provider).
		Msg("Social link created")

	return nil
}

// GetByID retrieves a social link by ID
func (r *PostgresSocialLinkRepository) GetByID(ctx context.Context, id int64) (*models.SocialLink, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT link_id, user_id, provider, url, is_active, created_at
        FROM social_links
        WHERE link_id = $1
    `

	// Execute the query
	link := &models.SocialLink{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&link.ID,
		&link.UserID,
		&link.Provider,
		&link.URL,
		&link.IsActive,
		&link.CreatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("SocialLink", id)
		}
		return nil, fmt.Errorf("failed to get social link by ID: %w", err)
	}

	return link, nil
}

// GetByUserID retrieves all social links for a user in insertion order
func (r *PostgresSocialLinkRepository) GetByUserID(ctx context.Context, userID string) ([]*models.SocialLink, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT link_id, user_id, provider, url, is_active, created_at
        FROM social_links
        WHERE user_id = $1
        ORDER BY link_id ASC
    `

	// Execute the query
	rows, err := r.db.QueryContext(ctx, query, userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get social links by user ID: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	var links []*models.SocialLink
	for rows.Next() {
		link := &models.SocialLink{}
		err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.Provider,
			&link.URL,
			&link.IsActive,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan social link row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating social link rows: %w", err)
	}

	return links, nil
}

// Update updates a social link in the database
func (r *PostgresSocialLinkRepository) Update(ctx context.Context, link *models.SocialLink) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        UPDATE social_links
        SET provider = $1, url = $2, is_active = $3
        WHERE link_id = $4
    `

	// Execute the query
	result, err := r.db.ExecContext(
		ctx,
		query,
		link.Provider,
		link.URL,
		link.IsActive,
		link.ID,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{link.Provider, link.URL, link.IsActive, link.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update social link: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("SocialLink", link.ID)
	}

	log.Info().
		Int64("link_id", link.ID).
		Str("provider", link.Provider).
		Msg("Social link updated")

	return nil
}

// Delete removes a social link from the database
func (r *PostgresSocialLinkRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM social_links WHERE link_id = $1"

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, id)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete social link: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("SocialLink", id)
	}

	log.Info().
		Int64("link_id", id).
		Msg("Social link deleted")

	return nil
}

// DeleteByUserID removes all social links for a user
func (r *PostgresSocialLinkRepository) DeleteByUserID(ctx context.Context, userID string) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM social_links WHERE user_id = $1"

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete social links by user ID: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	log.Info().
		Str("user_id", userID).
		Int64("count", rowsAffected).
		Msg("Social links deleted for user")

	return nil
}
