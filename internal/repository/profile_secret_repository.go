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

// ProfileSecretRepository defines methods for interacting with profile secrets.
// A user has at most one secret row, so writes go through Upsert.
type ProfileSecretRepository interface {
	Upsert(ctx context.Context, secret *models.ProfileSecret) error
	GetByUserID(ctx context.Context, userID string) (*models.ProfileSecret, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// PostgresProfileSecretRepository is a PostgreSQL implementation of ProfileSecretRepository
type PostgresProfileSecretRepository struct {
	db *database.Pool
}

// NewProfileSecretRepository creates a new ProfileSecretRepository
func NewProfileSecretRepository(db *database.Pool) ProfileSecretRepository {
	return &PostgresProfileSecretRepository{
		db: db,
	}
}

// Upsert creates or replaces the secret for a user
func (r *PostgresProfileSecretRepository) Upsert(ctx context.Context, secret *models.ProfileSecret) error {
	// Start query timer
	startTime := time.Now()

	// Set created/updated timestamps
	now := time.Now()
	if secret.CreatedAt.IsZero() {
		secret.CreatedAt = now
	}
	secret.UpdatedAt = now

	// Define the query with RETURNING for PostgreSQL
	query := `
        INSERT INTO profile_secrets (user_id, question, answer_hash, is_enabled, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE
        SET question = EXCLUDED.question,
            answer_hash = EXCLUDED.answer_hash,
            is_enabled = EXCLUDED.is_enabled,
            updated_at = EXCLUDED.updated_at
        RETURNING secret_id
    `

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		secret.UserID,
		secret.Question,
		secret.AnswerHash,
		secret.IsEnabled,
		secret.CreatedAt,
		secret.UpdatedAt,
	).Scan(&secret.ID)

	// Log the query execution (without the answer hash)
	utils.LogDBQuery(
		query,
		[]interface{}{secret.UserID, secret.Question, "[REDACTED]", secret.IsEnabled},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for foreign key violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == constants.PGErrorForeignKeyConstraint {
				return utils.NewNotFoundError("User", secret.UserID)
			}
		}
		return fmt.Errorf("failed to upsert profile secret: %w", err)
	}

	log.Info().
		Int64("secret_id", secret.ID).
		Str("user_id", secret.UserID).
		Bool("is_enabled", secret.IsEnabled).
		Msg("Profile secret saved")

	return nil
}

// GetByUserID retrieves the secret configured for a user
func (r *PostgresProfileSecretRepository) GetByUserID(ctx context.Context, userID string) (*models.ProfileSecret, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT secret_id, user_id, question, answer_hash, is_enabled, created_at, updated_at
        FROM profile_secrets
        WHERE user_id = $1
    `

	// Execute the query
	secret := &models.ProfileSecret{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&secret.ID,
		&secret.UserID,
		&secret.Question,
		&secret.AnswerHash,
		&secret.IsEnabled,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("ProfileSecret", fmt.Sprintf("user_id=%s", userID))
		}
		return nil, fmt.Errorf("failed to get profile secret by user ID: %w", err)
	}

	return secret, nil
}

// DeleteByUserID removes the secret configured for a user
func (r *PostgresProfileSecretRepository) DeleteByUserID(ctx context.Context, userID string) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM profile_secrets WHERE user_id = $1"

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
		return fmt.Errorf("failed to delete profile secret: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("ProfileSecret", fmt.Sprintf("user_id=%s", userID))
	}

	log.Info().
		Str("user_id", userID).
		Msg("Profile secret deleted")

	return nil
}
