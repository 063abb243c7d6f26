package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/database"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/utils"
)

// UserRepository defines methods for interacting with profile data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByAccountID(ctx context.Context, accountID string) (*models.User, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	ExistsByAccountID(ctx context.Context, accountID string) (bool, error)
	ExistsByUniqueID(ctx context.Context, uniqueID string) (bool, error)
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository
type PostgresUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userColumns = `user_id, account_id, nickname, bio, avatar_url, unique_id, layout, bg_color, text_color, tutorial_done, created_at, updated_at`

// scanUser reads a full user row into a User model.
func scanUser(row *sql.Row, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.AccountID,
		&user.Nickname,
		&user.Bio,
		&user.AvatarURL,
		&user.UniqueID,
		&user.Layout,
		&user.BgColor,
		&user.TextColor,
		&user.TutorialDone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// Create adds a new profile to the database. The user id comes from the
// identity gateway, so there is no RETURNING clause.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	// Start query timer
	startTime := time.Now()

	// Set created/updated timestamps
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	// Define the query
	query := `
        INSERT INTO users (user_id, account_id, nickname, bio, avatar_url, unique_id, layout, bg_color, text_color, tutorial_done, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	// Execute the query
	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.AccountID,
		user.Nickname,
		user.Bio,
		user.AvatarURL,
		user.UniqueID,
		user.Layout,
		user.BgColor,
		user.TextColor,
		user.TutorialDone,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{user.ID, user.AccountID, user.Nickname, user.UniqueID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for unique constraint violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			// 23505 is the PostgreSQL error code for unique_violation
			if pqErr.Code == "23505" {
				// Check which constraint was violated
				if strings.Contains(pqErr.Constraint, "account_id") {
					return utils.NewDuplicateError("User", "account_id", user.AccountID)
				}
				if strings.Contains(pqErr.Constraint, "unique_id") {
					return utils.NewDuplicateError("User", "unique_id", user.UniqueID)
				}
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("account_id", user.AccountID).
		Str("unique_id", user.UniqueID).
		Msg("User created")

	return nil
}

// GetByID retrieves a profile by its subject id
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE user_id = $1
    `

	// Execute the query
	user := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, id), user)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByAccountID retrieves a profile by its account handle
func (r *PostgresUserRepository) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query with case-insensitive comparison for PostgreSQL
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE LOWER(account_id) = LOWER($1)
    `

	// Execute the query
	user := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, accountID), user)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{accountID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("account_id=%s", accountID))
		}
		return nil, fmt.Errorf("failed to get user by account id: %w", err)
	}

	return user, nil
}

// GetByUniqueID retrieves a profile by its public page id. The lookup is
// case-sensitive because the id alphabet is mixed case.
func (r *PostgresUserRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE unique_id = $1
    `

	// Execute the query
	user := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, uniqueID), user)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{uniqueID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("unique_id=%s", uniqueID))
		}
		return nil, fmt.Errorf("failed to get user by unique id: %w", err)
	}

	return user, nil
}

// Update updates a profile in the database
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	// Start query timer
	startTime := time.Now()

	// Update the updated_at timestamp
	user.UpdatedAt = time.Now()

	// Define the query. The account handle and public id are immutable.
	query := `
        UPDATE users
        SET nickname = $1, bio = $2, avatar_url = $3, layout = $4, bg_color = $5, text_color = $6, tutorial_done = $7, updated_at = $8
        WHERE user_id = $9
    `

	// Execute the query
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Nickname,
		user.Bio,
		user.AvatarURL,
		user.Layout,
		user.BgColor,
		user.TextColor,
		user.TutorialDone,
		user.UpdatedAt,
		user.ID,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{user.Nickname, user.Layout, user.UpdatedAt, user.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", user.ID)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("account_id", user.AccountID).
		Msg("User updated")

	return nil
}

// Delete removes a profile from the database
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	// Start query timer
	startTime := time.Now()

	// Execute the delete within a transaction so dependent rows go with it
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		// Dependent records are removed by foreign key cascades

		query := "DELETE FROM users WHERE user_id = $1"
		result, err := tx.ExecContext(ctx, query, id)

		// Log the query execution
		utils.LogDBQuery(
			query,
			[]interface{}{id},
			time.Since(startTime),
			err,
		)

		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		// Check if any rows were affected
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return utils.NewNotFoundError("User", id)
		}

		log.Info().
			Str("user_id", id).
			Msg("User deleted")

		return nil
	})
}

// ExistsByAccountID checks if a profile with the given account handle exists
func (r *PostgresUserRepository) ExistsByAccountID(ctx context.Context, accountID string) (bool, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query for PostgreSQL
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(account_id) = LOWER($1))`

	// Execute the query
	var exists bool
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&exists)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{accountID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to check if account id exists: %w", err)
	}

	return exists, nil
}

// ExistsByUniqueID checks if a profile with the given public page id exists
func (r *PostgresUserRepository) ExistsByUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query for PostgreSQL
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE unique_id = $1)`

	// Execute the query
	var exists bool
	err := r.db.QueryRowContext(ctx, query, uniqueID).Scan(&exists)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{uniqueID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to check if unique id exists: %w", err)
	}

	return exists, nil
}
