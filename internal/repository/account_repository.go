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

// AccountRepository defines methods for interacting with identity records.
// It satisfies auth.AccountStore.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// PostgresAccountRepository is a PostgreSQL implementation of AccountRepository
type PostgresAccountRepository struct {
	db *database.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *database.Pool) AccountRepository {
	return &PostgresAccountRepository{
		db: db,
	}
}

// Create adds a new identity record to the database
func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	// Start query timer
	startTime := time.Now()

	// Set created/updated timestamps
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	// Define the query
	query := `
        INSERT INTO accounts (account_id, email, password_hash, salt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	// Execute the query
	_, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Salt,
		account.CreatedAt,
		account.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{account.ID, account.Email, "[REDACTED]", "[REDACTED]"},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for unique constraint violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			// 23505 is the PostgreSQL error code for unique_violation
			if pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "email") {
				return utils.NewDuplicateError("Account", "email", account.Email)
			}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	log.Info().
		Str("account_id", account.ID).
		Str("email", utils.MaskEmail(account.Email)).
		Msg("Account created")

	return nil
}

// GetByID retrieves an identity record by its id
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT account_id, email, password_hash, salt, created_at, updated_at
        FROM accounts
        WHERE account_id = $1
    `

	// Execute the query
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Salt,
		&account.CreatedAt,
		&account.UpdatedAt,
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
			return nil, utils.NewNotFoundError("Account", id)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an identity record by email
func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query with case-insensitive comparison for PostgreSQL
	query := `
        SELECT account_id, email, password_hash, salt, created_at, updated_at
        FROM accounts
        WHERE LOWER(email) = LOWER($1)
    `

	// Execute the query
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Salt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{email},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Account", fmt.Sprintf("email=%s", utils.MaskEmail(email)))
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// ExistsByEmail checks if an identity record with the given email exists
func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query for PostgreSQL
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1))`

	// Execute the query
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{email},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}

	return exists, nil
}

// Delete removes an identity record from the database
func (r *PostgresAccountRepository) Delete(ctx context.Context, id string) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM accounts WHERE account_id = $1"

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
		return fmt.Errorf("failed to delete account: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Account", id)
	}

	log.Info().
		Str("account_id", id).
		Msg("Account deleted")

	return nil
}
