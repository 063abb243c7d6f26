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

// IdeaRepository defines methods for interacting with idea posts
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	GetByID(ctx context.Context, id int64) (*models.Idea, error)
	GetByUserID(ctx context.Context, userID string, publishedOnly bool) ([]*models.Idea, error)
	ListPublished(ctx context.Context, tag string, page, pageSize int) ([]*models.Idea, int, error)
	Update(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id int64) error
	CountByUserID(ctx context.Context, userID string) (int, error)
	CountByTag(ctx context.Context, userID string) (map[string]int, error)
}

// PostgresIdeaRepository is a PostgreSQL implementation of IdeaRepository
type PostgresIdeaRepository struct {
	db *database.Pool
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(db *database.Pool) IdeaRepository {
	return &PostgresIdeaRepository{
		db: db,
	}
}

const ideaColumns = `idea_id, user_id, title, content, image_url, tag, is_published, created_at, updated_at`

func scanIdea(scanner interface {
	Scan(dest ...interface{}) error
}, idea *models.Idea) error {
	return scanner.Scan(
		&idea.ID,
		&idea.UserID,
		&idea.Title,
		&idea.Content,
		&idea.ImageURL,
		&idea.Tag,
		&idea.IsPublished,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)
}

// Create adds a new idea to the database
func (r *PostgresIdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	// Start query timer
	startTime := time.Now()

	// Set created/updated timestamps
	now := time.Now()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	// Define the query with RETURNING for PostgreSQL
	query := `
        INSERT INTO ideas (user_id, title, content, image_url, tag, is_published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING idea_id
    `

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		idea.UserID,
		idea.Title,
		idea.Content,
		idea.ImageURL,
		idea.Tag,
		idea.IsPublished,
		idea.CreatedAt,
		idea.UpdatedAt,
	).Scan(&idea.ID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{idea.UserID, idea.Title, idea.Tag, idea.IsPublished},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for foreign key violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == constants.PGErrorForeignKeyConstraint {
				return utils.NewNotFoundError("User", idea.UserID)
			}
		}
		return fmt.Errorf("failed to create idea: %w", err)
	}

	log.Info().
		Int64("idea_id", idea.ID).
		Str("user_id", idea.UserID).
		Str("tag", idea.Tag).
		Msg("Idea created")

	return nil
}

// GetByID retrieves an idea by ID
func (r *PostgresIdeaRepository) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + ideaColumns + `
        FROM ideas
        WHERE idea_id = $1
    `

	// Execute the query
	idea := &models.Idea{}
	err := scanIdea(r.db.QueryRowContext(ctx, query, id), idea)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Idea", id)
		}
		return nil, fmt.Errorf("failed to get idea by ID: %w", err)
	}

	return idea, nil
}

// GetByUserID retrieves ideas for a user, newest first. When publishedOnly is
// true, drafts are excluded so the result is safe for public pages.
func (r *PostgresIdeaRepository) GetByUserID(ctx context.Context, userID string, publishedOnly bool) ([]*models.Idea, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + ideaColumns + `
        FROM ideas
        WHERE user_id = $1
    `
	if publishedOnly {
		query += ` AND is_published = TRUE`
	}
	query += ` ORDER BY created_at DESC, idea_id DESC`

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
		return nil, fmt.Errorf("failed to get ideas by user ID: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	var ideas []*models.Idea
	for rows.Next() {
		idea := &models.Idea{}
		if err := scanIdea(rows, idea); err != nil {
			return nil, fmt.Errorf("failed to scan idea row: %w", err)
		}
		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idea rows: %w", err)
	}

	return ideas, nil
}

// ListPublished retrieves a page of published ideas across all users,
// optionally filtered by tag. It returns the page and the total match count.
func (r *PostgresIdeaRepository) ListPublished(ctx context.Context, tag string, page, pageSize int) ([]*models.Idea, int, error) {
	// Start query timer
	startTime := time.Now()

	// Count matching rows first so pagination metadata is accurate
	countQuery := `SELECT COUNT(*) FROM ideas WHERE is_published = TRUE`
	listQuery := `
        SELECT ` + ideaColumns + `
        FROM ideas
        WHERE is_published = TRUE
    `

	args := []interface{}{}
	if tag != "" {
		countQuery += ` AND tag = $1`
		listQuery += ` AND tag = $1`
		args = append(args, tag)
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)

	// Log the query execution
	utils.LogDBQuery(
		countQuery,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to count published ideas: %w", err)
	}

	offset := (page - 1) * pageSize
	listQuery += fmt.Sprintf(` ORDER BY created_at DESC, idea_id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)

	// Log the query execution
	utils.LogDBQuery(
		listQuery,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list published ideas: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	var ideas []*models.Idea
	for rows.Next() {
		idea := &models.Idea{}
		if err := scanIdea(rows, idea); err != nil {
			return nil, 0, fmt.Errorf("failed to scan idea row: %w", err)
		}
		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating idea rows: %w", err)
	}

	return ideas, total, nil
}

// Update updates an idea in the database
func (r *PostgresIdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	// Start query timer
	startTime := time.Now()

	// Update the updated_at timestamp
	idea.UpdatedAt = time.Now()

	// Define the query
	query := `
        UPDATE ideas
        SET title = $1, content = $2, image_url = $3, tag = $4, is_published = $5, updated_at = $6
        WHERE idea_id = $7
    `

	// Execute the query
	result, err := r.db.ExecContext(
		ctx,
		query,
		idea.Title,
		idea.Content,
		idea.ImageURL,
		idea.Tag,
		idea.IsPublished,
		idea.UpdatedAt,
		idea.ID,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{idea.Title, idea.Tag, idea.IsPublished, idea.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Idea", idea.ID)
	}

	log.Info().
		Int64("idea_id", idea.ID).
		Str("user_id", idea.UserID).
		Msg("Idea updated")

	return nil
}

// Delete removes an idea from the database
func (r *PostgresIdeaRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM ideas WHERE idea_id = $1"

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
		return fmt.Errorf("failed to delete idea: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Idea", id)
	}

	log.Info().
		Int64("idea_id", id).
		Msg("Idea deleted")

	return nil
}

// CountByUserID returns the number of ideas a user has posted
func (r *PostgresIdeaRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `SELECT COUNT(*) FROM ideas WHERE user_id = $1`

	// Execute the query
	var count int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to count ideas by user ID: %w", err)
	}

	return count, nil
}

// CountByTag returns the user's post counts grouped by tag. Untagged posts
// are grouped under the empty string.
func (r *PostgresIdeaRepository) CountByTag(ctx context.Context, userID string) (map[string]int, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT tag, COUNT(*)
        FROM ideas
        WHERE user_id = $1
        GROUP BY tag
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
		return nil, fmt.Errorf("failed to count ideas by tag: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var count int
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count row: %w", err)
		}
		counts[tag] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag count rows: %w", err)
	}

	return counts, nil
}
