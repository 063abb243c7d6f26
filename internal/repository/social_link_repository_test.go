package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challecara/tsunagulink/internal/database"
	"github.com/challecara/tsunagulink/internal/models"
	"github.com/challecara/tsunagulink/internal/repository"
	"github.com/challecara/tsunagulink/internal/utils"
)

// setupSocialLinkRepositoryTest creates a new test database connection and mock
func setupSocialLinkRepositoryTest(t *testing.T) (*repository.PostgresSocialLinkRepository, sqlmock.Sqlmock, func()) {
	// Create a new SQL mock database
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	// Create a database pool with the mock database
	dbPool := &database.Pool{DB: db}

	// Create a new repository with the mocked database
	repo := repository.NewSocialLinkRepository(dbPool).(*repository.PostgresSocialLinkRepository)

	// Return the repository, mock and a cleanup function
	return repo, mock, func() {
		db.Close()
	}
}

func TestSocialLinkRepository_Create(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	link := &models.SocialLink{
		UserID:   "user-1",
		Provider: "twitter",
		URL:      "https://twitter.com/alice",
		IsActive: true,
	}

	// Setup for PostgreSQL RETURNING clause
	rows := sqlmock.NewRows([]string{"link_id"}).AddRow(1)

	mock.ExpectQuery("INSERT INTO social_links").
		WithArgs(link.UserID, link.Provider, link.URL, link.IsActive, sqlmock.AnyArg()).
		WillReturnRows(rows)

	// Execute the method being tested
	err := repo.Create(context.Background(), link)

	// Assert the results
	assert.NoError(t, err)
	assert.Equal(t, int64(1), link.ID) // ID should be set from RETURNING clause
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_Create_UnknownUser(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	link := &models.SocialLink{
		UserID:   "missing-user",
		Provider: "instagram",
		URL:      "https://instagram.com/ghost",
	}

	// Mock a PostgreSQL foreign key violation
	pqErr := &pq.Error{
		Code:       "23503",
		Constraint: "social_links_user_id_fkey",
	}
	mock.ExpectQuery("INSERT INTO social_links").
		WithArgs(link.UserID, link.Provider, link.URL, link.IsActive, sqlmock.AnyArg()).
		WillReturnError(pqErr)

	// Execute the method being tested
	err := repo.Create(context.Background(), link)

	// Assert the results
	assert.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_GetByUserID(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"link_id", "user_id", "provider", "url", "is_active", "created_at"}).
		AddRow(1, "user-1", "twitter", "https://twitter.com/alice", true, now).
		AddRow(2, "user-1", "instagram", "https://instagram.com/alice", true, now)

	mock.ExpectQuery("SELECT (.+) FROM social_links WHERE user_id = ?").
		WithArgs("user-1").
		WillReturnRows(rows)

	// Execute the method being tested
	links, err := repo.GetByUserID(context.Background(), "user-1")

	// Assert the results
	assert.NoError(t, err)
	require.Len(t, links, 2)
	// Insertion order is preserved
	assert.Equal(t, "twitter", links[0].Provider)
	assert.Equal(t, "instagram", links[1].Provider)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_GetByUserID_Empty(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"link_id", "user_id", "provider", "url", "is_active", "created_at"})

	mock.ExpectQuery("SELECT (.+) FROM social_links WHERE user_id = ?").
		WithArgs("user-2").
		WillReturnRows(rows)

	// Execute the method being tested
	links, err := repo.GetByUserID(context.Background(), "user-2")

	// Assert the results
	assert.NoError(t, err)
	assert.Empty(t, links)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_GetByID_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM social_links WHERE link_id = ?").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	// Execute the method being tested
	result, err := repo.GetByID(context.Background(), 99)

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_Update(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	link := &models.SocialLink{
		ID:       1,
		UserID:   "user-1",
		Provider: "tiktok",
		URL:      "https://tiktok.com/@alice",
		IsActive: false,
	}

	mock.ExpectExec("UPDATE social_links").
		WithArgs(link.Provider, link.URL, link.IsActive, link.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.Update(context.Background(), link)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_Delete(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM social_links WHERE link_id = ?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.Delete(context.Background(), 1)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_Delete_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM social_links WHERE link_id = ?").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Execute the method being tested
	err := repo.Delete(context.Background(), 99)

	// Assert the results
	assert.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialLinkRepository_DeleteByUserID(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupSocialLinkRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM social_links WHERE user_id = ?").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	// Execute the method being tested
	err := repo.DeleteByUserID(context.Background(), "user-1")

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
