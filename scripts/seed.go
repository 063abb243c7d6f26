// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate a
// development database with a demo profile. The seeding system works
// similarly to migrations, tracking executed seeds to ensure they only run
// once, making the process idempotent and safe to run repeatedly.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/auth"
	"github.com/challecara/tsunagulink/internal/database"
	"github.com/challecara/tsunagulink/internal/utils"
)

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with demo data for development environments.
type Seeder struct {
	db          *database.Pool
	passwordCfg *auth.PasswordConfig
}

// NewSeeder creates a new seeder.
func NewSeeder(db *database.Pool, passwordCfg *auth.PasswordConfig) *Seeder {
	return &Seeder{
		db:          db,
		passwordCfg: passwordCfg,
	}
}

// SeedDatabase seeds the database with demo data.
// It creates the seeds tracking table if it doesn't exist, then runs
// all seed functions that haven't been executed yet.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"demo_profile", s.seedDemoProfile},
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
// This table tracks which seed operations have been executed.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns a map of executed seed names.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction.
// If the seed operation fails, the transaction is rolled back.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		query := `INSERT INTO seeds (name) VALUES ($1)`
		_, err := tx.ExecContext(ctx, query, name)
		if err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedDemoProfile creates a demo account with a populated public page:
// social links, a few posts in both draft and published state, and an
// enabled secret question. Login is demo@example.com / password123.
func (s *Seeder) seedDemoProfile(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE email = $1`, "demo@example.com").Scan(&count); err != nil {
		return fmt.Errorf("failed to check for demo account: %w", err)
	}
	if count > 0 {
		log.Debug().Msg("Demo account already present, skipping")
		return nil
	}

	hash, salt, err := auth.HashPassword("password123", s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	accountID := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (account_id, email, password_hash, salt)
		VALUES ($1, $2, $3, $4)
	`, accountID, "demo@example.com", hash, salt)
	if err != nil {
		return fmt.Errorf("failed to insert demo account: %w", err)
	}

	uniqueID, err := utils.GenerateUniqueID()
	if err != nil {
		return fmt.Errorf("failed to generate unique id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (user_id, account_id, nickname, bio, unique_id, tutorial_done)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, accountID, "demouser", "Demo User", "Hi, I'm the seeded demo profile.", uniqueID)
	if err != nil {
		return fmt.Errorf("failed to insert demo profile: %w", err)
	}

	links := []struct {
		provider string
		url      string
	}{
		{"twitter", "https://twitter.com/demouser"},
		{"instagram", "https://instagram.com/demouser"},
		{"github", "https://github.com/demouser"},
	}
	for _, link := range links {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO social_links (user_id, provider, url, is_active)
			VALUES ($1, $2, $3, TRUE)
		`, accountID, link.provider, link.url)
		if err != nil {
			return fmt.Errorf("failed to insert demo social link: %w", err)
		}
	}

	ideas := []struct {
		title     string
		content   string
		tag       string
		published bool
	}{
		{"Hello world", "First post from the demo profile.", "lifestyle", true},
		{"Trip notes", "Thoughts from a weekend trip.", "travel", true},
		{"Unfinished draft", "Still working on this one.", "", false},
	}
	for _, idea := range ideas {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ideas (user_id, title, content, tag, is_published)
			VALUES ($1, $2, $3, $4, $5)
		`, accountID, idea.title, idea.content, idea.tag, idea.published)
		if err != nil {
			return fmt.Errorf("failed to insert demo idea: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profile_secrets (user_id, question, answer_hash, is_enabled)
		VALUES ($1, $2, $3, TRUE)
	`, accountID, "What is the demo password?", auth.HashSecretAnswer("password123"))
	if err != nil {
		return fmt.Errorf("failed to insert demo secret: %w", err)
	}

	log.Info().
		Str("email", "demo@example.com").
		Str("unique_id", uniqueID).
		Msg("Seeded demo profile")

	return nil
}
