package migrations

import (
	"context"
	"database/sql"
)

// createAccountsTable creates the accounts table
func createAccountsTable() Migration {
	return Migration{
		Name:        "create_accounts_table",
		Description: "Creates the accounts table",
		TableName:   "accounts",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS accounts (
					account_id VARCHAR(64) PRIMARY KEY,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT accounts_email_key UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createUsersTable creates the users table holding the public profile
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id VARCHAR(64) PRIMARY KEY,
					account_id VARCHAR(20) NOT NULL,
					nickname VARCHAR(50) NOT NULL,
					bio TEXT NOT NULL DEFAULT '',
					avatar_url TEXT NOT NULL DEFAULT '',
					unique_id CHAR(10) NOT NULL,
					layout INT NOT NULL DEFAULT 0,
					bg_color VARCHAR(20) NOT NULL DEFAULT '',
					text_color VARCHAR(20) NOT NULL DEFAULT '',
					tutorial_done BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT users_unique_id_key UNIQUE (unique_id)
				);
				CREATE UNIQUE INDEX IF NOT EXISTS users_account_id_key ON users (LOWER(account_id));
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createSessionsTable creates the sessions table for refresh token tracking
func createSessionsTable() Migration {
	return Migration{
		Name:        "create_sessions_table",
		Description: "Creates the sessions table",
		TableName:   "sessions",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS sessions (
					session_id VARCHAR(64) PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					jwt_id VARCHAR(64) NOT NULL,
					expires_at TIMESTAMP NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT sessions_jwt_id_key UNIQUE (jwt_id)
				);
				CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
				CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createSocialLinksTable creates the social_links table
func createSocialLinksTable() Migration {
	return Migration{
		Name:        "create_social_links_table",
		Description: "Creates the social_links table",
		TableName:   "social_links",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS social_links (
					link_id BIGSERIAL PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					provider VARCHAR(20) NOT NULL,
					url TEXT NOT NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_social_links_user_id ON social_links(user_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createIdeasTable creates the ideas table
func createIdeasTable() Migration {
	return Migration{
		Name:        "create_ideas_table",
		Description: "Creates the ideas table",
		TableName:   "ideas",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS ideas (
					idea_id BIGSERIAL PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					title VARCHAR(100) NOT NULL,
					content TEXT NOT NULL,
					image_url TEXT NOT NULL DEFAULT '',
					tag VARCHAR(20) NOT NULL DEFAULT '',
					is_published BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_ideas_user_id ON ideas(user_id);
				CREATE INDEX IF NOT EXISTS idx_ideas_published_tag ON ideas(is_published, tag);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createProfileSecretsTable creates the profile_secrets table.
// The unique user_id constraint backs the upsert in the repository.
func createProfileSecretsTable() Migration {
	return Migration{
		Name:        "create_profile_secrets_table",
		Description: "Creates the profile_secrets table",
		TableName:   "profile_secrets",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS profile_secrets (
					secret_id BIGSERIAL PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					question VARCHAR(200) NOT NULL,
					answer_hash VARCHAR(255) NOT NULL,
					is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT profile_secrets_user_id_key UNIQUE (user_id)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createProfileViewsTable creates the append-only profile_views table
func createProfileViewsTable() Migration {
	return Migration{
		Name:        "create_profile_views_table",
		Description: "Creates the profile_views table",
		TableName:   "profile_views",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS profile_views (
					view_id BIGSERIAL PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					viewer_key VARCHAR(100) NOT NULL,
					referrer TEXT NOT NULL DEFAULT '',
					viewed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_profile_views_dedup ON profile_views(user_id, viewer_key, viewed_at);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
