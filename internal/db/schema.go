package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Uniqueness (email, handle, one profile per user) lives here as constraints,
// so writes racing each other surface as unique violations instead of
// silently producing duplicates.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY,
		email         text NOT NULL UNIQUE,
		name          text NOT NULL,
		avatar        text NOT NULL DEFAULT '',
		password_hash text NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id              uuid PRIMARY KEY,
		user_id         uuid NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		handle          text NOT NULL UNIQUE,
		company         text NOT NULL DEFAULT '',
		website         text NOT NULL DEFAULT '',
		location        text NOT NULL DEFAULT '',
		status          text NOT NULL,
		skills          text[] NOT NULL DEFAULT '{}',
		bio             text NOT NULL DEFAULT '',
		github_username text NOT NULL DEFAULT '',
		social          jsonb NOT NULL DEFAULT '{}',
		created_at      timestamptz NOT NULL DEFAULT now(),
		updated_at      timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS experiences (
		id          uuid PRIMARY KEY,
		profile_id  uuid NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		title       text NOT NULL,
		company     text NOT NULL,
		location    text NOT NULL DEFAULT '',
		from_date   timestamptz NOT NULL,
		to_date     timestamptz,
		current     boolean NOT NULL DEFAULT false,
		description text NOT NULL DEFAULT '',
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS educations (
		id             uuid PRIMARY KEY,
		profile_id     uuid NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		school         text NOT NULL,
		degree         text NOT NULL,
		field_of_study text NOT NULL,
		from_date      timestamptz NOT NULL,
		to_date        timestamptz,
		current        boolean NOT NULL DEFAULT false,
		description    text NOT NULL DEFAULT '',
		created_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_experiences_profile ON experiences(profile_id, from_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_educations_profile ON educations(profile_id, from_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_created ON profiles(created_at DESC, id DESC)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
