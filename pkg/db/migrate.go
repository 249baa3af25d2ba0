package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// migration 一步建表语句,全部幂等
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "scores",
		sql: `
			CREATE TABLE IF NOT EXISTS scores (
				id BIGSERIAL PRIMARY KEY,
				wallet VARCHAR(128) NOT NULL,
				score INT NOT NULL CHECK (score >= 0),
				mode VARCHAR(16) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_scores_mode_score ON scores(mode, score DESC, created_at ASC);
			CREATE INDEX IF NOT EXISTS idx_scores_wallet ON scores(wallet, mode);
		`,
	},
	{
		name: "attempts",
		sql: `
			CREATE TABLE IF NOT EXISTS attempts (
				wallet VARCHAR(128) PRIMARY KEY,
				remaining INT NOT NULL DEFAULT 0 CHECK (remaining >= 0),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		name: "attempt_grants",
		sql: `
			CREATE TABLE IF NOT EXISTS attempt_grants (
				id BIGSERIAL PRIMARY KEY,
				wallet VARCHAR(128) NOT NULL,
				count INT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_attempt_grants_wallet ON attempt_grants(wallet, created_at DESC);
		`,
	},
}

// Migrate 依次执行建表语句
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i+1, m.name, err)
		}
		log.Info().Str("component", "db").Int("step", i+1).Str("name", m.name).Msg("Migration applied")
	}
	return nil
}
