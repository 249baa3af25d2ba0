package attempts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PostgresLedger 基于 attempts 表的账本
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger 创建 PostgreSQL 账本
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

// Available 剩余次数,没有记录的钱包为 0
func (l *PostgresLedger) Available(ctx context.Context, wallet string) (int, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}

	var remaining int
	err = l.pool.QueryRow(ctx, `SELECT remaining FROM attempts WHERE wallet = $1`, wallet).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return remaining, nil
}

// Consume 原子地扣除一次
func (l *PostgresLedger) Consume(ctx context.Context, wallet string) (int, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}

	const query = `
		UPDATE attempts
		SET remaining = remaining - 1, updated_at = NOW()
		WHERE wallet = $1 AND remaining > 0
		RETURNING remaining
	`

	var remaining int
	if err := l.pool.QueryRow(ctx, query, wallet).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoAttempts
		}
		return 0, fmt.Errorf("failed to consume attempt: %w", err)
	}
	return remaining, nil
}

// Grant 在一个事务里增加次数并记录发放流水
func (l *PostgresLedger) Grant(ctx context.Context, wallet string, count int) (int, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO attempts (wallet, remaining, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (wallet) DO UPDATE
		SET remaining = attempts.remaining + EXCLUDED.remaining, updated_at = NOW()
		RETURNING remaining
	`

	var remaining int
	if err := tx.QueryRow(ctx, upsert, wallet, count).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("failed to grant attempts: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO attempt_grants (wallet, count) VALUES ($1, $2)`, wallet, count); err != nil {
		return 0, fmt.Errorf("failed to record grant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit grant: %w", err)
	}

	log.Info().
		Str("component", "Attempts").
		Str("wallet", wallet).
		Int("granted", count).
		Int("remaining", remaining).
		Msg("Attempts granted")
	return remaining, nil
}
