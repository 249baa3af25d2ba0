package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository 基于 scores 表的实现
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository 创建 PostgreSQL 仓库
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert 保存一次提交
func (r *PostgresRepository) Insert(ctx context.Context, wallet string, score int, mode string) (*Entry, error) {
	const query = `
		INSERT INTO scores (wallet, score, mode, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, wallet, score, mode, created_at
	`

	var e Entry
	err := r.pool.QueryRow(ctx, query, wallet, score, mode).Scan(
		&e.ID, &e.Wallet, &e.Score, &e.Mode, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert score: %w", err)
	}
	return &e, nil
}

// Top 每个钱包的最好成绩
func (r *PostgresRepository) Top(ctx context.Context, mode string, limit int) ([]*Entry, error) {
	const query = `
		SELECT id, wallet, score, mode, created_at FROM (
			SELECT DISTINCT ON (wallet) id, wallet, score, mode, created_at
			FROM scores
			WHERE ($1 = '' OR mode = $1)
			ORDER BY wallet, score DESC, created_at ASC, id ASC
		) best
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Wallet, &e.Score, &e.Mode, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return entries, nil
}

// Best 钱包的最好成绩
func (r *PostgresRepository) Best(ctx context.Context, wallet, mode string) (*Entry, error) {
	const query = `
		SELECT id, wallet, score, mode, created_at
		FROM scores
		WHERE wallet = $1 AND ($2 = '' OR mode = $2)
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT 1
	`

	var e Entry
	err := r.pool.QueryRow(ctx, query, wallet, mode).Scan(
		&e.ID, &e.Wallet, &e.Score, &e.Mode, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get best score: %w", err)
	}
	return &e, nil
}
