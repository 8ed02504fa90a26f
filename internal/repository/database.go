package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	message_id  TEXT PRIMARY KEY,
	from_msisdn TEXT NOT NULL,
	to_msisdn   TEXT NOT NULL,
	ts          TEXT NOT NULL,
	text        TEXT,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_from_msisdn ON messages (from_msisdn);
CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages (ts);
`

func NewConnection(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("invalid DATABASE_URL")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 30
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unexpected error while connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unexpected error while pinging database: %w", err)
	}

	return pool, nil
}

// InitSchema creates the messages table and its filter indexes. Safe
// to run on every boot.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unexpected error while initializing schema: %w", err)
	}
	return nil
}
