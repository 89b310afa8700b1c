package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS news (
		id SERIAL PRIMARY KEY,
		headline TEXT NOT NULL,
		category TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_news_created_at ON news (created_at DESC, id DESC);
`

// EnsureSchema создаёт таблицу news, если её ещё нет. Безопасно вызывать при каждом старте.
func (db *Database) EnsureSchema(ctx context.Context) error {
	err := db.WithConn(ctx, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, schemaSQL)
		return err
	})
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
