package db

import (
	"context"
	"fmt"
	"time"

	"newsboard/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecentLimit — сколько последних новостей отдаёт GET /api/news.
const RecentLimit = 20

func scanNewsItem(row pgx.CollectableRow) (models.NewsItem, error) {
	var n models.NewsItem
	err := row.Scan(&n.ID, &n.Headline, &n.Category, &n.Content, &n.CreatedAt)
	return n, err
}

// ListRecent возвращает не более limit новостей, от новых к старым.
// При равном created_at порядок определяется убыванием id.
func (db *Database) ListRecent(ctx context.Context, limit int) ([]models.NewsItem, error) {
	var items []models.NewsItem
	err := db.WithConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, headline, category, content, created_at
			FROM news
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`, limit)
		if err != nil {
			return err
		}
		items, err = pgx.CollectRows(rows, scanNewsItem)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	if items == nil {
		items = []models.NewsItem{}
	}
	return items, nil
}

// InsertNews сохраняет новость и возвращает её вместе с id и created_at, назначенными базой.
func (db *Database) InsertNews(ctx context.Context, n models.NewNews) (models.NewsItem, error) {
	var item models.NewsItem
	err := db.WithConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO news (headline, category, content)
			VALUES ($1, $2, $3)
			RETURNING id, headline, category, content, created_at
		`, n.Headline, n.Category, n.Content)
		if err != nil {
			return err
		}
		item, err = pgx.CollectExactlyOneRow(rows, scanNewsItem)
		return err
	})
	if err != nil {
		return models.NewsItem{}, fmt.Errorf("insert news: %w", err)
	}
	return item, nil
}

// CountSince возвращает количество новостей, созданных после since.
func (db *Database) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := db.WithConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM news
			WHERE created_at > $1
		`, since).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return count, nil
}
