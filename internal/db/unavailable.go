package db

import (
	"context"
	"time"

	"newsboard/internal/models"
)

// Unavailable подменяет Database, когда пул создать не удалось.
// Каждая операция возвращает Err, поэтому HTTP-сервер продолжает работать и отвечает 500.
type Unavailable struct {
	Err error
}

func (u Unavailable) Ping(context.Context) error {
	return u.Err
}

func (u Unavailable) ListRecent(context.Context, int) ([]models.NewsItem, error) {
	return nil, u.Err
}

func (u Unavailable) InsertNews(context.Context, models.NewNews) (models.NewsItem, error) {
	return models.NewsItem{}, u.Err
}

func (u Unavailable) CountSince(context.Context, time.Time) (int, error) {
	return 0, u.Err
}
