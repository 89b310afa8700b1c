package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingField возвращается, когда обязательное поле запроса отсутствует или равно null.
var ErrMissingField = errors.New("missing required field")

// NewsItem представляет одну сохранённую новость.
// ID и CreatedAt назначаются базой данных при вставке.
type NewsItem struct {
	ID        int64     `json:"id"`
	Headline  string    `json:"headline"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsInput — тело запроса POST /api/news.
// Указатели позволяют отличить отсутствующее поле от пустой строки при декодировании.
type NewsInput struct {
	Headline *string `json:"headline"`
	Category *string `json:"category"`
	Content  *string `json:"content"`
}

// Validate проверяет, что headline, category и content присутствуют в запросе.
// Пустая строка допустима: содержимое полей не проверяется и не обрезается.
func (in NewsInput) Validate() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"headline", in.Headline},
		{"category", in.Category},
		{"content", in.Content},
	}
	for _, f := range fields {
		if f.value == nil {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// NewNews — проверенные данные для вставки.
type NewNews struct {
	Headline string
	Category string
	Content  string
}

// ToNewNews валидирует ввод и возвращает данные для репозитория.
func (in NewsInput) ToNewNews() (NewNews, error) {
	if err := in.Validate(); err != nil {
		return NewNews{}, err
	}
	return NewNews{
		Headline: *in.Headline,
		Category: *in.Category,
		Content:  *in.Content,
	}, nil
}
