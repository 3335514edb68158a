// Package search keeps a Bleve full-text index of books.
//
// The index is derived data: the database is the source of truth, hits carry
// only book ids, and callers hydrate them from the store. It is rebuilt from
// the database at startup.
package search

import (
	"time"

	"github.com/shelfwise/shelfwise-server/internal/domain"
)

// bookDocument is what gets indexed for a book. Field names match the mapping.
type bookDocument struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newBookDocument(b *domain.Book) *bookDocument {
	return &bookDocument{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}

// toMap converts to a map so field names always match the mapping.
func (d *bookDocument) toMap() map[string]any {
	return map[string]any{
		"title":       d.Title,
		"author":      d.Author,
		"genre":       d.Genre,
		"description": d.Description,
		"created_at":  d.CreatedAt,
	}
}
