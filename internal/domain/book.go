package domain

import (
	"math"
	"time"
)

// Book is a catalogue entry. The (Title, Author, Genre) triple is unique.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookStats are aggregates computed from a book's reviews at read time.
type BookStats struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// BookWithStats is a book enriched with its review aggregates.
type BookWithStats struct {
	Book
	BookStats
}

// RoundRating rounds an average to two decimal places.
func RoundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}

// BookPatch is a partial update. Nil fields are left unchanged.
type BookPatch struct {
	Title       *string
	Author      *string
	Genre       *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Genre == nil && p.Description == nil
}

// TouchesIdentity reports whether the patch supplies the whole uniqueness triple.
// Only then is a duplicate check meaningful.
func (p BookPatch) TouchesIdentity() bool {
	return p.Title != nil && p.Author != nil && p.Genre != nil
}

// Apply copies the present fields onto b.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
}
