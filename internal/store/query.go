package store

import "strings"

// BookSort is a whitelisted sort column for book listings.
type BookSort string

const (
	SortTitle         BookSort = "title"
	SortAuthor        BookSort = "author"
	SortGenre         BookSort = "genre"
	SortCreatedAt     BookSort = "created_at"
	SortAverageRating BookSort = "average_rating"
)

// SortOrder is ASC or DESC.
type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// BookQuery filters, sorts and pages a book listing.
// Filters are case-insensitive substring matches; empty means no filter.
type BookQuery struct {
	Genre  string
	Author string
	Title  string
	Sort   BookSort
	Order  SortOrder
	PageRequest
}

// ParseBookSort returns the sort for s, or created_at when s is not allowed.
func ParseBookSort(s string) BookSort {
	switch BookSort(s) {
	case SortTitle, SortAuthor, SortGenre, SortCreatedAt, SortAverageRating:
		return BookSort(s)
	default:
		return SortCreatedAt
	}
}

// ParseSortOrder accepts asc/desc in any case and defaults to DESC.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(Asc)) {
		return Asc
	}
	return Desc
}

// Normalized returns a copy with sort, order and paging forced into range.
func (q BookQuery) Normalized() BookQuery {
	q.Sort = ParseBookSort(string(q.Sort))
	q.Order = ParseSortOrder(string(q.Order))
	q.PageRequest = q.PageRequest.Normalize()
	return q
}
