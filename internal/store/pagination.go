package store

import "math"

// Page size bounds for list endpoints.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-based page request.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps out-of-range values to the defaults.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip. It saturates so that
// Offset()+Limit never overflows.
func (p PageRequest) Offset() int {
	p = p.Normalize()
	if p.Page > math.MaxInt/p.Limit {
		return (math.MaxInt/p.Limit - 1) * p.Limit
	}
	return (p.Page - 1) * p.Limit
}

// Page is one page of results with the total row count.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// TotalPages returns ceil(Total/Limit).
func (p *Page[T]) TotalPages() int {
	return TotalPages(p.Total, p.Limit)
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
