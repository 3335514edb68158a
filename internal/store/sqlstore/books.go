package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/store"
)

const bookColumns = `b.id, b.title, b.author, b.genre, b.description, b.created_at`

// bookStatsSelect is a book with its review aggregates. Callers append WHERE,
// then GROUP BY with groupByBook.
const bookStatsSelect = `
	SELECT ` + bookColumns + `,
		CAST(COALESCE(AVG(r.rating), 0) AS DOUBLE PRECISION) AS average_rating,
		COUNT(r.id) AS review_count
	FROM books b
	LEFT JOIN reviews r ON r.book_id = b.id`

const groupByBook = ` GROUP BY b.id, b.title, b.author, b.genre, b.description, b.created_at`

// sortColumns maps the allow-listed sort keys to SQL expressions.
var sortColumns = map[store.BookSort]string{
	store.SortTitle:         "b.title",
	store.SortAuthor:        "b.author",
	store.SortGenre:         "b.genre",
	store.SortCreatedAt:     "b.created_at",
	store.SortAverageRating: "average_rating",
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBook(scanner rowScanner) (*domain.Book, error) {
	var (
		b         domain.Book
		createdAt dbTime
	)
	if err := scanner.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &createdAt); err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Time
	return &b, nil
}

func scanBookWithStats(scanner rowScanner) (*domain.BookWithStats, error) {
	var (
		b         domain.BookWithStats
		createdAt dbTime
		avg       float64
		count     int64
	)
	err := scanner.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &createdAt, &avg, &count)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Time
	b.AverageRating = domain.RoundRating(avg)
	b.ReviewCount = int(count)
	return &b, nil
}

// CreateBook inserts a book. A duplicate (title, author, genre) surfaces as a
// unique violation on unique_book_combo.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now()
	}

	_, err := s.exec(ctx, `
		INSERT INTO books (id, title, author, genre, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, book.Genre, book.Description, formatTime(book.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetBook retrieves a book without aggregates.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	b, err := scanBook(s.queryRow(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// GetBookWithStats retrieves a book with its average rating and review count.
func (s *Store) GetBookWithStats(ctx context.Context, id string) (*domain.BookWithStats, error) {
	b, err := scanBookWithStats(s.queryRow(ctx, bookStatsSelect+` WHERE b.id = ?`+groupByBook, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// GetBooksWithStats loads several books keyed by id. Missing ids are absent from the map.
func (s *Store) GetBooksWithStats(ctx context.Context, ids []string) (map[string]*domain.BookWithStats, error) {
	out := make(map[string]*domain.BookWithStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.query(ctx, bookStatsSelect+` WHERE b.id IN (`+placeholders+`)`+groupByBook, args...)
	if err != nil {
		return nil, fmt.Errorf("get books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBookWithStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out[b.ID] = b
	}
	return out, rows.Err()
}

// ListBooks returns one page of books with aggregates, filtered and sorted per q.
func (s *Store) ListBooks(ctx context.Context, q store.BookQuery) (*store.Page[*domain.BookWithStats], error) {
	q = q.Normalized()

	var (
		conds []string
		args  []any
	)
	for _, f := range []struct{ col, val string }{
		{"b.genre", q.Genre},
		{"b.author", q.Author},
		{"b.title", q.Title},
	} {
		if f.val == "" {
			continue
		}
		cond, arg := s.dialect.containsFold(f.col, f.val)
		conds = append(conds, cond)
		args = append(args, arg)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM books b`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	order := fmt.Sprintf(" ORDER BY %s %s, b.id %s", sortColumns[q.Sort], q.Order, q.Order)
	listArgs := append(append([]any{}, args...), q.Limit, q.Offset())

	rows, err := s.query(ctx, bookStatsSelect+where+groupByBook+order+` LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.BookWithStats, 0, q.Limit)
	for rows.Next() {
		b, err := scanBookWithStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return &store.Page[*domain.BookWithStats]{
		Items: books,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// ListAllBooks returns every book without aggregates, oldest first. Used to rebuild the search index.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.query(ctx, `SELECT `+bookColumns+` FROM books b ORDER BY b.created_at, b.id`)
	if err != nil {
		return nil, fmt.Errorf("list all books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// FindDuplicateBook returns the id of another book with the same title, author and genre.
func (s *Store) FindDuplicateBook(ctx context.Context, title, author, genre, excludeID string) (string, error) {
	var id string
	err := s.queryRow(ctx, `
		SELECT id FROM books
		WHERE title = ? AND author = ? AND genre = ? AND id <> ?
		LIMIT 1`,
		title, author, genre, excludeID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find duplicate book: %w", err)
	}
	return id, nil
}

// UpdateBook writes every mutable column of book.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.exec(ctx, `
		UPDATE books SET title = ?, author = ?, genre = ?, description = ?
		WHERE id = ?`,
		book.Title, book.Author, book.Genre, book.Description, book.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return requireAffected(res, "book not found")
}

// DeleteBook removes a book row. Its reviews must be deleted first.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return requireAffected(res, "book not found")
}
