package sqlstore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := Open(context.Background(), SQLite, dbPath, Options{}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	version, err := MigrationVersion(context.Background(), s.db, SQLite)
	if err != nil {
		t.Fatalf("migration version: %v", err)
	}
	if version < 1 {
		t.Errorf("expected schema version >= 1, got %d", version)
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twice.db")
	ctx := context.Background()

	for range 2 {
		s, err := Open(ctx, SQLite, dbPath, Options{}, nil)
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		s.Close()
	}
}

func TestInTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx store.Store) error {
		if err := tx.CreateBook(ctx, makeTestBook("book-1", "Dune", "Frank Herbert", "Sci-Fi")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.GetBook(ctx, "book-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected book to be rolled back, got %v", err)
	}
}

func TestInTx_Commit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx store.Store) error {
		if err := tx.CreateBook(ctx, makeTestBook("book-1", "Dune", "Frank Herbert", "Sci-Fi")); err != nil {
			return err
		}
		// Nested calls join the open transaction.
		return tx.InTx(ctx, func(inner store.Store) error {
			_, err := inner.GetBook(ctx, "book-1")
			return err
		})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	if _, err := s.GetBook(ctx, "book-1"); err != nil {
		t.Errorf("GetBook after commit: %v", err)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestDialect_Rebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{SQLite, "SELECT * FROM books WHERE id = ?", "SELECT * FROM books WHERE id = ?"},
		{Postgres, "SELECT * FROM books WHERE id = ? AND genre = ?", "SELECT * FROM books WHERE id = $1 AND genre = $2"},
		{Postgres, `WHERE LOWER(b.title) LIKE ? ESCAPE '\' LIMIT ? OFFSET ?`, `WHERE LOWER(b.title) LIKE $1 ESCAPE '\' LIMIT $2 OFFSET $3`},
		{Postgres, "SELECT '?' WHERE id = ?", "SELECT '?' WHERE id = $1"},
	}

	for _, tt := range tests {
		if got := tt.dialect.rebind(tt.in); got != tt.want {
			t.Errorf("rebind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDialect_ContainsFold(t *testing.T) {
	cond, arg := SQLite.containsFold("b.author", "Émile_")
	assert.Equal(t, `unicode_lower(b.author) LIKE ? ESCAPE '\'`, cond)
	assert.Equal(t, `%émile\_%`, arg)

	cond, arg = Postgres.containsFold("b.author", "Émile_")
	assert.Equal(t, `b.author ILIKE ? ESCAPE '\'`, cond)
	assert.Equal(t, `%Émile\_%`, arg)
}

func TestDialect_DSN(t *testing.T) {
	if got := SQLite.dsn("/tmp/a.db"); got != "/tmp/a.db?"+sqlitePragmas {
		t.Errorf("unexpected dsn %q", got)
	}
	if got := SQLite.dsn("file:/tmp/a.db?mode=rwc"); got != "file:/tmp/a.db?mode=rwc&"+sqlitePragmas {
		t.Errorf("unexpected dsn %q", got)
	}
	pg := "postgres://u:p@localhost/shelfwise?sslmode=disable"
	if got := Postgres.dsn(pg); got != pg {
		t.Errorf("postgres dsn should be untouched, got %q", got)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"sqlite": SQLite, "SQLite3": SQLite, "postgres": Postgres, "postgresql": Postgres} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("expected error for mysql")
	}
}

func TestSQLiteConstraint(t *testing.T) {
	tests := map[string]string{
		"constraint failed: UNIQUE constraint failed: users.email (2067)":                      store.ConstraintUserEmail,
		"UNIQUE constraint failed: books.title, books.author, books.genre":                     store.ConstraintBookCombo,
		"constraint failed: UNIQUE constraint failed: reviews.user_id, reviews.book_id (2067)": store.ConstraintUserReview,
		"constraint failed: UNIQUE constraint failed: users.id (1555)":                         "",
		"something else entirely": "",
	}
	for msg, want := range tests {
		if got := sqliteConstraint(msg); got != want {
			t.Errorf("sqliteConstraint(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`100%_done\`); got != `100\%\_done\\` {
		t.Errorf("escapeLike = %q", got)
	}
}

func TestDBTime_Scan(t *testing.T) {
	var ts dbTime
	if err := ts.Scan("2024-03-01T10:20:30.123456Z"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if ts.Year() != 2024 || ts.Nanosecond() != 123456000 {
		t.Errorf("unexpected time %v", ts.Time)
	}
	if err := ts.Scan([]byte("2024-03-01T10:20:30Z")); err != nil {
		t.Fatalf("scan rfc3339 bytes: %v", err)
	}
	if err := ts.Scan(42); err == nil {
		t.Error("expected error for int")
	}
}
