package sqlstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/shelfwise/shelfwise-server/internal/store"
)

// Dialect identifies the SQL backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// sqlitePragmas are applied to every pooled connection through the DSN.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// dsn adds connection parameters the store depends on.
func (d Dialect) dsn(url string) string {
	if d != SQLite {
		return url
	}
	if strings.Contains(url, "_pragma=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + sqlitePragmas
	}
	return url + "?" + sqlitePragmas
}

// rebind rewrites ? placeholders to $1, $2, ... for postgres.
// Placeholders inside single-quoted literals are left alone.
func (d Dialect) rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// sqliteUniqueColumns maps the first column reported by a sqlite UNIQUE
// failure to the constraint name postgres would report.
var sqliteUniqueColumns = map[string]string{
	"users.email":     store.ConstraintUserEmail,
	"books.title":     store.ConstraintBookCombo,
	"reviews.user_id": store.ConstraintUserReview,
}

// classify turns driver constraint errors into *store.Error. Anything else is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return store.Violation(store.KindUniqueViolation, pqErr.Constraint, err)
		case "23503":
			return store.Violation(store.KindForeignKeyViolation, pqErr.Constraint, err)
		case "23502":
			return store.Violation(store.KindNotNullViolation, pqErr.Column, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		msg := liteErr.Error()
		switch code := liteErr.Code(); {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			strings.Contains(msg, "UNIQUE constraint failed"):
			return store.Violation(store.KindUniqueViolation, sqliteConstraint(msg), err)
		case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
			strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return store.Violation(store.KindForeignKeyViolation, "", err)
		case code == sqlite3.SQLITE_CONSTRAINT_NOTNULL,
			strings.Contains(msg, "NOT NULL constraint failed"):
			return store.Violation(store.KindNotNullViolation, "", err)
		}
	}

	return err
}

// sqliteConstraint extracts "table.column" from a message such as
// "UNIQUE constraint failed: books.title, books.author, books.genre (2067)".
func sqliteConstraint(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, ", ("); j >= 0 {
		rest = rest[:j]
	}
	return sqliteUniqueColumns[strings.TrimSpace(rest)]
}

// escapeLike escapes LIKE wildcards so user input matches literally. Used with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
