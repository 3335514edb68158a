package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeLayout is fixed width so stored strings sort chronologically in sqlite.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// formatTime formats a time for storage. Postgres parses the same string into TIMESTAMPTZ.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// now is the creation clock, truncated to the stored precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// dbTime scans TEXT timestamps (sqlite) and TIMESTAMPTZ values (postgres).
type dbTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("scan time: unsupported type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return fmt.Errorf("scan time %q: %w", s, err)
		}
	}
	t.Time = parsed.UTC()
	return nil
}

// Value implements driver.Valuer.
func (t dbTime) Value() (driver.Value, error) {
	return formatTime(t.Time), nil
}
