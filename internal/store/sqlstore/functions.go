package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

// foldFunc is the SQLite function used for case-insensitive filters. SQLite's
// built-in LOWER only folds ASCII.
const foldFunc = "unicode_lower"

var (
	registerFuncsOnce sync.Once
	registerFuncsErr  error
)

// registerSQLiteFuncs installs the Go-side functions on every future SQLite connection.
func registerSQLiteFuncs() error {
	registerFuncsOnce.Do(func() {
		registerFuncsErr = sqlite.RegisterDeterministicScalarFunction(foldFunc, 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case nil:
					return nil, nil
				case string:
					return fold(v), nil
				case []byte:
					return fold(string(v)), nil
				default:
					return v, nil
				}
			})
		if registerFuncsErr != nil {
			registerFuncsErr = fmt.Errorf("register %s: %w", foldFunc, registerFuncsErr)
		}
	})
	return registerFuncsErr
}

// fold is the case folding applied to both sides of a filter.
func fold(s string) string {
	return strings.ToLower(s)
}

// containsFold returns a case-insensitive substring condition on col and its argument.
func (d Dialect) containsFold(col, value string) (string, any) {
	if d == Postgres {
		return col + ` ILIKE ? ESCAPE '\'`, "%" + escapeLike(value) + "%"
	}
	return foldFunc + `(` + col + `) LIKE ? ESCAPE '\'`, "%" + escapeLike(fold(value)) + "%"
}
