package dbx

import (
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// OpenSQLite opens dsn with the modernc driver. File databases get a busy
// timeout so several processes can share one; pragmas such as
// "foreign_keys(1)" are appended to the DSN. An in-memory database lives
// on a single connection, since each connection would see its own copy.
func OpenSQLite(dsn string, pragmas ...string) (*sql.DB, error) {
	memory := dsn == MemoryDSN
	if !memory && !strings.Contains(dsn, "busy_timeout") {
		pragmas = append([]string{"busy_timeout(5000)"}, pragmas...)
	}

	db, err := sql.Open("sqlite", withPragmas(dsn, pragmas))
	if err != nil {
		return nil, err
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func withPragmas(dsn string, pragmas []string) string {
	if len(pragmas) == 0 {
		return dsn
	}
	if dsn == MemoryDSN {
		dsn = "file::memory:"
	}

	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// Placeholders returns n comma-separated bind parameters.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Args converts a string slice to bind arguments.
func Args(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
