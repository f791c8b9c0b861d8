package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(driver))); d {
	case Postgres, SQLite:
		return d, nil
	case "postgres", "postgresql":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (want pgx or sqlite)", driver)
	}
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns "p1, p2, ..., pn" starting at offset+1.
func (d Dialect) Placeholders(offset, n int) string {
	ph := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ph = append(ph, d.Placeholder(offset+i))
	}
	return strings.Join(ph, ", ")
}

// Open a database handle for the dialect and verify the connection.
func Open(dialect Dialect, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		// A single connection keeps in-memory databases shared and avoids SQLITE_BUSY on writes.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", dialect, err)
	}

	return db, nil
}
