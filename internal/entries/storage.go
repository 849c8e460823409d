package entries

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the repository selected by driver. Database drivers open dsn,
// create the schema and return a closer for the underlying connection.
func Open(ctx context.Context, driver, dsn string) (Repository, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemoryRepository(), func() error { return nil }, nil
	case DriverSQLite, "sqlite3":
		return openBun(ctx, "sqlite3", dsn, func(db *sql.DB) *bun.DB {
			return bun.NewDB(db, sqlitedialect.New())
		})
	case DriverPostgres, "postgresql":
		return openBun(ctx, "postgres", dsn, func(db *sql.DB) *bun.DB {
			return bun.NewDB(db, pgdialect.New())
		})
	default:
		return nil, nil, fmt.Errorf("entries: unsupported storage driver %q", driver)
	}
}

func openBun(ctx context.Context, driverName, dsn string, wrap func(*sql.DB) *bun.DB) (Repository, func() error, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("entries: %s storage requires a dsn", driverName)
	}
	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("entries: open %s: %w", driverName, err)
	}
	db := wrap(sqldb)
	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return NewBunRepository(db), db.Close, nil
}
