// Package sqlstore lists events from relational databases.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// driverName returns the database/sql driver registered for backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported SQL backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
}

// open returns an unverified handle for backend.
func open(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		default:
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", connStr, err)
		}
	}

	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Dialer returns a dbconn.Dialer for backend. With command buffering disabled
// the database must answer a ping before the handle is handed out.
func Dialer(backend schema.DatabaseBackend) dbconn.Dialer[*sql.DB] {
	return func(ctx context.Context, connStr string, opts dbconn.ConnectOptions) (*sql.DB, error) {
		db, err := open(backend, connStr)
		if err != nil {
			return nil, err
		}
		if opts.BufferCommands {
			return db, nil
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
		}
		return db, nil
	}
}

func closeDB(_ context.Context, db *sql.DB) error {
	return db.Close()
}

// Resolver returns a URI resolver for backend. SQLite falls back to the
// default database file when get returns nothing.
func Resolver(backend schema.DatabaseBackend, get func() string, defaultPath string) dbconn.URIResolver {
	return func() string {
		if s := get(); s != "" {
			return s
		}
		if backend == schema.SQLiteBackend {
			return defaultPath
		}
		return ""
	}
}

// NewCache creates a standalone connection cache for backend.
func NewCache(backend schema.DatabaseBackend, resolve dbconn.URIResolver, opts dbconn.ConnectOptions) *dbconn.Cache[*sql.DB] {
	return dbconn.New(dbconn.Config[*sql.DB]{
		Backend: string(backend),
		URIKey:  "db-connect",
		Resolve: resolve,
		Dial:    Dialer(backend),
		Close:   closeDB,
		Options: opts,
	})
}

// Configure returns the process-wide cache for backend. The resolver and
// options only take effect on the first lookup for that backend.
func Configure(backend schema.DatabaseBackend, resolve dbconn.URIResolver, opts dbconn.ConnectOptions) *dbconn.Cache[*sql.DB] {
	return dbconn.Shared("sql:"+string(backend), func() *dbconn.Cache[*sql.DB] {
		return NewCache(backend, resolve, opts)
	})
}
