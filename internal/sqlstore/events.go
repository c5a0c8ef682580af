package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/schema"
)

// EventsTable is the table created by the embedded migrations.
const EventsTable = "events"

// EventStore lists events from a SQL table.
type EventStore struct {
	cache     *dbconn.Cache[*sql.DB]
	backend   schema.DatabaseBackend
	tableName string
	connStr   dbconn.URIResolver
}

var (
	_ contract.EventStore  = &EventStore{} // Compile-time check
	_ contract.EventWriter = &EventStore{}
)

// NewEventStore returns a store reading tableName through cache.
func NewEventStore(cache *dbconn.Cache[*sql.DB], backend schema.DatabaseBackend, tableName string, connStr dbconn.URIResolver) (*EventStore, error) {
	if !backend.IsSQL() {
		return nil, fmt.Errorf("unsupported SQL backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	return &EventStore{cache: cache, backend: backend, tableName: tableName, connStr: connStr}, nil
}

// ListEvents returns up to limit events, newest first. A limit <= 0 returns all events.
func (s *EventStore) ListEvents(ctx context.Context, limit int) ([]schema.Event, error) {
	db, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT title, image, slug, location, event_date, event_time FROM %s ORDER BY id DESC`,
		quoteTableName(s.tableName, s.backend))
	var args []any
	if limit > 0 {
		query += " LIMIT " + placeholder(s.backend, 1)
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.tableName, err)
	}
	defer func() { _ = rows.Close() }()

	events := []schema.Event{}
	for rows.Next() {
		var e schema.Event
		if err := rows.Scan(&e.Title, &e.Image, &e.Slug, &e.Location, &e.Date, &e.Time); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// GetStatus returns the connection state, row count and approximate table size.
func (s *EventStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{Collection: s.tableName}

	db, err := s.cache.Get(ctx)
	status.Connection = s.cache.Status()
	if err != nil {
		return status, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(s.tableName, s.backend))
	if err := db.QueryRowContext(ctx, countQuery).Scan(&status.TotalEvents); err != nil {
		return status, fmt.Errorf("failed to count events: %w", err)
	}

	status.TableSizeBytes = s.tableSize(ctx, db, status.TotalEvents)
	return status, nil
}

// tableSize estimates the storage used by the events table.
func (s *EventStore) tableSize(ctx context.Context, db *sql.DB, rows int64) int64 {
	estimate := rows * 1000 // Rough fallback
	var size int64

	switch s.backend {
	case schema.SQLiteBackend:
		query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := db.QueryRowContext(ctx, query).Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		if s.connStr == nil {
			return estimate
		}
		cfg, err := mysql.ParseDSN(s.connStr())
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		query := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := db.QueryRowContext(ctx, query, cfg.DBName, s.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		if err := db.QueryRowContext(ctx, "SELECT pg_total_relation_size($1)", s.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size
	}
	return estimate
}

// AddEvents inserts events, replacing any existing row with the same slug.
func (s *EventStore) AddEvents(ctx context.Context, events []schema.Event) error {
	db, err := s.cache.Get(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.upsertQuery()
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, query, e.Title, e.Image, e.Slug, e.Location, e.Date, e.Time); err != nil {
			return fmt.Errorf("failed to save event %q: %w", e.Slug, err)
		}
	}
	return tx.Commit()
}

// upsertQuery returns the UPSERT query for the backend.
func (s *EventStore) upsertQuery() string {
	quoted := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (title, image, slug, location, event_date, event_time) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE title = new.title, image = new.image, location = new.location, event_date = new.event_date, event_time = new.event_time`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (title, image, slug, location, event_date, event_time) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, image = EXCLUDED.image, location = EXCLUDED.location, event_date = EXCLUDED.event_date, event_time = EXCLUDED.event_time`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT INTO %s (title, image, slug, location, event_date, event_time) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (slug) DO UPDATE SET title = excluded.title, image = excluded.image, location = excluded.location, event_date = excluded.event_date, event_time = excluded.event_time`, quoted)
	}
}
