package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEvents = []schema.Event{
	{Title: "GopherCon", Image: "/images/event1.png", Slug: "gophercon", Location: "Chicago, IL", Date: "2025-08-26", Time: "09:00 AM"},
	{Title: "KubeCon", Image: "/images/event2.png", Slug: "kubecon", Location: "London, UK", Date: "2025-04-01", Time: "10:00 AM"},
	{Title: "React Summit", Image: "/images/event3.png", Slug: "react-summit", Location: "Amsterdam, NL", Date: "2025-06-13", Time: "08:30 AM"},
}

// newSQLiteStore returns a store over a freshly migrated database file.
func newSQLiteStore(t *testing.T) *EventStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "events.db")
	_, err := Migrate(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	resolve := func() string { return dbPath }
	cache := NewCache(schema.SQLiteBackend, resolve, dbconn.DefaultConnectOptions())
	t.Cleanup(func() { _ = cache.Close(context.Background()) })

	store, err := NewEventStore(cache, schema.SQLiteBackend, EventsTable, resolve)
	require.NoError(t, err)
	return store
}

func TestNewEventStore(t *testing.T) {
	cache := NewCache(schema.SQLiteBackend, func() string { return "" }, dbconn.DefaultConnectOptions())

	_, err := NewEventStore(cache, schema.SQLiteBackend, "events; DROP TABLE x", nil)
	assert.Error(t, err)

	_, err = NewEventStore(cache, schema.MongoDBBackend, EventsTable, nil)
	assert.Error(t, err)
}

func TestEventStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		store := newSQLiteStore(t)
		events, err := store.ListEvents(ctx, 10)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("newest first with limit", func(t *testing.T) {
		store := newSQLiteStore(t)
		require.NoError(t, store.AddEvents(ctx, testEvents))

		events, err := store.ListEvents(ctx, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "react-summit", events[0].Slug)
		assert.Equal(t, testEvents[0], events[2])

		limited, err := store.ListEvents(ctx, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, "kubecon", limited[1].Slug)
	})

	t.Run("upsert by slug", func(t *testing.T) {
		store := newSQLiteStore(t)
		require.NoError(t, store.AddEvents(ctx, testEvents))

		updated := testEvents[0]
		updated.Location = "Seattle, WA"
		require.NoError(t, store.AddEvents(ctx, []schema.Event{updated}))

		events, err := store.ListEvents(ctx, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "Seattle, WA", events[2].Location)
	})

	t.Run("status", func(t *testing.T) {
		store := newSQLiteStore(t)
		require.NoError(t, store.AddEvents(ctx, testEvents))

		status, err := store.GetStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), status.TotalEvents)
		assert.Equal(t, EventsTable, status.Collection)
		assert.Equal(t, schema.StateConnected, status.Connection.State)
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})

	t.Run("unmigrated database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "empty.db")
		cache := NewCache(schema.SQLiteBackend, func() string { return dbPath }, dbconn.DefaultConnectOptions())
		defer func() { _ = cache.Close(ctx) }()
		store, err := NewEventStore(cache, schema.SQLiteBackend, EventsTable, nil)
		require.NoError(t, err)

		_, err = store.ListEvents(ctx, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query events")
	})

	t.Run("missing configuration", func(t *testing.T) {
		cache := NewCache(schema.PostgreSQLBackend, func() string { return "" }, dbconn.DefaultConnectOptions())
		store, err := NewEventStore(cache, schema.PostgreSQLBackend, EventsTable, nil)
		require.NoError(t, err)

		_, err = store.ListEvents(ctx, 5)
		assert.True(t, dbconn.IsConfigurationError(err))

		status, err := store.GetStatus(ctx)
		assert.True(t, dbconn.IsConfigurationError(err))
		assert.Equal(t, schema.StateEmpty, status.Connection.State)
	})
}

func TestQueryHelpers(t *testing.T) {
	assert.Equal(t, "`events`", quoteTableName("events", schema.MySQLBackend))
	assert.Equal(t, `"events"`, quoteTableName("events", schema.PostgreSQLBackend))
	assert.Equal(t, "$1", placeholder(schema.PostgreSQLBackend, 1))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))

	assert.NoError(t, validateTableName("events_2025"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1events"))
}
