package mongodb

import (
	"context"
	"testing"

	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStoreWithoutConfiguration(t *testing.T) {
	cache := NewCache(func() string { return "" }, shortOptions())
	store := NewEventStore(cache, "")

	t.Run("list events", func(t *testing.T) {
		events, err := store.ListEvents(context.Background(), 10)
		require.Error(t, err)
		assert.Nil(t, events)
		assert.ErrorIs(t, err, dbconn.ErrConfiguration)
	})

	t.Run("status", func(t *testing.T) {
		status, err := store.GetStatus(context.Background())
		require.Error(t, err)
		assert.Equal(t, "devevent.events", status.Collection)
		assert.Equal(t, schema.StateEmpty, status.Connection.State)
		assert.Zero(t, status.TotalEvents)
	})
}

func TestNewEventStoreDatabase(t *testing.T) {
	cache := NewCache(func() string { return "" }, shortOptions())
	assert.Equal(t, DefaultDatabase, NewEventStore(cache, "").database)
	assert.Equal(t, "meetups", NewEventStore(cache, "meetups").database)
}

func TestAddEventsWithoutConfiguration(t *testing.T) {
	cache := NewCache(func() string { return "" }, shortOptions())
	store := NewEventStore(cache, "")

	assert.NoError(t, store.AddEvents(context.Background(), nil), "Nothing to write means no connection")
	err := store.AddEvents(context.Background(), []schema.Event{{Title: "GopherCon", Slug: "gophercon"}})
	assert.ErrorIs(t, err, dbconn.ErrConfiguration)
}
