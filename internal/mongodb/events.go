package mongodb

import (
	"context"
	"fmt"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/schema"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Default database and collection names.
const (
	DefaultDatabase  = "devevent"
	EventsCollection = "events"
)

// EventStore lists events from a MongoDB collection.
type EventStore struct {
	cache      *dbconn.Cache[*mongo.Client]
	database   string
	collection string
}

var (
	_ contract.EventStore  = &EventStore{} // Compile-time check
	_ contract.EventWriter = &EventStore{}
)

// NewEventStore returns a store reading from database.events through cache.
func NewEventStore(cache *dbconn.Cache[*mongo.Client], database string) *EventStore {
	if database == "" {
		database = DefaultDatabase
	}
	return &EventStore{cache: cache, database: database, collection: EventsCollection}
}

// events returns the collection handle, connecting if needed.
func (s *EventStore) events(ctx context.Context) (*mongo.Collection, error) {
	client, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(s.database).Collection(s.collection), nil
}

// ListEvents returns up to limit events, newest first. A limit <= 0 returns all events.
func (s *EventStore) ListEvents(ctx context.Context, limit int) ([]schema.Event, error) {
	coll, err := s.events(ctx)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}

	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", s.database, s.collection, err)
	}

	events := []schema.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// GetStatus returns the connection state and the number of stored events.
func (s *EventStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{Collection: s.database + "." + s.collection}

	coll, err := s.events(ctx)
	status.Connection = s.cache.Status()
	if err != nil {
		return status, err
	}

	count, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return status, fmt.Errorf("failed to count events: %w", err)
	}
	status.TotalEvents = count
	return status, nil
}

// AddEvents upserts events keyed by slug.
func (s *EventStore) AddEvents(ctx context.Context, events []schema.Event) error {
	if len(events) == 0 {
		return nil
	}
	coll, err := s.events(ctx)
	if err != nil {
		return err
	}

	models := make([]mongo.WriteModel, 0, len(events))
	for _, e := range events {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "slug", Value: e.Slug}}).
			SetReplacement(e).
			SetUpsert(true))
	}

	if _, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	return nil
}
