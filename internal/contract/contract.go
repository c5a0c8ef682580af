// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/devevent/schema"
)

// EventStore defines the read-only operations the pages and commands need.
// This allows the storage layer to be mocked for testing.
type EventStore interface {
	// ListEvents returns up to limit events, newest first. A limit <= 0 means no limit.
	ListEvents(ctx context.Context, limit int) ([]schema.Event, error)

	// GetStatus connects if needed and returns connection and collection details.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)
}

// EventWriter stores events, replacing existing ones with the same slug.
type EventWriter interface {
	AddEvents(ctx context.Context, events []schema.Event) error
}
