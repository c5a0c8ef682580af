package contract

import (
	"context"

	"github.com/huangsam/devevent/schema"
	"github.com/stretchr/testify/mock"
)

// MockEventStore is a mock implementation of EventStore for testing.
type MockEventStore struct {
	mock.Mock
}

var _ EventStore = &MockEventStore{} // Compile-time check

// ListEvents implements the EventStore interface.
func (m *MockEventStore) ListEvents(ctx context.Context, limit int) ([]schema.Event, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]schema.Event)
	return events, args.Error(1)
}

// GetStatus implements the EventStore interface.
func (m *MockEventStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}
