package schema

import "time"

// ConnectionStatus represents the state of a memoized database connection.
type ConnectionStatus struct {
	Backend     string          `json:"backend"`
	State       ConnectionState `json:"state"`
	Attempts    int64           `json:"attempts"`
	Waiters     int64           `json:"waiters"`
	ConnectedAt time.Time       `json:"connected_at"`
	LastError   string          `json:"last_error,omitempty"`
}

// StoreStatus represents the status of an event store.
type StoreStatus struct {
	Connection     ConnectionStatus `json:"connection"`
	TotalEvents    int64            `json:"total_events"`
	Collection     string           `json:"collection"`
	TableSizeBytes int64            `json:"table_size_bytes,omitempty"`
}
