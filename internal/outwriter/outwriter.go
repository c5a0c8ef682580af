// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteEvents prints an event listing using the configured output format.
func (ow *OutWriter) WriteEvents(events []schema.Event, cfg *contract.Config, duration time.Duration) error {
	return WriteEventResults(events, cfg, duration)
}

// WriteStatus prints store status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return WriteStoreStatus(status, cfg)
}
