// Package parquet exports event listings to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/devevent/schema"
	"github.com/parquet-go/parquet-go"
)

// EventRow is a single exported event.
type EventRow struct {
	// Rank is the 1-based position in the listing (newest first)
	Rank int32 `parquet:"rank,snappy"`

	Title    string `parquet:"title,snappy"`
	Image    string `parquet:"image,snappy"`
	Slug     string `parquet:"slug,snappy"`
	Location string `parquet:"location,snappy"`
	Date     string `parquet:"date,snappy"`
	Time     string `parquet:"time,snappy"`

	// Backend is the store the event was read from
	Backend string `parquet:"backend,snappy,dict"`

	// ExportedAt is when the listing was taken (stored as TIMESTAMP with nanosecond precision)
	ExportedAt time.Time `parquet:"exported_at,snappy"`
}

// ToEventRows converts a listing into rows stamped with backend and exportedAt.
func ToEventRows(events []schema.Event, backend schema.DatabaseBackend, exportedAt time.Time) []EventRow {
	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = EventRow{
			Rank:       int32(i + 1),
			Title:      e.Title,
			Image:      e.Image,
			Slug:       e.Slug,
			Location:   e.Location,
			Date:       e.Date,
			Time:       e.Time,
			Backend:    string(backend),
			ExportedAt: exportedAt,
		}
	}
	return rows
}

// WriteEventsParquet writes rows to a Parquet file at outputPath.
func WriteEventsParquet(rows []EventRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the EventRow struct tags
	writer := parquet.NewGenericWriter[EventRow](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
