package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/parquet"
	"github.com/huangsam/devevent/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteEventResults outputs a listing, dispatching on the configured output format.
func WriteEventResults(events []schema.Event, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONEvents(w, events)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVEvents(w, events)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ToEventRows(events, cfg.Backend, time.Now().UTC())
		if err := parquet.WriteEventsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEventTable(w, events, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeEventTable generates the human-readable table.
func writeEventTable(w io.Writer, events []schema.Event, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Title", "Location", "Date", "Time", "Slug"})

	width := GetMaxTableTitleWidth(cfg)
	data := make([][]string, 0, len(events))
	for i, e := range events {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(e.Title, width),
			contract.TruncateText(e.Location, width),
			e.Date,
			e.Time,
			e.Slug,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d events from %s in %v\n", len(events), cfg.Backend, duration.Round(time.Millisecond))
	return err
}

// writeCSVEvents writes the listing in CSV format.
func writeCSVEvents(w io.Writer, events []schema.Event) error {
	header := []string{"rank", "title", "image", "slug", "location", "date", "time"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, e := range events {
			rec := []string{strconv.Itoa(i + 1), e.Title, e.Image, e.Slug, e.Location, e.Date, e.Time}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONEvents writes the listing as a JSON array of ranked events.
func writeJSONEvents(w io.Writer, events []schema.Event) error {
	type jsonEvent struct {
		Rank int `json:"rank"`
		schema.Event
	}

	output := make([]jsonEvent, len(events))
	for i, e := range events {
		output[i] = jsonEvent{Rank: i + 1, Event: e}
	}
	return writeJSON(w, output)
}
