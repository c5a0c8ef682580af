package cmd

import (
	"time"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/outwriter"
	"github.com/spf13/cobra"
)

// eventsCmd lists events on the command line.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events, newest first",
	Long: `Print the event listing from the configured database.

Output formats:
  text    - Table with rank, title, location, date, time and slug
  json    - Array of events with their rank
  csv     - One row per event
  parquet - Columnar export (requires --output-file)

Examples:
  # Show the latest 10 events
  devevent events --limit 10

  # Export everything to CSV
  devevent events --limit 1000 --output csv --output-file events.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		events, err := store.ListEvents(rootCtx, cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Failed to list events", err)
		}
		if err := outwriter.NewOutWriter().WriteEvents(events, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write events", err)
		}
	},
}
