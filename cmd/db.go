package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/outwriter"
	"github.com/huangsam/devevent/internal/sqlstore"
	"github.com/huangsam/devevent/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbCmd focused on database management.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and prepare the events database",
	Long: `Manage the database that holds events.

Supported backends: MongoDB (default), SQLite, MySQL, PostgreSQL

Subcommands:
  status  - Connect and show connection state and event count
  migrate - Apply schema migrations (SQL backends)
  seed    - Load events from a JSON file

Examples:
  # Check that MONGODB_URI points at a reachable server
  devevent db status

  # Prepare a PostgreSQL database
  DEVEVENT_BACKEND=postgresql DEVEVENT_DB_CONNECT="host=localhost dbname=events" devevent db migrate`,
}

// dbStatusCmd shows connection status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display connection state and event count",
	Long: `Connect through the shared connection and report its state.

Displays:
- Backend and connection state (empty, pending, connected)
- Number of connection attempts
- Last connection error, if any
- Total number of events and table size (SQL backends)

Exits non-zero when the connection cannot be established.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, statusErr := store.GetStatus(rootCtx)
		if err := outwriter.NewOutWriter().WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write status", err)
		}
		if statusErr != nil {
			contract.LogFatal("Failed to get database status", statusErr)
		}
	},
}

// dbMigrateCmd runs schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply events schema migrations",
	Long: `Create or roll back the events table on SQL backends.

Use --target-version to pick a version:
  -1  migrate to the latest version (default)
   0  roll back all migrations
   N  migrate to version N

MongoDB needs no migrations.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if !cfg.Backend.IsSQL() {
			contract.LogFatal("Failed to migrate", fmt.Errorf("migrations are not supported for %s backend", cfg.Backend))
		}
		result, err := sqlstore.Migrate(cfg.Backend, connectionResolver(cfg)(), viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate", err)
		}
		fmt.Println(result)
	},
}

// dbSeedCmd loads events from a file.
var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load events from a JSON file",
	Long: `Insert events from a JSON array into the configured database.

Events with a slug that already exists replace the stored event.

Examples:
  devevent db seed --file events.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		events, err := readEventsFile(viper.GetString("file"))
		if err != nil {
			contract.LogFatal("Failed to read events", err)
		}
		writer, ok := store.(contract.EventWriter)
		if !ok {
			contract.LogFatal("Failed to seed", fmt.Errorf("%s backend does not accept writes", cfg.Backend))
		}
		if err := writer.AddEvents(rootCtx, events); err != nil {
			contract.LogFatal("Failed to seed", err)
		}
		fmt.Printf("Saved %d events.\n", len(events))
	},
}

// readEventsFile decodes a JSON array of events.
func readEventsFile(path string) ([]schema.Event, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var events []schema.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("invalid events file %s: %w", path, err)
	}
	return events, nil
}
