package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/devevent/internal/logging"
	"github.com/huangsam/devevent/internal/server"
	"github.com/huangsam/devevent/internal/sqlstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd runs the web front-end.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the event listing over HTTP",
	Long: `Start the DevEvent web server.

Routes:
  /         Navbar and featured events
  /events   All events up to --limit
  /healthz  Connection status as JSON (503 when the database is unreachable)
  /icons/*  Static icons

The database connection is opened on the first request and shared by all
requests after that. If the database is unreachable the pages still render
with an empty list and a notice.

Examples:
  # Serve from MongoDB
  MONGODB_URI="mongodb://localhost:27017" devevent serve

  # Serve from a local SQLite file on port 8080
  devevent serve --backend sqlite --addr :8080`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger := logging.FromContext(logging.WithComponent(rootCtx, "server"))

		if cfg.Backend.IsSQL() && viper.GetBool("migrate") {
			result, err := sqlstore.Migrate(cfg.Backend, connectionResolver(cfg)(), -1)
			if err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			logger.Info().Uint("version", result.To).Bool("changed", result.Changed).Msg("database schema ready")
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(store, server.Options{
			Addr:   cfg.Addr,
			Limit:  cfg.ResultLimit,
			Logger: *logger,
		})
		return srv.Run(ctx)
	},
}
