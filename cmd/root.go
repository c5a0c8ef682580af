package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/internal/logging"
	"github.com/huangsam/devevent/internal/mongodb"
	"github.com/huangsam/devevent/internal/sqlstore"
	"github.com/huangsam/devevent/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. It carries the logger once setup runs.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the event store selected by the backend setting.
var store contract.EventStore

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "devevent",
	Short: "Serve and browse developer events.",
	Long: `DevEvent is the hub for hackathons, meetups and conferences.

It serves the event listing over HTTP and lets you inspect the same data from
the command line. Events live in MongoDB by default (set MONGODB_URI), or in
SQLite, MySQL or PostgreSQL.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("DEVEVENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The connection string is also read from the conventional variable
	_ = viper.BindEnv("mongodb-uri", "DEVEVENT_MONGODB_URI", mongodb.URIEnv)

	// Set defaults in Viper
	viper.SetDefault("backend", schema.MongoDBBackend)
	viper.SetDefault("database", contract.DefaultDatabase)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("addr", contract.DefaultAddr)
	viper.SetDefault("connect-timeout", contract.DefaultConnectTimeout.String())
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", logging.FormatConsole)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".devevent") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and wires the event store.
func sharedSetup(ctx context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Attach the logger so the connection layer can report attempts.
	logger := logging.New(logging.ParseConfig(cfg.LogLevel, cfg.LogFormat))
	rootCtx = logging.WithContext(ctx, logger)

	// 5. Select the store. No connection is made until first use.
	s, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize event store: %w", err)
	}
	store = s
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// connectionResolver returns the resolver for the configured backend. It reads
// Viper on every call so the value is re-checked on each connection attempt.
func connectionResolver(c *contract.Config) dbconn.URIResolver {
	if c.Backend == schema.MongoDBBackend {
		return func() string { return viper.GetString("mongodb-uri") }
	}
	return sqlstore.Resolver(c.Backend, func() string { return viper.GetString("db-connect") }, contract.GetEventsDBFilePath())
}

// newStore builds the event store for the configured backend on top of the
// process-wide connection cache.
func newStore(c *contract.Config) (contract.EventStore, error) {
	opts := dbconn.DefaultConnectOptions()
	opts.ConnectTimeout = c.ConnectTimeout
	resolve := connectionResolver(c)

	if c.Backend == schema.MongoDBBackend {
		return mongodb.NewEventStore(mongodb.Configure(resolve, opts), c.Database), nil
	}
	cache := sqlstore.Configure(c.Backend, resolve, opts)
	return sqlstore.NewEventStore(cache, c.Backend, sqlstore.EventsTable, resolve)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Shutdown closes every shared database connection.
func Shutdown() error {
	logger := logging.FromContext(rootCtx)
	for _, status := range dbconn.Statuses() {
		logger.Debug().
			Str("backend", status.Backend).
			Str("state", string(status.State)).
			Int64("attempts", status.Attempts).
			Msg("closing connection")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return dbconn.CloseAll(ctx)
}
