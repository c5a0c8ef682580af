package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/devevent/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 20
	MaxResultLimit        = 1000
	DefaultAddr           = ":3000"
	DefaultDatabase       = "devevent"
	DefaultConnectTimeout = 10 * time.Second
)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext
	Database  string // MongoDB database name

	ConnectTimeout time.Duration

	Addr        string
	ResultLimit int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Backend        string `mapstructure:"backend"`
	MongoDBURI     string `mapstructure:"mongodb-uri"`
	DBConnect      string `mapstructure:"db-connect"`
	Database       string `mapstructure:"database"`
	ConnectTimeout string `mapstructure:"connect-timeout"`
	Addr           string `mapstructure:"addr"`
	Limit          int    `mapstructure:"limit"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	LogFormat      string `mapstructure:"log-format"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
//
// A missing MongoDB URI is not an error here: it is reported lazily as a
// configuration error by the first connection attempt.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of connection strings.
// Empty strings are accepted for MongoDB (checked on connect) and SQLite (default file).
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MongoDBBackend:
		if connStr == "" {
			return nil
		}
		if !strings.HasPrefix(connStr, "mongodb://") && !strings.HasPrefix(connStr, "mongodb+srv://") {
			return fmt.Errorf("MongoDB connection string must start with 'mongodb://' or 'mongodb+srv://'")
		}
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the backend and its connection settings.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.Backend)))
	if cfg.Backend == "" {
		cfg.Backend = schema.MongoDBBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be mongodb, sqlite, mysql, postgresql", input.Backend)
	}

	if cfg.Backend == schema.MongoDBBackend {
		if err := ValidateDatabaseConnectionString(cfg.Backend, strings.TrimSpace(input.MongoDBURI)); err != nil {
			return err
		}
		cfg.Database = strings.TrimSpace(input.Database)
		if cfg.Database == "" {
			cfg.Database = DefaultDatabase
		}
		return nil
	}

	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// validateSimpleInputs handles limits, output and timing options.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Width = input.Width
	cfg.OutputFile = input.OutputFile
	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Address ---
	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	// --- 4. Connect Timeout ---
	cfg.ConnectTimeout = DefaultConnectTimeout
	if input.ConnectTimeout != "" {
		d, err := time.ParseDuration(input.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("invalid connect-timeout '%s': %w", input.ConnectTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("connect-timeout must be positive (received %s)", d)
		}
		cfg.ConnectTimeout = d
	}

	return nil
}
