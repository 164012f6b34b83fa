// Package config loads the provisioning settings from the environment, an
// optional .env file and an optional YAML file, then validates them so a run
// fails fast on misconfiguration.
package config

import (
	"path/filepath"
	"time"
)

// Config holds all provisioning configuration.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Sandbox SandboxConfig `yaml:"sandbox"`
}

// ImportConfig holds the CSV import settings.
type ImportConfig struct {
	// File is the CSV read when no path is given on the command line.
	File string `yaml:"file" env:"PROVISION_CSV_FILE" default:"users.csv"`

	// Endpoint receives one POST per valid row.
	Endpoint string `yaml:"endpoint" env:"PROVISION_ENDPOINT" default:"https://jsonplaceholder.typicode.com/users"`

	// RowDelay is the pause after every submitted row (default: 100ms)
	RowDelay time.Duration `yaml:"row_delay" env:"PROVISION_ROW_DELAY" default:"100ms"`

	// DryRun logs the requests instead of sending them.
	DryRun bool `yaml:"dry_run" env:"PROVISION_DRY_RUN" default:"false"`
}

// HTTPConfig holds the outbound session settings.
type HTTPConfig struct {
	MaxRetries     int           `yaml:"max_retries" env:"PROVISION_MAX_RETRIES" default:"3"`
	BackoffFactor  time.Duration `yaml:"backoff_factor" env:"PROVISION_BACKOFF_FACTOR" default:"1s"`
	MaxBackoff     time.Duration `yaml:"max_backoff" env:"PROVISION_MAX_BACKOFF" default:"120s"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"PROVISION_CONNECT_TIMEOUT" default:"10s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"PROVISION_READ_TIMEOUT" default:"30s"`
	UserAgent      string        `yaml:"user_agent" env:"PROVISION_USER_AGENT" default:"UserProvisioning/2.0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`

	Dir  string `yaml:"dir" env:"PROVISION_LOG_DIR" default:"logs"`
	File string `yaml:"file" env:"PROVISION_LOG_FILE" default:"error_log.txt"`
}

// SandboxConfig holds the local user API settings.
type SandboxConfig struct {
	Addr string `yaml:"addr" env:"SANDBOX_ADDR" default:":8080"`

	// DatabaseURL selects the postgres store; empty keeps users in memory.
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL" envAlt:"DB_URL"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SANDBOX_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Path returns the log file location.
func (c *LoggingConfig) Path() string {
	if c.File == "" {
		return ""
	}
	return filepath.Join(c.Dir, c.File)
}
