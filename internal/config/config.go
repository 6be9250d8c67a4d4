// Package config provides configuration management for PairScan.
package config

import (
	"time"

	"github.com/saltfish/pairscan/internal/domain"
)

// Config is the root configuration structure.
type Config struct {
	Env       string          `yaml:"env"`
	Data      DataConfig      `yaml:"data"`
	Strategy  StrategyConfig  `yaml:"strategy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Report    ReportConfig    `yaml:"report"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig locates the prepared price series the core consumes.
type DataConfig struct {
	// Dir holds one CSV per symbol (timestamp,close).
	Dir string `yaml:"dir"`
	// Symbols restricts the universe; empty means every CSV in Dir.
	Symbols []string `yaml:"symbols"`
	// TimestampLayout parses the timestamp column. Defaults to RFC 3339.
	TimestampLayout string `yaml:"timestamp_layout"`
}

// StrategyConfig carries the backtest thresholds and cadence.
type StrategyConfig struct {
	ZWindow    int                   `yaml:"z_window"`
	BarsPerDay int                   `yaml:"bars_per_day"`
	Params     domain.StrategyParams `yaml:"params"`
	Grid       domain.ParamGrid      `yaml:"grid"`
}

// SchedulerConfig contains worker pool and daemon settings.
type SchedulerConfig struct {
	MaxConcurrentPairs int    `yaml:"max_concurrent_pairs"`
	ShutdownTimeout    string `yaml:"shutdown_timeout"`
	// RescanCron re-runs the scan on a cron schedule when set; empty means
	// one-shot batch mode.
	RescanCron string `yaml:"rescan_cron"`
}

// ShutdownTimeoutDuration returns the shutdown timeout as a time.Duration.
func (s *SchedulerConfig) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ReportConfig controls where result tables are written.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// DatabaseConfig contains PostgreSQL connection settings. Persistence is
// optional; when Enabled is false results are only written as CSV tables.
type DatabaseConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxConnections     int    `yaml:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections"`
	ConnMaxLifetime    string `yaml:"conn_max_lifetime"`
}

// ConnectionString returns the PostgreSQL connection string.
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" +
		itoa(d.Port) + "/" + d.Name + "?sslmode=" + d.SSLMode
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"output_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Env: "development",
		Data: DataConfig{
			Dir:             "data",
			TimestampLayout: time.RFC3339,
		},
		Strategy: StrategyConfig{
			ZWindow:    24,
			BarsPerDay: 24,
			Params:     domain.DefaultParams(),
			Grid:       domain.DefaultGrid(),
		},
		Scheduler: SchedulerConfig{
			MaxConcurrentPairs: 8,
			ShutdownTimeout:    "30s",
		},
		Report: ReportConfig{
			OutputDir: "results",
		},
		Database: DatabaseConfig{
			Enabled:            false,
			Host:               "localhost",
			Port:               5432,
			User:               "postgres",
			Password:           "postgres",
			Name:               "pairscan_dev",
			SSLMode:            "disable",
			MaxConnections:     25,
			MaxIdleConnections: 5,
			ConnMaxLifetime:    "1h",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}

// itoa converts int to string (simple helper to avoid importing strconv).
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	negative := i < 0
	if negative {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if negative {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
