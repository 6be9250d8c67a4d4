package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "validation errors: " + strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	// Validate environment
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[cfg.Env] {
		errs = append(errs, ValidationError{
			Field:   "env",
			Message: "must be one of: development, staging, production, test",
		})
	}

	errs = append(errs, validateData(&cfg.Data)...)
	errs = append(errs, validateStrategy(&cfg.Strategy)...)
	errs = append(errs, validateScheduler(&cfg.Scheduler)...)
	errs = append(errs, validateReport(&cfg.Report)...)
	if cfg.Database.Enabled {
		errs = append(errs, validateDatabase(&cfg.Database)...)
	}
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateData(d *DataConfig) ValidationErrors {
	var errs ValidationErrors

	if d.Dir == "" {
		errs = append(errs, ValidationError{
			Field:   "data.dir",
			Message: "is required",
		})
	}
	if d.TimestampLayout == "" {
		errs = append(errs, ValidationError{
			Field:   "data.timestamp_layout",
			Message: "is required",
		})
	}
	if len(d.Symbols) == 1 {
		errs = append(errs, ValidationError{
			Field:   "data.symbols",
			Message: "needs at least two symbols to form a pair",
		})
	}

	return errs
}

func validateStrategy(s *StrategyConfig) ValidationErrors {
	var errs ValidationErrors

	if s.ZWindow < 1 {
		errs = append(errs, ValidationError{
			Field:   "strategy.z_window",
			Message: "must be at least 1",
		})
	}
	if s.BarsPerDay < 1 {
		errs = append(errs, ValidationError{
			Field:   "strategy.bars_per_day",
			Message: "must be at least 1",
		})
	}
	if err := s.Params.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "strategy.params",
			Message: err.Error(),
		})
	}
	if len(s.Grid.Entries) == 0 || len(s.Grid.Exits) == 0 {
		errs = append(errs, ValidationError{
			Field:   "strategy.grid",
			Message: "entries and exits must be non-empty",
		})
	}

	return errs
}

func validateScheduler(s *SchedulerConfig) ValidationErrors {
	var errs ValidationErrors

	if s.MaxConcurrentPairs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "scheduler.max_concurrent_pairs",
			Message: "must be greater than 0",
		})
	}
	if s.MaxConcurrentPairs > 100 {
		errs = append(errs, ValidationError{
			Field:   "scheduler.max_concurrent_pairs",
			Message: "should not exceed 100 for reasonable resource usage",
		})
	}

	return errs
}

func validateReport(r *ReportConfig) ValidationErrors {
	var errs ValidationErrors

	if r.OutputDir == "" {
		errs = append(errs, ValidationError{
			Field:   "report.output_dir",
			Message: "is required",
		})
	}

	return errs
}

func validateDatabase(db *DatabaseConfig) ValidationErrors {
	var errs ValidationErrors

	if db.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "database.host",
			Message: "is required",
		})
	}
	if db.Port <= 0 || db.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "database.port",
			Message: "must be a valid port number (1-65535)",
		})
	}
	if db.User == "" {
		errs = append(errs, ValidationError{
			Field:   "database.user",
			Message: "is required",
		})
	}
	if db.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "database.name",
			Message: "is required",
		})
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[db.SSLMode] {
		errs = append(errs, ValidationError{
			Field:   "database.sslmode",
			Message: "must be one of: disable, require, verify-ca, verify-full",
		})
	}

	if db.MaxConnections <= 0 {
		errs = append(errs, ValidationError{
			Field:   "database.max_connections",
			Message: "must be greater than 0",
		})
	}
	if db.MaxIdleConnections < 0 {
		errs = append(errs, ValidationError{
			Field:   "database.max_idle_connections",
			Message: "must be non-negative",
		})
	}
	if db.MaxIdleConnections > db.MaxConnections {
		errs = append(errs, ValidationError{
			Field:   "database.max_idle_connections",
			Message: "must not exceed max_connections",
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be one of: debug, info, warn, error",
		})
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validFormats[l.Format] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be one of: json, console",
		})
	}

	return errs
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
