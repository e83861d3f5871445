package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Tests run without a bot token or a postgres instance, so
// only production enforces the full set.
func ValidateConfig(cfg *Config) error {
	var errs []string

	// The seed command and tests run without a bot token; only
	// production refuses to start without one.
	if cfg.BotToken == "" && IsProduction() {
		errs = append(errs, "BOT_TOKEN is required")
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	case "postgres":
		if cfg.DBUser == "" {
			errs = append(errs, "DB_USER is required when DB_DRIVER=postgres")
		}
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD is required when DB_DRIVER=postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown DB_DRIVER %q", cfg.DBDriver))
	}

	switch cfg.CatalogSource {
	case "file":
		if cfg.CatalogPath == "" {
			errs = append(errs, "CATALOG_PATH is required when CATALOG_SOURCE=file")
		}
	case "s3":
		if cfg.CatalogBucket == "" {
			errs = append(errs, "CATALOG_BUCKET is required when CATALOG_SOURCE=s3")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown CATALOG_SOURCE %q", cfg.CatalogSource))
	}

	if IsProduction() && cfg.DBDriver == "sqlite" {
		errs = append(errs, "sqlite is not supported in production, set DB_DRIVER=postgres")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
