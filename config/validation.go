package config

import (
	"errors"
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

// requirements lists settings that must be non-empty per environment
var requirements = map[Environment][]string{
	Development: {"server_port"},
	Test:        {"server_port"},
	CI:          {"server_port", "jwt_secret"},
	Production:  {"server_port", "base_url", "jwt_secret"},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	values := map[string]string{
		"server_port": cfg.ServerPort,
		"base_url":    cfg.BaseURL,
		"jwt_secret":  cfg.JWTSecret,
	}
	for _, key := range requirements[cfg.Env] {
		if values[key] == "" {
			errs = append(errs, ValidationError{Field: key, Message: "is required in " + cfg.Env.String()})
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{Field: "db_host", Message: "host and name are required for postgres"})
		}
		if cfg.Env.IsProduction() && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "db_password", Message: "db_password secret is required"})
		}
	case "sqlite":
		if cfg.Env.IsProduction() {
			errs = append(errs, ValidationError{Field: "db_driver", Message: "sqlite is not supported in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "sqlite_path", Message: "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{Field: "db_driver", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	if cfg.PageSize < 1 {
		errs = append(errs, ValidationError{Field: "page_size", Message: "must be positive"})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "token_ttl", Message: "must be positive"})
	}
	if cfg.RateLimitCount < 1 || cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "rate_limit", Message: "window and count must be positive"})
	}
	if cfg.S3Bucket == "" && cfg.MediaDir == "" {
		errs = append(errs, ValidationError{Field: "media_dir", Message: "required when s3_bucket_name is not set"})
	}
	if cfg.Env.IsProduction() && !strings.HasPrefix(cfg.BaseURL, "https://") {
		errs = append(errs, ValidationError{Field: "base_url", Message: "must use https in production"})
	}

	return errors.Join(errs...)
}
