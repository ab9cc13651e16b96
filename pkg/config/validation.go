package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for complex rules
// that cannot be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	// Run struct tag validation
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// Custom validation rules that can't be expressed in tags
	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// A short HMAC secret makes tokens brute-forceable. The secret may
	// also arrive via DITTODRIVE_JWT_SECRET, so empty is acceptable here;
	// the server refuses to start without one.
	if cfg.Auth.Secret != "" && len(cfg.Auth.Secret) < 32 {
		return fmt.Errorf("auth: jwt secret must be at least 32 characters (got %d)", len(cfg.Auth.Secret))
	}

	// The S3 backend cannot operate without a bucket
	if cfg.Blob.Type == "s3" && cfg.Blob.S3.Bucket == "" {
		return fmt.Errorf("blob: s3 bucket is required")
	}

	// Postgres needs enough to build a DSN
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database: postgres host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database: postgres database name is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database: postgres user is required")
		}
	}

	// The badger cache persists to disk and needs a directory
	if cfg.Cache.Backend == "badger" && cfg.Cache.Path == "" {
		return fmt.Errorf("cache: badger backend requires a path")
	}

	// Share links must not outlive the configured maximum
	if cfg.Sharing.DefaultTTL > cfg.Sharing.MaxTTL {
		return fmt.Errorf("sharing: default_ttl (%s) exceeds max_ttl (%s)",
			cfg.Sharing.DefaultTTL, cfg.Sharing.MaxTTL)
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
