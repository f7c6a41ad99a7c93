package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"strings"
)

var validate = validator.New()

// Validate : struct-tag validation plus rules that span sections
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if cfg.Mode == ModePostgres && cfg.DatabaseConfig.DSN == "" {
		return fmt.Errorf("config: databaseConfig.dsn is required in %s mode", ModePostgres)
	}

	if cfg.S3Config.Backend == "s3" && cfg.S3Config.Bucket == "" {
		return fmt.Errorf("config: s3Config.bucket is required for the s3 backend")
	}

	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("config: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed %q", fieldErr.Namespace(), fieldErr.Tag()))
	}

	return fmt.Errorf("config: %s", strings.Join(messages, "; "))
}
