package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable before
// anything connects with it.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "ServerPort", Message: "server port is required"}
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return ValidationError{Field: "ServerPort", Message: "server port must be numeric"}
	}
	if cfg.DBHost == "" {
		return ValidationError{Field: "DBHost", Message: "database host is required"}
	}
	if cfg.DBPort == "" {
		return ValidationError{Field: "DBPort", Message: "database port is required"}
	}
	if cfg.DBUser == "" {
		return ValidationError{Field: "DBUser", Message: "database user is required"}
	}
	if cfg.DBName == "" {
		return ValidationError{Field: "DBName", Message: "database name is required"}
	}
	switch cfg.DBSSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return ValidationError{Field: "DBSSLMode", Message: fmt.Sprintf("unknown ssl mode %q", cfg.DBSSLMode)}
	}
	switch cfg.TokenLookupField {
	case "email", "username":
	default:
		return ValidationError{Field: "TokenLookupField", Message: "must be \"email\" or \"username\""}
	}
	return nil
}
