package config

import (
	"fmt"
	"log/slog"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TargetPath == "" {
		return fmt.Errorf("target_path is required")
	}

	switch c.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.OutputFormat, OutputText, OutputJSON)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.HTTP.RetryMax < 0 {
		return fmt.Errorf("http.retry_max must not be negative, got %d", c.HTTP.RetryMax)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	return nil
}
