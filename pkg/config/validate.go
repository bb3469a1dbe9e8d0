package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dataset.Dir) == "" {
		return fmt.Errorf("dataset.dir is required")
	}
	if err := c.Scoring.ToScoring().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if c.Journal.Buffer < 1 {
		return fmt.Errorf("journal.buffer must be >= 1 (got %d)", c.Journal.Buffer)
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		return fmt.Errorf("server.cert_file and server.key_file must be set together")
	}
	return nil
}

func (a *APIConfig) validate() error {
	if a.RatePerMinute < 0 {
		return fmt.Errorf("rate_per_minute must be >= 0 (got %d)", a.RatePerMinute)
	}
	if a.RatePerMinute > 0 && a.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be >= 1 when rate limiting is on (got %d)", a.RateBurst)
	}
	if a.MaxQueryLength < 1 {
		return fmt.Errorf("max_query_length must be > 0 (got %d)", a.MaxQueryLength)
	}
	if a.BatchMax < 1 {
		return fmt.Errorf("batch_max must be > 0 (got %d)", a.BatchMax)
	}
	if a.BatchWorkers < 1 {
		return fmt.Errorf("batch_workers must be > 0 (got %d)", a.BatchWorkers)
	}
	return nil
}
