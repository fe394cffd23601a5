// File: internal/services/identity/config.go
package identity

import (
	"fmt"
	"time"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig keeps the fixed 5s verification timeout; exceeding it is
// reported as its own failure type, not silently retried.
func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("AUTH_SERVICE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("auth timeout must be positive")
	}
	return nil
}
