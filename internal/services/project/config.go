// File: internal/services/project/config.go
package project

import (
	"fmt"
	"time"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("DB_SERVICE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("project timeout must be positive")
	}
	return nil
}
