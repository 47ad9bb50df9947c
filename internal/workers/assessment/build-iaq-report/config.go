package buildiaqreport

import (
	"fmt"
	"time"

	"iaq-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	Title      string
	// TenancyLink is attached to the tenancy recommendation.
	TenancyLink string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		MaxRetries:  3,
		Title:       "Indoor Air Quality Self-Assessment",
		TenancyLink: "https://www.tenancy.govt.nz/healthy-homes/",
	}
}

func NewConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	wc := config.GetWorkerConfig(cfg, TaskType)
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.MaxRetries = wc.MaxRetries
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
