package evaluateiaqrisk

import (
	"fmt"
	"time"

	"iaq-workers/internal/common/config"
	"iaq-workers/internal/iaq"
)

type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	DefaultProfile string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		MaxRetries:     3,
		DefaultProfile: iaq.ProfileNineFactor,
	}
}

func NewConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	wc := config.GetWorkerConfig(cfg, TaskType)
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.MaxRetries = wc.MaxRetries
	if cfg.Assessment.DefaultProfile != "" {
		c.DefaultProfile = cfg.Assessment.DefaultProfile
	}
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.DefaultProfile == "" {
		return fmt.Errorf("default_profile is required")
	}
	return nil
}
