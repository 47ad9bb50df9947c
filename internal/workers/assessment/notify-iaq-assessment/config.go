package notifyiaqassessment

import (
	"fmt"
	"time"

	"iaq-workers/internal/common/config"
	"iaq-workers/internal/iaq"
)

type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	// SMSMinTier is the lowest tier that also triggers an SMS.
	SMSMinTier iaq.RiskTier
	DedupeTTL  time.Duration
	KeyPrefix  string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		MaxRetries: 3,
		SMSMinTier: iaq.TierHigh,
		DedupeTTL:  24 * time.Hour,
		KeyPrefix:  "iaq:notify:",
	}
}

func NewConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	wc := config.GetWorkerConfig(cfg, TaskType)
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.MaxRetries = wc.MaxRetries
	n := cfg.Notifications
	c.EmailEnabled = n.Email.Enabled
	c.FromEmail = n.Email.FromEmail
	c.SMSEnabled = n.SMS.Enabled
	if n.SMS.MinTier != "" {
		c.SMSMinTier = iaq.RiskTier(n.SMS.MinTier)
	}
	if n.DedupeTTL > 0 {
		c.DedupeTTL = config.GetDuration(n.DedupeTTL)
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
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when email is enabled")
	}
	if !c.SMSMinTier.Valid() {
		return fmt.Errorf("sms min tier %q is not a risk tier", c.SMSMinTier)
	}
	if c.DedupeTTL <= 0 {
		return fmt.Errorf("dedupe_ttl must be positive")
	}
	return nil
}

func (c *Config) Enabled() bool {
	return c.EmailEnabled || c.SMSEnabled
}
