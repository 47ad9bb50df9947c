package config

import (
	"fmt"

	"iaq-workers/internal/iaq"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Redis         RedisConfig             `mapstructure:"redis"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Assessment    AssessmentConfig        `mapstructure:"assessment"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Server        ServerConfig            `mapstructure:"server"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// AssessmentConfig selects the default scoring profile and declares any
// custom profiles on top of the built-in presets.
type AssessmentConfig struct {
	DefaultProfile string          `mapstructure:"default_profile"`
	Profiles       []ProfileConfig `mapstructure:"profiles"`
}

// ProfileConfig is the YAML form of a custom scoring profile. Factors use
// config keys such as "ventilation" or "building_age".
type ProfileConfig struct {
	Name         string   `mapstructure:"name"`
	Factors      []string `mapstructure:"factors"`
	LowMax       int      `mapstructure:"low_max"`
	HighMin      int      `mapstructure:"high_min"`
	AgeThreshold int      `mapstructure:"age_threshold"`
	AgeInclusive bool     `mapstructure:"age_inclusive"`
}

// ToProfile converts the YAML form into a validated scoring profile.
func (p ProfileConfig) ToProfile() (iaq.ScoringProfile, error) {
	factors := make([]iaq.Factor, 0, len(p.Factors))
	for _, key := range p.Factors {
		f, err := iaq.ParseFactor(key)
		if err != nil {
			return iaq.ScoringProfile{}, fmt.Errorf("profile %s: %w", p.Name, err)
		}
		factors = append(factors, f)
	}
	return iaq.NewProfile(p.Name, factors, p.LowMax, p.HighMin,
		iaq.AgeRule{Threshold: p.AgeThreshold, Inclusive: p.AgeInclusive})
}

// Registry builds the profile registry and checks the default profile
// resolves against it.
func (a AssessmentConfig) Registry() (*iaq.Registry, error) {
	custom := make([]iaq.ScoringProfile, 0, len(a.Profiles))
	for _, pc := range a.Profiles {
		p, err := pc.ToProfile()
		if err != nil {
			return nil, err
		}
		custom = append(custom, p)
	}

	reg, err := iaq.NewRegistry(custom...)
	if err != nil {
		return nil, err
	}
	if _, err := reg.Lookup(a.DefaultProfile); err != nil {
		return nil, fmt.Errorf("assessment.default_profile: %w", err)
	}
	return reg, nil
}

// NotificationConfig holds settings for the notify-iaq-assessment worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
		// MinTier is the lowest risk tier that triggers an SMS.
		MinTier string `mapstructure:"min_tier"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	DedupeTTL int `mapstructure:"dedupe_ttl"` // milliseconds
}

// Enabled reports whether any notification channel is on.
func (n NotificationConfig) Enabled() bool {
	return n.Email.Enabled || n.SMS.Enabled
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health and metrics HTTP listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
