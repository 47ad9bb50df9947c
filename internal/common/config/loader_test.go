package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"iaq-workers/internal/iaq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const baseYAML = `
app:
  name: iaq-workers
camunda:
  broker_address: localhost:26500
  use_plaintext: true
workers:
  evaluate-iaq-risk:
    enabled: true
    max_jobs_active: 20
  notify-iaq-assessment:
    enabled: false
assessment:
  default_profile: strict
  profiles:
    - name: six-factor
      factors: [ventilation, mold, drying, cooking, building_age, humidity]
      low_max: 3
      high_min: 6
      age_threshold: 50
`

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.True(t, cfg.Camunda.UsePlaintext)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)

	evalCfg := cfg.Workers["evaluate-iaq-risk"]
	assert.True(t, evalCfg.Enabled)
	assert.Equal(t, 20, evalCfg.MaxJobsActive)
	assert.Equal(t, 10000, evalCfg.Timeout)
	assert.Equal(t, 3, evalCfg.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "notify-iaq-assessment"))
	assert.True(t, IsWorkerEnabled(cfg, "build-iaq-report"))

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "High", cfg.Notifications.SMS.MinTier)
	assert.Equal(t, 24*time.Hour, GetDuration(cfg.Notifications.DedupeTTL))

	reg, err := cfg.Assessment.Registry()
	require.NoError(t, err)
	p, err := reg.Lookup("six-factor")
	require.NoError(t, err)
	assert.Len(t, p.Factors, 6)
	assert.Equal(t, iaq.AgeRule{Threshold: 50}, p.Age)
}

func TestLoadFromFile_EnvExpansionAndOverride(t *testing.T) {
	t.Setenv("IAQ_REDIS_PASSWORD", "s3cret")
	t.Setenv("CAMUNDA_BROKER_ADDRESS", "zeebe:26500")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML+`
redis:
  address: localhost:6379
  password: ${IAQ_REDIS_PASSWORD}
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Redis.Password)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		errContains string
	}{
		{
			name:        "missing broker",
			yaml:        "app:\n  name: x\n",
			errContains: "camunda.broker_address",
		},
		{
			name: "unknown default profile",
			yaml: `
camunda:
  broker_address: localhost:26500
assessment:
  default_profile: lenient
`,
			errContains: "default_profile",
		},
		{
			name: "bad custom profile",
			yaml: `
camunda:
  broker_address: localhost:26500
assessment:
  profiles:
    - name: radon
      factors: [radon]
      low_max: 1
      high_min: 2
`,
			errContains: "unknown factor",
		},
		{
			name: "email without sender",
			yaml: `
camunda:
  broker_address: localhost:26500
notifications:
  email:
    enabled: true
`,
			errContains: "from_email",
		},
		{
			name: "notifications without redis",
			yaml: `
camunda:
  broker_address: localhost:26500
notifications:
  sms:
    enabled: true
  aws:
    region: ap-southeast-2
`,
			errContains: "redis.address",
		},
		{
			name: "bad sms tier",
			yaml: `
camunda:
  broker_address: localhost:26500
notifications:
  sms:
    min_tier: Severe
`,
			errContains: "min_tier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	wc := GetWorkerConfig(cfg, "validate-iaq-survey")

	assert.True(t, wc.Enabled)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 10*time.Second, GetDuration(wc.Timeout))
}

func TestLoadAssessment(t *testing.T) {
	a, err := LoadAssessment(writeConfig(t, `
assessment:
  profiles:
    - name: damp-only
      factors: [mold, drying]
      low_max: 1
      high_min: 3
`))
	require.NoError(t, err)
	assert.Equal(t, iaq.ProfileNineFactor, a.DefaultProfile)

	reg, err := a.Registry()
	require.NoError(t, err)
	p, err := reg.Lookup("damp-only")
	require.NoError(t, err)
	assert.Equal(t, []iaq.Factor{iaq.FactorMold, iaq.FactorDrying}, p.Factors)

	_, err = LoadAssessment(writeConfig(t, "assessment:\n  default_profile: legacy\n"))
	assert.Error(t, err)
}
