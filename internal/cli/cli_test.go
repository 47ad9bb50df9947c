package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iaq-workers/internal/iaq"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worstAnswers = `{
  "room_name": "Master Bedroom",
  "num_occupants": 5,
  "ventilation": "No ventilation",
  "mold_presence": "Yes",
  "drying_clothes": "Often",
  "cooking_type": "Gas stove",
  "heating_type": "Portable gas heater",
  "insulation_status": "Poor",
  "humidity_level": 70,
  "building_age": 65,
  "is_renter": "Yes"
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// ==========================
// Evaluate Tests
// ==========================

func TestEvaluate_Text(t *testing.T) {
	path := writeFile(t, "answers.json", worstAnswers)

	out, err := execute(t, "", "evaluate", "--answers", path)
	require.NoError(t, err)

	assert.Contains(t, out, "IAQ assessment (nine-factor profile)")
	assert.Contains(t, out, "Ventilation      2/2")
	assert.Contains(t, out, "Total            14/14")
	assert.Contains(t, out, "Risk tier        High")
	assert.Contains(t, out, "Recommendations")
}

func TestEvaluate_JSONFromStdin(t *testing.T) {
	out, err := execute(t, worstAnswers, "evaluate", "--answers", "-", "--profile", "simple", "--format", "json")
	require.NoError(t, err)

	var result iaq.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, iaq.ProfileEightFactor, result.Profile)
	assert.Len(t, result.FactorScores, 8)
	assert.Equal(t, 12, result.TotalScore)
	assert.Equal(t, iaq.TierHigh, result.RiskTier)
}

func TestEvaluate_DiagnosticsStayOffStdout(t *testing.T) {
	path := writeFile(t, "answers.json", worstAnswers)

	out, err := execute(t, "", "evaluate", "--log-level", "debug", "-a", path, "-f", "json")
	require.NoError(t, err)

	var result iaq.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, iaq.TierHigh, result.RiskTier)
}

func TestEvaluate_Errors(t *testing.T) {
	good := writeFile(t, "answers.json", worstAnswers)
	bad := writeFile(t, "bad.json", `{"ventilation": "Chimney", "building_age": 10}`)
	broken := writeFile(t, "broken.json", `{"ventilation":`)

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"missing flag", []string{"evaluate"}, "answers"},
		{"unknown format", []string{"evaluate", "-a", good, "-f", "yaml"}, "unknown format"},
		{"unknown profile", []string{"evaluate", "-a", good, "-p", "legacy"}, "not found"},
		{"missing file", []string{"evaluate", "-a", filepath.Join(t.TempDir(), "nope.json")}, "open answers"},
		{"malformed json", []string{"evaluate", "-a", broken}, "decode answers"},
		{"invalid answers", []string{"evaluate", "-a", bad}, "invalid answers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestEvaluate_CustomProfileFromConfig(t *testing.T) {
	cfg := writeFile(t, "config.yaml", `
assessment:
  default_profile: damp-only
  profiles:
    - name: damp-only
      factors: [mold, drying]
      low_max: 1
      high_min: 3
`)
	answers := writeFile(t, "answers.json", worstAnswers)

	out, err := execute(t, "", "evaluate", "--config", cfg, "-a", answers, "-f", "json")
	require.NoError(t, err)

	var result iaq.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "damp-only", result.Profile)
	assert.Equal(t, 4, result.TotalScore)
	assert.Equal(t, iaq.TierHigh, result.RiskTier)
}

// ==========================
// Profiles and Schema Tests
// ==========================

func TestProfiles(t *testing.T) {
	out, err := execute(t, "", "profiles")
	require.NoError(t, err)

	assert.Contains(t, out, "* nine-factor")
	assert.Contains(t, out, "  eight-factor")
	assert.Contains(t, out, "tiers: Low < 5 <= Moderate < 9 <= High (max 14)")
	assert.Contains(t, out, "building age point: age >= 60")
	assert.Contains(t, out, "building age point: age > 50")
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema, "properties")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestActivities_ExportAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")

	out, err := execute(t, "", "activities", "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	out, err = execute(t, "", "activities", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 4 activities")

	partial := writeFile(t, "partial.json", `{"activities":[{"id":"evaluate-iaq-risk","displayName":"Evaluate","taskType":"evaluate-iaq-risk","category":"assessment"}]}`)
	_, err = execute(t, "", "activities", "validate", "--path", partial)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate-iaq-survey")
}
