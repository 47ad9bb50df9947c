package validation

import (
	"testing"

	"iaq-workers/internal/iaq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// formAnswers mirrors what the original questionnaire posts: labels, "Yes"/"No"
// radios and float numbers from a JSON decoder.
func formAnswers() map[string]interface{} {
	return map[string]interface{}{
		"room_name":         "Living Room",
		"num_occupants":     float64(2),
		"ventilation":       "Window only",
		"mold_presence":     "No",
		"drying_clothes":    "Sometimes",
		"cooking_type":      "Gas stove",
		"heating_type":      "Portable gas heater",
		"insulation_status": "Unknown",
		"humidity_level":    float64(60),
		"building_age":      float64(30),
		"is_renter":         "Yes",
	}
}

func codedAnswers() map[string]interface{} {
	return map[string]interface{}{
		"room":             "bedroom",
		"buildingAgeYears": 65,
		"occupantCount":    5,
		"ventilation":      "none",
		"moldPresent":      true,
		"dryingFrequency":  "often",
		"cookingFuel":      "gas",
		"heatingType":      "portable_gas_heater",
		"insulationStatus": "poor",
		"humidityPercent":  70,
		"isRenter":         true,
	}
}

// ==========================
// Normalisation Tests
// ==========================

func TestNormalizeSurvey_FormLabels(t *testing.T) {
	normalized := NormalizeSurvey(formAnswers())

	assert.Equal(t, map[string]interface{}{
		"room":             "living_room",
		"occupantCount":    2,
		"ventilation":      "window_only",
		"moldPresent":      false,
		"dryingFrequency":  "sometimes",
		"cookingFuel":      "gas",
		"heatingType":      "portable_gas_heater",
		"insulationStatus": "unknown",
		"humidityPercent":  60,
		"buildingAgeYears": 30,
		"isRenter":         true,
	}, normalized)
}

func TestNormalizeSurvey_Labels(t *testing.T) {
	tests := []struct {
		field    string
		label    string
		expected string
	}{
		{"ventilation", "No ventilation", "none"},
		{"ventilation", "Fan", "fan"},
		{"ventilation", "Mechanical ventilation", "mechanical"},
		{"ventilation", "HRV/ERV system", "hrv_erv"},
		{"cookingFuel", "Electric stove", "electric"},
		{"cookingFuel", "None", "none"},
		{"heatingType", "Heat pump", "heat_pump"},
		{"heatingType", "Electric heater", "electric"},
		{"heatingType", "Wood burner", "wood_burner"},
		{"insulationStatus", "Partial", "partial"},
		{"room", "Lounge", "living_room"},
		{"ventilation", "open door", "open_door"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			normalized := NormalizeSurvey(map[string]interface{}{tt.field: tt.label})
			assert.Equal(t, tt.expected, normalized[tt.field])
		})
	}
}

func TestNormalizeSurvey_LegacyGasFlag(t *testing.T) {
	assert.Equal(t, "gas", NormalizeSurvey(map[string]interface{}{"gasCooking": true})["cookingFuel"])
	assert.Equal(t, "none", NormalizeSurvey(map[string]interface{}{"gasCooking": "No"})["cookingFuel"])
	assert.Equal(t, "electric", NormalizeSurvey(map[string]interface{}{
		"gasCooking":  true,
		"cookingFuel": "electric",
	})["cookingFuel"])
}

func TestNormalizeSurvey_DropsNullsKeepsUnknownKeys(t *testing.T) {
	normalized := NormalizeSurvey(map[string]interface{}{
		"ventilation":     "fan",
		"favouriteColour": "green",
		"humidityPercent": nil,
	})

	assert.Equal(t, map[string]interface{}{
		"ventilation":     "fan",
		"favouriteColour": "green",
	}, normalized)
}

func TestNormalizeSurvey_NumericStrings(t *testing.T) {
	normalized := NormalizeSurvey(map[string]interface{}{
		"buildingAgeYears": " 45 ",
		"humidityPercent":  float64(64.5),
	})

	assert.Equal(t, 45, normalized["buildingAgeYears"])
	assert.Equal(t, 64.5, normalized["humidityPercent"])
}

func TestRoomFromLabel(t *testing.T) {
	assert.Equal(t, "bedroom", RoomFromLabel("Master Bedroom"))
	assert.Equal(t, "living_room", RoomFromLabel("Living Room"))
	assert.Equal(t, "kitchen", RoomFromLabel("kitchen/dining"))
	assert.Equal(t, "bathroom", RoomFromLabel("Upstairs bathroom"))
	assert.Equal(t, "other", RoomFromLabel("Garage"))
}

// ==========================
// ValidateSurvey Tests
// ==========================

func TestValidateSurvey_Valid(t *testing.T) {
	result, err := ValidateSurvey(codedAnswers(), iaq.NineFactorProfile())
	require.NoError(t, err)
	require.True(t, result.Validation.Valid, result.Validation.Summary())

	assert.Equal(t, iaq.RoomBedroom, result.Answers.Room)
	assert.Equal(t, 5, *result.Answers.OccupantCount)
	assert.Equal(t, iaq.HeatingPortableGasHeater, result.Answers.HeatingType)
	assert.Equal(t, 14, iaq.Evaluate(result.Answers, iaq.NineFactorProfile()).TotalScore)
}

func TestValidateSurvey_FormLabels(t *testing.T) {
	result, err := ValidateSurvey(formAnswers(), iaq.NineFactorProfile())
	require.NoError(t, err)
	require.True(t, result.Validation.Valid, result.Validation.Summary())

	assert.Equal(t, iaq.VentilationWindowOnly, result.Answers.Ventilation)
	assert.True(t, result.Answers.IsRenter)
	assert.False(t, result.Answers.MoldPresent)
}

func TestValidateSurvey_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		profile       iaq.ScoringProfile
		mutate        func(m map[string]interface{})
		expectedField string
		expectedCode  string
	}{
		{
			name:          "humidity above range",
			profile:       iaq.NineFactorProfile(),
			mutate:        func(m map[string]interface{}) { m["humidityPercent"] = 91 },
			expectedField: "humidityPercent",
			expectedCode:  "NUMBER_LTE",
		},
		{
			name:          "age below range",
			profile:       iaq.NineFactorProfile(),
			mutate:        func(m map[string]interface{}) { m["buildingAgeYears"] = -1 },
			expectedField: "buildingAgeYears",
			expectedCode:  "NUMBER_GTE",
		},
		{
			name:          "unknown heating",
			profile:       iaq.NineFactorProfile(),
			mutate:        func(m map[string]interface{}) { m["heatingType"] = "fireplace" },
			expectedField: "heatingType",
			expectedCode:  "ENUM",
		},
		{
			name:          "missing ventilation",
			profile:       iaq.NineFactorProfile(),
			mutate:        func(m map[string]interface{}) { delete(m, "ventilation") },
			expectedField: "ventilation",
			expectedCode:  "REQUIRED",
		},
		{
			name:          "mold as number",
			profile:       iaq.NineFactorProfile(),
			mutate:        func(m map[string]interface{}) { m["moldPresent"] = 1 },
			expectedField: "moldPresent",
			expectedCode:  "INVALID_TYPE",
		},
		{
			name:          "nine-factor needs occupants",
			profile:       iaq.NineFactorProfile(),
			mutate:        func(m map[string]interface{}) { delete(m, "occupantCount") },
			expectedField: "occupantCount",
			expectedCode:  CodeProfileRequirement,
		},
		{
			name:          "eight-factor needs humidity",
			profile:       iaq.EightFactorProfile(),
			mutate:        func(m map[string]interface{}) { delete(m, "humidityPercent") },
			expectedField: "humidityPercent",
			expectedCode:  CodeProfileRequirement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := codedAnswers()
			tt.mutate(raw)

			result, err := ValidateSurvey(raw, tt.profile)
			require.NoError(t, err)
			require.False(t, result.Validation.Valid)
			assert.Contains(t, result.Validation.Fields(), tt.expectedField)

			codes := make([]string, 0, len(result.Validation.Errors))
			for _, e := range result.Validation.Errors {
				codes = append(codes, e.Code)
			}
			assert.Contains(t, codes, tt.expectedCode)
		})
	}
}

func TestValidateSurvey_MisspelledKeyIsReported(t *testing.T) {
	raw := codedAnswers()
	raw["ventilaton"] = raw["ventilation"]
	delete(raw, "ventilation")

	result, err := ValidateSurvey(raw, iaq.NineFactorProfile())
	require.NoError(t, err)
	require.False(t, result.Validation.Valid)

	assert.Contains(t, result.Validation.Errors, ValidationError{
		Field:   "ventilaton",
		Message: "Additional property ventilaton is not allowed",
		Code:    "ADDITIONAL_PROPERTY_NOT_ALLOWED",
	})
	assert.Equal(t, []string{"ventilation", "ventilaton"}, result.Validation.Fields())
}

func TestValidateSurvey_EightFactorWithoutOccupants(t *testing.T) {
	raw := codedAnswers()
	delete(raw, "occupantCount")

	result, err := ValidateSurvey(raw, iaq.EightFactorProfile())
	require.NoError(t, err)
	assert.True(t, result.Validation.Valid)
	assert.Nil(t, result.Answers.OccupantCount)
}

func TestValidationResult_Summary(t *testing.T) {
	r := &ValidationResult{Valid: true}
	r.add("humidityPercent", "must be less than or equal to 90", "NUMBER_LTE")
	r.add("room", "is required", "REQUIRED")

	assert.False(t, r.Valid)
	assert.Equal(t, []string{"humidityPercent", "room"}, r.Fields())
	assert.Equal(t, "humidityPercent: must be less than or equal to 90; room: is required", r.Summary())
}
