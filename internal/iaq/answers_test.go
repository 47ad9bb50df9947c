package iaq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(fullRiskAnswers(), NineFactorProfile()))
	assert.NoError(t, Validate(minimalRiskAnswers(), EightFactorProfile()))

	noOccupants := minimalRiskAnswers()
	noOccupants.OccupantCount = nil
	assert.NoError(t, Validate(noOccupants, EightFactorProfile()))

	edges := minimalRiskAnswers()
	edges.BuildingAgeYears = 120
	edges.OccupantCount = IntPtr(12)
	edges.HumidityPercent = IntPtr(20)
	assert.NoError(t, Validate(edges, NineFactorProfile()))
}

func TestValidate_InvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		profile       ScoringProfile
		mutate        func(a *SurveyAnswers)
		expectedField string
	}{
		{"empty room", NineFactorProfile(), func(a *SurveyAnswers) { a.Room = "" }, FieldRoom},
		{"unknown room", NineFactorProfile(), func(a *SurveyAnswers) { a.Room = "garage" }, FieldRoom},
		{"negative age", NineFactorProfile(), func(a *SurveyAnswers) { a.BuildingAgeYears = -1 }, FieldBuildingAgeYears},
		{"age over range", NineFactorProfile(), func(a *SurveyAnswers) { a.BuildingAgeYears = 121 }, FieldBuildingAgeYears},
		{"zero occupants", NineFactorProfile(), func(a *SurveyAnswers) { a.OccupantCount = IntPtr(0) }, FieldOccupantCount},
		{"too many occupants", EightFactorProfile(), func(a *SurveyAnswers) { a.OccupantCount = IntPtr(13) }, FieldOccupantCount},
		{"missing occupants", NineFactorProfile(), func(a *SurveyAnswers) { a.OccupantCount = nil }, FieldOccupantCount},
		{"unknown ventilation", NineFactorProfile(), func(a *SurveyAnswers) { a.Ventilation = "open_door" }, FieldVentilation},
		{"empty drying", NineFactorProfile(), func(a *SurveyAnswers) { a.DryingFrequency = "" }, FieldDryingFrequency},
		{"unknown cooking", NineFactorProfile(), func(a *SurveyAnswers) { a.CookingFuel = "coal" }, FieldCookingFuel},
		{"missing heating", NineFactorProfile(), func(a *SurveyAnswers) { a.HeatingType = "" }, FieldHeatingType},
		{"unknown heating", NineFactorProfile(), func(a *SurveyAnswers) { a.HeatingType = "fireplace" }, FieldHeatingType},
		{"missing insulation", EightFactorProfile(), func(a *SurveyAnswers) { a.InsulationStatus = "" }, FieldInsulationStatus},
		{"humidity below range", NineFactorProfile(), func(a *SurveyAnswers) { a.HumidityPercent = IntPtr(19) }, FieldHumidityPercent},
		{"humidity above range", NineFactorProfile(), func(a *SurveyAnswers) { a.HumidityPercent = IntPtr(91) }, FieldHumidityPercent},
		{"missing humidity", NineFactorProfile(), func(a *SurveyAnswers) { a.HumidityPercent = nil }, FieldHumidityPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := minimalRiskAnswers()
			tt.mutate(&answers)

			err := Validate(answers, tt.profile)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var invalidErr *InvalidInputError
			require.True(t, errors.As(err, &invalidErr))
			assert.Equal(t, tt.expectedField, invalidErr.Field)
			assert.Contains(t, err.Error(), tt.expectedField)
		})
	}
}

func TestValidate_OptionalFieldsOutsideProfile(t *testing.T) {
	profile, err := NewProfile("core", []Factor{FactorVentilation, FactorMold}, 1, 3, AgeRule{Threshold: 60})
	require.NoError(t, err)

	answers := minimalRiskAnswers()
	answers.OccupantCount = nil
	answers.HeatingType = ""
	answers.InsulationStatus = ""
	answers.HumidityPercent = nil

	assert.NoError(t, Validate(answers, profile))

	answers.HumidityPercent = IntPtr(95)
	assert.ErrorIs(t, Validate(answers, profile), ErrInvalidInput)
}

func TestEnums_Valid(t *testing.T) {
	for _, v := range VentilationValues() {
		assert.True(t, v.Valid(), string(v))
	}
	for _, r := range RoomValues() {
		assert.True(t, r.Valid(), string(r))
	}
	assert.Len(t, DryingValues(), 3)
	assert.Len(t, CookingValues(), 3)
	assert.Len(t, HeatingValues(), 5)
	assert.Len(t, InsulationValues(), 4)
	assert.False(t, Ventilation("None").Valid())
	assert.False(t, HeatingType("").Valid())
}
