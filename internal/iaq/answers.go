package iaq

import (
	"errors"
	"fmt"
)

// SurveyAnswers is one completed questionnaire. Nil pointers and empty enum
// values mean the question was not part of the survey.
type SurveyAnswers struct {
	Room             Room             `json:"room"`
	BuildingAgeYears int              `json:"buildingAgeYears"`
	OccupantCount    *int             `json:"occupantCount,omitempty"`
	Ventilation      Ventilation      `json:"ventilation"`
	MoldPresent      bool             `json:"moldPresent"`
	DryingFrequency  DryingFrequency  `json:"dryingFrequency"`
	CookingFuel      CookingFuel      `json:"cookingFuel"`
	HeatingType      HeatingType      `json:"heatingType,omitempty"`
	InsulationStatus InsulationStatus `json:"insulationStatus,omitempty"`
	HumidityPercent  *int             `json:"humidityPercent,omitempty"`
	IsRenter         bool             `json:"isRenter"`
}

// Field names used in validation errors. They match the JSON keys.
const (
	FieldRoom             = "room"
	FieldBuildingAgeYears = "buildingAgeYears"
	FieldOccupantCount    = "occupantCount"
	FieldVentilation      = "ventilation"
	FieldDryingFrequency  = "dryingFrequency"
	FieldCookingFuel      = "cookingFuel"
	FieldHeatingType      = "heatingType"
	FieldInsulationStatus = "insulationStatus"
	FieldHumidityPercent  = "humidityPercent"
)

// ErrInvalidInput is the kind shared by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the first survey field that failed validation.
type InvalidInputError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks answers against the accepted domains and against the
// fields the profile needs. Out of range values are rejected, never clamped.
func Validate(a SurveyAnswers, p ScoringProfile) error {
	if !a.Room.Valid() {
		return invalid(FieldRoom, a.Room, "is not a known room")
	}
	if a.BuildingAgeYears < MinBuildingAge || a.BuildingAgeYears > MaxBuildingAge {
		return invalid(FieldBuildingAgeYears, a.BuildingAgeYears, rangeReason(MinBuildingAge, MaxBuildingAge))
	}
	if a.OccupantCount == nil {
		if p.Has(FactorOccupants) {
			return invalid(FieldOccupantCount, nil, "is required by profile "+p.Name)
		}
	} else if *a.OccupantCount < MinOccupants || *a.OccupantCount > MaxOccupants {
		return invalid(FieldOccupantCount, *a.OccupantCount, rangeReason(MinOccupants, MaxOccupants))
	}
	if !a.Ventilation.Valid() {
		return invalid(FieldVentilation, a.Ventilation, "is not a known ventilation type")
	}
	if !a.DryingFrequency.Valid() {
		return invalid(FieldDryingFrequency, a.DryingFrequency, "is not a known drying frequency")
	}
	if !a.CookingFuel.Valid() {
		return invalid(FieldCookingFuel, a.CookingFuel, "is not a known cooking fuel")
	}
	if a.HeatingType == "" {
		if p.Has(FactorHeating) {
			return invalid(FieldHeatingType, nil, "is required by profile "+p.Name)
		}
	} else if !a.HeatingType.Valid() {
		return invalid(FieldHeatingType, a.HeatingType, "is not a known heating type")
	}
	if a.InsulationStatus == "" {
		if p.Has(FactorInsulation) {
			return invalid(FieldInsulationStatus, nil, "is required by profile "+p.Name)
		}
	} else if !a.InsulationStatus.Valid() {
		return invalid(FieldInsulationStatus, a.InsulationStatus, "is not a known insulation status")
	}
	if a.HumidityPercent == nil {
		if p.Has(FactorHumidity) {
			return invalid(FieldHumidityPercent, nil, "is required by profile "+p.Name)
		}
	} else if *a.HumidityPercent < MinHumidity || *a.HumidityPercent > MaxHumidity {
		return invalid(FieldHumidityPercent, *a.HumidityPercent, rangeReason(MinHumidity, MaxHumidity))
	}
	return nil
}

func invalid(field string, value interface{}, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

func rangeReason(lo, hi int) string {
	return fmt.Sprintf("must be between %d and %d", lo, hi)
}

// IntPtr is a convenience for filling optional integer answers.
func IntPtr(v int) *int {
	return &v
}
