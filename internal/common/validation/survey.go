package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"iaq-workers/internal/iaq"
)

// Error codes added on top of the gojsonschema error types.
const (
	CodeProfileRequirement = "REQUIRED_BY_PROFILE"
	CodeInvalidInput       = "INVALID_INPUT"
)

// keyAliases maps alternative answer keys onto the canonical JSON keys.
var keyAliases = map[string]string{
	"room_type":         iaq.FieldRoom,
	"roomType":          iaq.FieldRoom,
	"building_age":      iaq.FieldBuildingAgeYears,
	"buildingAge":       iaq.FieldBuildingAgeYears,
	"occupants":         iaq.FieldOccupantCount,
	"num_occupants":     iaq.FieldOccupantCount,
	"mold_presence":     "moldPresent",
	"mold":              "moldPresent",
	"drying_clothes":    iaq.FieldDryingFrequency,
	"cooking_type":      iaq.FieldCookingFuel,
	"heating_type":      iaq.FieldHeatingType,
	"insulation_status": iaq.FieldInsulationStatus,
	"humidity":          iaq.FieldHumidityPercent,
	"humidity_level":    iaq.FieldHumidityPercent,
	"is_renter":         "isRenter",
	"renter":            "isRenter",
}

// labelAliases maps form labels, already folded by foldLabel, onto codes.
var labelAliases = map[string]map[string]string{
	iaq.FieldRoom: {
		"living":  string(iaq.RoomLivingRoom),
		"lounge":  string(iaq.RoomLivingRoom),
		"bed":     string(iaq.RoomBedroom),
		"kitchen": string(iaq.RoomKitchen),
	},
	iaq.FieldVentilation: {
		"no_ventilation":         string(iaq.VentilationNone),
		"mechanical_ventilation": string(iaq.VentilationMechanical),
		"hrv_erv_system":         string(iaq.VentilationHRVERV),
		"hrv":                    string(iaq.VentilationHRVERV),
		"erv":                    string(iaq.VentilationHRVERV),
	},
	iaq.FieldCookingFuel: {
		"electric_stove": string(iaq.CookingElectric),
		"gas_stove":      string(iaq.CookingGas),
	},
	iaq.FieldHeatingType: {
		"electric_heater":    string(iaq.HeatingElectric),
		"gas_heater":         string(iaq.HeatingPortableGasHeater),
		"unflued_gas_heater": string(iaq.HeatingPortableGasHeater),
		"heatpump":           string(iaq.HeatingHeatPump),
		"log_burner":         string(iaq.HeatingWoodBurner),
		"no_heating":         string(iaq.HeatingNone),
	},
}

var (
	enumFields    = []string{iaq.FieldRoom, iaq.FieldVentilation, iaq.FieldDryingFrequency, iaq.FieldCookingFuel, iaq.FieldHeatingType, iaq.FieldInsulationStatus}
	integerFields = []string{iaq.FieldBuildingAgeYears, iaq.FieldOccupantCount, iaq.FieldHumidityPercent}
	booleanFields = []string{"moldPresent", "isRenter"}
)

// SurveySchema returns the JSON schema for normalised survey answers. Enum
// values and ranges come from the scoring engine.
func SurveySchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []interface{}{
			iaq.FieldRoom, iaq.FieldBuildingAgeYears, iaq.FieldVentilation, "moldPresent",
			iaq.FieldDryingFrequency, iaq.FieldCookingFuel, "isRenter",
		},
		"additionalProperties": false,
		"properties": map[string]interface{}{
			iaq.FieldRoom:             enumProperty(iaq.RoomValues()),
			iaq.FieldBuildingAgeYears: intProperty(iaq.MinBuildingAge, iaq.MaxBuildingAge),
			iaq.FieldOccupantCount:    intProperty(iaq.MinOccupants, iaq.MaxOccupants),
			iaq.FieldVentilation:      enumProperty(iaq.VentilationValues()),
			"moldPresent":             map[string]interface{}{"type": "boolean"},
			iaq.FieldDryingFrequency:  enumProperty(iaq.DryingValues()),
			iaq.FieldCookingFuel:      enumProperty(iaq.CookingValues()),
			iaq.FieldHeatingType:      enumProperty(iaq.HeatingValues()),
			iaq.FieldInsulationStatus: enumProperty(iaq.InsulationValues()),
			iaq.FieldHumidityPercent:  intProperty(iaq.MinHumidity, iaq.MaxHumidity),
			"isRenter":                map[string]interface{}{"type": "boolean"},
		},
	}
}

func enumProperty[T ~string](values []T) map[string]interface{} {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return map[string]interface{}{"type": "string", "enum": enum}
}

func intProperty(lo, hi int) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": lo, "maximum": hi}
}

var surveySchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return CompileSchema(SurveySchema())
})

// SurveyResult is the outcome of ValidateSurvey. Answers is only meaningful
// when Validation.Valid is true.
type SurveyResult struct {
	Answers    iaq.SurveyAnswers      `json:"answers"`
	Normalized map[string]interface{} `json:"normalized"`
	Validation *ValidationResult      `json:"validation"`
}

// ValidateSurvey normalises raw answers, validates them against the survey
// schema and then against the fields the profile requires. The returned
// error is reserved for failures unrelated to the answers themselves.
func ValidateSurvey(raw map[string]interface{}, profile iaq.ScoringProfile) (*SurveyResult, error) {
	schema, err := surveySchema()
	if err != nil {
		return nil, err
	}

	normalized := NormalizeSurvey(raw)
	result, err := ValidateDocument(schema, normalized)
	if err != nil {
		return nil, err
	}
	out := &SurveyResult{Normalized: normalized, Validation: result}
	if !result.Valid {
		return out, nil
	}

	answers, err := DecodeSurvey(normalized)
	if err != nil {
		return nil, err
	}
	out.Answers = answers

	if err := iaq.Validate(answers, profile); err != nil {
		var invalid *iaq.InvalidInputError
		if !errors.As(err, &invalid) {
			return nil, err
		}
		code := CodeInvalidInput
		if invalid.Value == nil {
			code = CodeProfileRequirement
		}
		result.add(invalid.Field, invalid.Reason, code)
	}
	return out, nil
}

// DecodeSurvey converts a normalised answer map into SurveyAnswers.
func DecodeSurvey(doc map[string]interface{}) (iaq.SurveyAnswers, error) {
	var answers iaq.SurveyAnswers
	data, err := json.Marshal(doc)
	if err != nil {
		return answers, fmt.Errorf("encode answers: %w", err)
	}
	if err := json.Unmarshal(data, &answers); err != nil {
		return answers, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

// NormalizeSurvey maps alternative keys, form labels, "Yes"/"No" strings,
// numeric strings and the legacy gasCooking flag onto the canonical answer
// encoding. Null answers are dropped. Unknown keys and values are passed
// through so the schema reports them.
func NormalizeSurvey(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	var gasCooking interface{}
	var roomLabel string

	for key, value := range raw {
		if value == nil {
			continue
		}
		switch key {
		case "gasCooking", "gas_cooking", "gas_used":
			gasCooking = value
			continue
		case "roomLabel", "room_name":
			roomLabel, _ = value.(string)
			continue
		}
		if canonical, ok := keyAliases[key]; ok {
			key = canonical
		}
		out[key] = value
	}

	for _, field := range enumFields {
		if s, ok := out[field].(string); ok {
			out[field] = normalizeLabel(field, s)
		}
	}
	for _, field := range integerFields {
		if v, ok := toInt(out[field]); ok {
			out[field] = v
		}
	}
	for _, field := range booleanFields {
		if b, ok := toBool(out[field]); ok {
			out[field] = b
		}
	}

	if _, ok := out[iaq.FieldCookingFuel]; !ok && gasCooking != nil {
		if gas, ok := toBool(gasCooking); ok {
			if gas {
				out[iaq.FieldCookingFuel] = string(iaq.CookingGas)
			} else {
				out[iaq.FieldCookingFuel] = string(iaq.CookingNone)
			}
		}
	}

	if _, ok := out[iaq.FieldRoom]; !ok && roomLabel != "" {
		out[iaq.FieldRoom] = RoomFromLabel(roomLabel)
	}

	return out
}

// RoomFromLabel guesses the room type from a free-text label such as
// "Master Bedroom". Labels that match nothing are "other".
func RoomFromLabel(label string) string {
	folded := foldLabel(label)
	for _, room := range iaq.RoomValues() {
		if strings.Contains(folded, string(room)) {
			return string(room)
		}
	}
	for alias, code := range labelAliases[iaq.FieldRoom] {
		if strings.Contains(folded, alias) {
			return code
		}
	}
	return string(iaq.RoomOther)
}

func normalizeLabel(field, s string) string {
	folded := foldLabel(s)
	if code, ok := labelAliases[field][folded]; ok {
		return code
	}
	return folded
}

// foldLabel lowercases and joins words with underscores:
// "HRV/ERV system" becomes "hrv_erv_system".
func foldLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-' || r == '_'
	}), "_")
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "y", "true":
			return true, true
		case "no", "n", "false":
			return false, true
		}
	}
	return false, false
}
