package iaq

// Input ranges accepted by Validate.
const (
	MinBuildingAge = 0
	MaxBuildingAge = 120
	MinOccupants   = 1
	MaxOccupants   = 12
	MinHumidity    = 20
	MaxHumidity    = 90
)

// Scoring thresholds.
const (
	HumidityThreshold      = 65
	OccupancyHighCount     = 4
	OccupancyElevatedCount = 3
)

// Recommendation texts in canonical emission order.
const (
	RecommendVentilation = "Improve airflow: open windows daily or consider installing fans/mechanical ventilation."
	RecommendMold        = "Identify and clean mold sources; reduce moisture (dehumidifier / ventilation)."
	RecommendDrying      = "Avoid or reduce indoor clothes drying; ventilate well if unavoidable."
	RecommendCooking     = "Ventilate while cooking (rangehood or open window), especially with gas."
	RecommendHeating     = "Avoid unflued gas heaters (release moisture/CO); prefer dry heat sources."
	RecommendInsulation  = "Improve/verify insulation to reduce damp and heat loss."
	RecommendHumidity    = "Keep indoor relative humidity below 60% via ventilation or dehumidifier."
	RecommendBuildingAge = "Older buildings are prone to dampness/poor insulation; consider assessment."
	RecommendOccupancy   = "Higher occupancy raises CO₂/moisture; ensure consistent ventilation."
	RecommendTenancy     = "Check applicable tenancy/housing-standard protections; request landlord remediation if needed."
)

var (
	ventilationPoints = map[Ventilation]int{
		VentilationNone:       2,
		VentilationWindowOnly: 1,
	}
	dryingPoints = map[DryingFrequency]int{
		DryingOften:     2,
		DryingSometimes: 1,
	}
	cookingPoints = map[CookingFuel]int{
		CookingGas: 1,
	}
	heatingPoints = map[HeatingType]int{
		HeatingPortableGasHeater: 2,
		HeatingNone:              1,
	}
	insulationPoints = map[InsulationStatus]int{
		InsulationPoor:    1,
		InsulationUnknown: 1,
	}
)

type factorRule struct {
	factor    Factor
	maxPoints int
	points    func(a SurveyAnswers, p ScoringProfile) int
}

// factorRules is ordered canonically; Evaluate emits scores in this order.
var factorRules = []factorRule{
	{FactorVentilation, 2, func(a SurveyAnswers, _ ScoringProfile) int {
		return ventilationPoints[a.Ventilation]
	}},
	{FactorMold, 2, func(a SurveyAnswers, _ ScoringProfile) int {
		if a.MoldPresent {
			return 2
		}
		return 0
	}},
	{FactorDrying, 2, func(a SurveyAnswers, _ ScoringProfile) int {
		return dryingPoints[a.DryingFrequency]
	}},
	{FactorCooking, 1, func(a SurveyAnswers, _ ScoringProfile) int {
		return cookingPoints[a.CookingFuel]
	}},
	{FactorHeating, 2, func(a SurveyAnswers, _ ScoringProfile) int {
		return heatingPoints[a.HeatingType]
	}},
	{FactorInsulation, 1, func(a SurveyAnswers, _ ScoringProfile) int {
		return insulationPoints[a.InsulationStatus]
	}},
	{FactorHumidity, 1, func(a SurveyAnswers, _ ScoringProfile) int {
		if a.HumidityPercent != nil && *a.HumidityPercent >= HumidityThreshold {
			return 1
		}
		return 0
	}},
	{FactorBuildingAge, 1, func(a SurveyAnswers, p ScoringProfile) int {
		if p.Age.Met(a.BuildingAgeYears) {
			return 1
		}
		return 0
	}},
	{FactorOccupants, 2, func(a SurveyAnswers, _ ScoringProfile) int {
		switch {
		case a.OccupantCount == nil:
			return 0
		case *a.OccupantCount >= OccupancyHighCount:
			return 2
		case *a.OccupantCount == OccupancyElevatedCount:
			return 1
		default:
			return 0
		}
	}},
}

type recommendationRule struct {
	// factor gates the rule on the profile; empty means always considered.
	factor  Factor
	text    string
	applies func(a SurveyAnswers, p ScoringProfile) bool
}

var recommendationRules = []recommendationRule{
	{FactorVentilation, RecommendVentilation, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.Ventilation == VentilationNone
	}},
	{FactorMold, RecommendMold, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.MoldPresent
	}},
	{FactorDrying, RecommendDrying, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.DryingFrequency == DryingSometimes || a.DryingFrequency == DryingOften
	}},
	{FactorCooking, RecommendCooking, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.CookingFuel == CookingGas
	}},
	{FactorHeating, RecommendHeating, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.HeatingType == HeatingPortableGasHeater
	}},
	{FactorInsulation, RecommendInsulation, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.InsulationStatus == InsulationPoor || a.InsulationStatus == InsulationUnknown
	}},
	{FactorHumidity, RecommendHumidity, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.HumidityPercent != nil && *a.HumidityPercent >= HumidityThreshold
	}},
	{FactorBuildingAge, RecommendBuildingAge, func(a SurveyAnswers, p ScoringProfile) bool {
		return a.BuildingAgeYears > p.Age.Threshold
	}},
	{FactorOccupants, RecommendOccupancy, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.OccupantCount != nil && *a.OccupantCount >= OccupancyHighCount
	}},
	{"", RecommendTenancy, func(a SurveyAnswers, _ ScoringProfile) bool {
		return a.IsRenter
	}},
}

// MaxPoints returns the most points a factor can contribute, or 0 for an
// unknown factor.
func MaxPoints(f Factor) int {
	for _, rule := range factorRules {
		if rule.factor == f {
			return rule.maxPoints
		}
	}
	return 0
}

func factorOrder(f Factor) int {
	for i, rule := range factorRules {
		if rule.factor == f {
			return i
		}
	}
	return -1
}
