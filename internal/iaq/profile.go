package iaq

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Factor names a scored risk factor. The string is the display name used in
// factor scores and report breakdowns.
type Factor string

const (
	FactorVentilation Factor = "Ventilation"
	FactorMold        Factor = "Mold/Moisture"
	FactorDrying      Factor = "Drying habits"
	FactorCooking     Factor = "Cooking source"
	FactorHeating     Factor = "Heating type"
	FactorInsulation  Factor = "Insulation"
	FactorHumidity    Factor = "Humidity"
	FactorBuildingAge Factor = "Building age"
	FactorOccupants   Factor = "Occupants"
)

var factorKeys = map[string]Factor{
	"ventilation":  FactorVentilation,
	"mold":         FactorMold,
	"drying":       FactorDrying,
	"cooking":      FactorCooking,
	"heating":      FactorHeating,
	"insulation":   FactorInsulation,
	"humidity":     FactorHumidity,
	"building_age": FactorBuildingAge,
	"occupants":    FactorOccupants,
}

// ParseFactor accepts a config key such as "building_age" or a display name
// such as "Building age".
func ParseFactor(s string) (Factor, error) {
	key := normalizeName(s)
	if f, ok := factorKeys[key]; ok {
		return f, nil
	}
	for _, f := range factorKeys {
		if normalizeName(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown factor %q", ErrInvalidProfile, s)
}

// Profile names and their aliases.
const (
	ProfileNineFactor  = "nine-factor"
	ProfileEightFactor = "eight-factor"
	AliasStrict        = "strict"
	AliasSimple        = "simple"
)

var (
	ErrInvalidProfile  = errors.New("invalid scoring profile")
	ErrProfileNotFound = errors.New("scoring profile not found")
)

// AgeRule decides when the building age factor scores.
type AgeRule struct {
	Threshold int  `json:"threshold" mapstructure:"threshold"`
	Inclusive bool `json:"inclusive" mapstructure:"inclusive"`
}

// Met reports whether a building of the given age scores the age point.
func (r AgeRule) Met(age int) bool {
	if r.Inclusive {
		return age >= r.Threshold
	}
	return age > r.Threshold
}

// ScoringProfile selects the active factors and the tier thresholds.
// Factors are always kept in canonical order.
type ScoringProfile struct {
	Name    string   `json:"name"`
	Factors []Factor `json:"factors"`
	LowMax  int      `json:"lowMax"`
	HighMin int      `json:"highMin"`
	Age     AgeRule  `json:"age"`
}

// Has reports whether the factor is active in the profile.
func (p ScoringProfile) Has(f Factor) bool {
	return slices.Contains(p.Factors, f)
}

// MaxScore is the highest total the profile can produce.
func (p ScoringProfile) MaxScore() int {
	total := 0
	for _, f := range p.Factors {
		total += MaxPoints(f)
	}
	return total
}

func (p ScoringProfile) clone() ScoringProfile {
	p.Factors = append([]Factor(nil), p.Factors...)
	return p
}

// AllFactors returns every factor in canonical order.
func AllFactors() []Factor {
	out := make([]Factor, len(factorRules))
	for i, rule := range factorRules {
		out[i] = rule.factor
	}
	return out
}

// NineFactorProfile scores every factor including occupancy.
func NineFactorProfile() ScoringProfile {
	return ScoringProfile{
		Name:    ProfileNineFactor,
		Factors: AllFactors(),
		LowMax:  5,
		HighMin: 9,
		Age:     AgeRule{Threshold: 60, Inclusive: true},
	}
}

// EightFactorProfile omits occupancy and uses the lower thresholds.
func EightFactorProfile() ScoringProfile {
	factors := make([]Factor, 0, len(factorRules)-1)
	for _, f := range AllFactors() {
		if f != FactorOccupants {
			factors = append(factors, f)
		}
	}
	return ScoringProfile{
		Name:    ProfileEightFactor,
		Factors: factors,
		LowMax:  4,
		HighMin: 7,
		Age:     AgeRule{Threshold: 50},
	}
}

// NewProfile builds a custom profile. Factors may be given in any order.
func NewProfile(name string, factors []Factor, lowMax, highMin int, age AgeRule) (ScoringProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ScoringProfile{}, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if len(factors) == 0 {
		return ScoringProfile{}, fmt.Errorf("%w: %s: at least one factor is required", ErrInvalidProfile, name)
	}
	if lowMax < 0 || lowMax > highMin {
		return ScoringProfile{}, fmt.Errorf("%w: %s: thresholds must satisfy 0 <= lowMax (%d) <= highMin (%d)",
			ErrInvalidProfile, name, lowMax, highMin)
	}
	if age.Threshold < MinBuildingAge || age.Threshold > MaxBuildingAge {
		return ScoringProfile{}, fmt.Errorf("%w: %s: age threshold %d out of range", ErrInvalidProfile, name, age.Threshold)
	}

	seen := make(map[Factor]bool, len(factors))
	for _, f := range factors {
		if factorOrder(f) < 0 {
			return ScoringProfile{}, fmt.Errorf("%w: %s: unknown factor %q", ErrInvalidProfile, name, f)
		}
		if seen[f] {
			return ScoringProfile{}, fmt.Errorf("%w: %s: duplicate factor %q", ErrInvalidProfile, name, f)
		}
		seen[f] = true
	}

	ordered := append([]Factor(nil), factors...)
	sort.Slice(ordered, func(i, j int) bool { return factorOrder(ordered[i]) < factorOrder(ordered[j]) })

	return ScoringProfile{Name: name, Factors: ordered, LowMax: lowMax, HighMin: highMin, Age: age}, nil
}

// Registry resolves profiles by name or alias. It is immutable once built.
type Registry struct {
	profiles map[string]ScoringProfile
	aliases  map[string]string
	names    []string
}

// NewRegistry returns a registry holding both presets plus the given custom
// profiles. Custom names may not shadow a preset or an alias.
func NewRegistry(custom ...ScoringProfile) (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]ScoringProfile),
		aliases: map[string]string{
			AliasStrict: ProfileNineFactor,
			AliasSimple: ProfileEightFactor,
		},
	}
	r.add(NineFactorProfile())
	r.add(EightFactorProfile())

	for _, p := range custom {
		key := normalizeName(p.Name)
		if _, exists := r.profiles[key]; exists {
			return nil, fmt.Errorf("%w: duplicate profile name %q", ErrInvalidProfile, p.Name)
		}
		if _, exists := r.aliases[key]; exists {
			return nil, fmt.Errorf("%w: profile name %q is reserved", ErrInvalidProfile, p.Name)
		}
		checked, err := NewProfile(p.Name, p.Factors, p.LowMax, p.HighMin, p.Age)
		if err != nil {
			return nil, err
		}
		r.add(checked)
	}
	return r, nil
}

func (r *Registry) add(p ScoringProfile) {
	r.profiles[normalizeName(p.Name)] = p
	r.names = append(r.names, p.Name)
}

// Lookup resolves a profile by name or alias, ignoring case.
func (r *Registry) Lookup(name string) (ScoringProfile, error) {
	key := normalizeName(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	p, ok := r.profiles[key]
	if !ok {
		return ScoringProfile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p.clone(), nil
}

// Names lists profile names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
