package iaq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		lowMax   int
		highMin  int
		expected RiskTier
	}{
		{"nine-factor zero", 0, 5, 9, TierLow},
		{"nine-factor 4", 4, 5, 9, TierLow},
		{"nine-factor 5", 5, 5, 9, TierModerate},
		{"nine-factor 8", 8, 5, 9, TierModerate},
		{"nine-factor 9", 9, 5, 9, TierHigh},
		{"nine-factor max", 14, 5, 9, TierHigh},
		{"eight-factor 3", 3, 4, 7, TierLow},
		{"eight-factor 4", 4, 4, 7, TierModerate},
		{"eight-factor 6", 6, 4, 7, TierModerate},
		{"eight-factor 7", 7, 4, 7, TierHigh},
		{"no moderate band", 3, 3, 3, TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierFor(tt.score, tt.lowMax, tt.highMin))
		})
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	for _, profile := range []ScoringProfile{NineFactorProfile(), EightFactorProfile()} {
		prev := -1
		for score := 0; score <= profile.MaxScore(); score++ {
			rank := TierFor(score, profile.LowMax, profile.HighMin).Rank()
			assert.GreaterOrEqual(t, rank, prev, "profile %s score %d", profile.Name, score)
			prev = rank
		}
	}
}

func TestPresets(t *testing.T) {
	nine := NineFactorProfile()
	assert.Len(t, nine.Factors, 9)
	assert.Equal(t, 14, nine.MaxScore())
	assert.True(t, nine.Has(FactorOccupants))
	assert.Equal(t, AgeRule{Threshold: 60, Inclusive: true}, nine.Age)

	eight := EightFactorProfile()
	assert.Len(t, eight.Factors, 8)
	assert.Equal(t, 12, eight.MaxScore())
	assert.False(t, eight.Has(FactorOccupants))
	assert.Equal(t, AgeRule{Threshold: 50}, eight.Age)
}

func TestMaxPoints(t *testing.T) {
	assert.Equal(t, 2, MaxPoints(FactorVentilation))
	assert.Equal(t, 1, MaxPoints(FactorHumidity))
	assert.Equal(t, 0, MaxPoints(Factor("Radon")))
}

func TestNewProfile(t *testing.T) {
	t.Run("orders factors canonically", func(t *testing.T) {
		p, err := NewProfile(" damp ", []Factor{FactorHumidity, FactorVentilation, FactorMold}, 2, 4, AgeRule{Threshold: 60})
		require.NoError(t, err)
		assert.Equal(t, "damp", p.Name)
		assert.Equal(t, []Factor{FactorVentilation, FactorMold, FactorHumidity}, p.Factors)
	})

	errorCases := []struct {
		name    string
		pname   string
		factors []Factor
		lowMax  int
		highMin int
		age     AgeRule
	}{
		{"empty name", "", []Factor{FactorMold}, 1, 2, AgeRule{}},
		{"no factors", "x", nil, 1, 2, AgeRule{}},
		{"unknown factor", "x", []Factor{"Radon"}, 1, 2, AgeRule{}},
		{"duplicate factor", "x", []Factor{FactorMold, FactorMold}, 1, 2, AgeRule{}},
		{"inverted thresholds", "x", []Factor{FactorMold}, 5, 2, AgeRule{}},
		{"negative lowMax", "x", []Factor{FactorMold}, -1, 2, AgeRule{}},
		{"age threshold out of range", "x", []Factor{FactorMold}, 1, 2, AgeRule{Threshold: 200}},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.pname, tt.factors, tt.lowMax, tt.highMin, tt.age)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		lookup   string
		expected string
	}{
		{"nine-factor", ProfileNineFactor},
		{"strict", ProfileNineFactor},
		{"Eight-Factor", ProfileEightFactor},
		{" simple ", ProfileEightFactor},
	}
	for _, tt := range tests {
		p, err := reg.Lookup(tt.lookup)
		require.NoError(t, err, tt.lookup)
		assert.Equal(t, tt.expected, p.Name)
	}

	_, err = reg.Lookup("lenient")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRegistry_LookupReturnsCopy(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	p, err := reg.Lookup(ProfileNineFactor)
	require.NoError(t, err)
	p.Factors[0] = FactorOccupants

	again, err := reg.Lookup(ProfileNineFactor)
	require.NoError(t, err)
	assert.Equal(t, FactorVentilation, again.Factors[0])
}

func TestRegistry_Custom(t *testing.T) {
	custom := ScoringProfile{
		Name:    "six-factor",
		Factors: []Factor{FactorVentilation, FactorMold, FactorDrying, FactorCooking, FactorBuildingAge, FactorHumidity},
		LowMax:  3,
		HighMin: 6,
		Age:     AgeRule{Threshold: 50},
	}

	reg, err := NewRegistry(custom)
	require.NoError(t, err)
	assert.Equal(t, []string{ProfileNineFactor, ProfileEightFactor, "six-factor"}, reg.Names())

	p, err := reg.Lookup("six-factor")
	require.NoError(t, err)
	assert.Equal(t, 3, p.LowMax)
	assert.Equal(t, FactorHumidity, p.Factors[4])

	_, err = NewRegistry(ScoringProfile{Name: "strict", Factors: []Factor{FactorMold}, LowMax: 1, HighMin: 2})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = NewRegistry(ScoringProfile{Name: "Nine-Factor", Factors: []Factor{FactorMold}, LowMax: 1, HighMin: 2})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = NewRegistry(ScoringProfile{Name: "broken", Factors: []Factor{FactorMold}, LowMax: 3, HighMin: 2})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestParseFactor(t *testing.T) {
	tests := []struct {
		input    string
		expected Factor
	}{
		{"building_age", FactorBuildingAge},
		{"Building age", FactorBuildingAge},
		{" MOLD ", FactorMold},
		{"Mold/Moisture", FactorMold},
		{"occupants", FactorOccupants},
	}
	for _, tt := range tests {
		f, err := ParseFactor(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, f)
	}

	_, err := ParseFactor("radon")
	assert.ErrorIs(t, err, ErrInvalidProfile)
}
