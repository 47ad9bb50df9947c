package iaq

// RiskTier is the ordinal classification of a total score.
type RiskTier string

const (
	TierLow      RiskTier = "Low"
	TierModerate RiskTier = "Moderate"
	TierHigh     RiskTier = "High"
)

// Rank orders tiers from Low (0) to High (2). Unknown tiers rank -1.
func (t RiskTier) Rank() int {
	switch t {
	case TierLow:
		return 0
	case TierModerate:
		return 1
	case TierHigh:
		return 2
	default:
		return -1
	}
}

func (t RiskTier) Valid() bool {
	return t.Rank() >= 0
}

// TierFor classifies a score: below lowMax is Low, at or above highMin is
// High, anything between is Moderate.
func TierFor(score, lowMax, highMin int) RiskTier {
	switch {
	case score < lowMax:
		return TierLow
	case score >= highMin:
		return TierHigh
	default:
		return TierModerate
	}
}
