// Package iaq scores indoor air quality survey answers into a risk tier and
// a list of recommendations. Everything here is pure and safe for
// concurrent use.
package iaq

// FactorScore is the contribution of one factor to the total.
type FactorScore struct {
	Factor Factor `json:"factor"`
	Points int    `json:"points"`
}

// AssessmentResult is the outcome of scoring one survey.
type AssessmentResult struct {
	Profile         string        `json:"profile"`
	FactorScores    []FactorScore `json:"factorScores"`
	TotalScore      int           `json:"totalScore"`
	RiskTier        RiskTier      `json:"riskTier"`
	Recommendations []string      `json:"recommendations"`
}

// Evaluate scores answers under profile. It assumes the answers have been
// validated; missing optional answers score zero.
func Evaluate(answers SurveyAnswers, profile ScoringProfile) AssessmentResult {
	scores := make([]FactorScore, 0, len(profile.Factors))
	total := 0
	for _, rule := range factorRules {
		if !profile.Has(rule.factor) {
			continue
		}
		points := rule.points(answers, profile)
		scores = append(scores, FactorScore{Factor: rule.factor, Points: points})
		total += points
	}

	return AssessmentResult{
		Profile:         profile.Name,
		FactorScores:    scores,
		TotalScore:      total,
		RiskTier:        TierFor(total, profile.LowMax, profile.HighMin),
		Recommendations: recommend(answers, profile),
	}
}

// Assess validates then evaluates.
func Assess(answers SurveyAnswers, profile ScoringProfile) (AssessmentResult, error) {
	if err := Validate(answers, profile); err != nil {
		return AssessmentResult{}, err
	}
	return Evaluate(answers, profile), nil
}

func recommend(answers SurveyAnswers, profile ScoringProfile) []string {
	out := make([]string, 0, len(recommendationRules))
	seen := make(map[string]bool, len(recommendationRules))
	for _, rule := range recommendationRules {
		if rule.factor != "" && !profile.Has(rule.factor) {
			continue
		}
		if seen[rule.text] || !rule.applies(answers, profile) {
			continue
		}
		seen[rule.text] = true
		out = append(out, rule.text)
	}
	return out
}
