package evaluateiaqrisk

import "iaq-workers/internal/iaq"

type Input struct {
	AssessmentID  string             `json:"assessmentId"`
	Profile       string             `json:"profile"`
	SurveyAnswers *iaq.SurveyAnswers `json:"surveyAnswers"`
}

// Output flattens the assessment into process variables.
type Output struct {
	AssessmentID string `json:"assessmentId"`
	iaq.AssessmentResult
}
