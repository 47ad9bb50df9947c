package validateiaqsurvey

import (
	"iaq-workers/internal/common/validation"
	"iaq-workers/internal/iaq"
)

type Input struct {
	AssessmentID string                 `json:"assessmentId"`
	Profile      string                 `json:"profile"`
	Answers      map[string]interface{} `json:"answers"`
}

type Output struct {
	AssessmentID     string                       `json:"assessmentId"`
	IsValid          bool                         `json:"isValid"`
	Profile          string                       `json:"profile"`
	SurveyAnswers    iaq.SurveyAnswers            `json:"surveyAnswers"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}
