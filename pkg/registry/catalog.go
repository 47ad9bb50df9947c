package registry

import (
	"time"

	"iaq-workers/internal/common/errors"
	"iaq-workers/internal/common/validation"
	buildiaqreport "iaq-workers/internal/workers/assessment/build-iaq-report"
	evaluateiaqrisk "iaq-workers/internal/workers/assessment/evaluate-iaq-risk"
	notifyiaqassessment "iaq-workers/internal/workers/assessment/notify-iaq-assessment"
	validateiaqsurvey "iaq-workers/internal/workers/assessment/validate-iaq-survey"
)

const (
	catalogVersion = "1.0.0"
	category       = "assessment"
	workflow       = "iaq-self-assessment"
)

func object(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func typed(t string) map[string]interface{} {
	return map[string]interface{}{"type": t}
}

func codes(cs ...errors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

var resultProps = map[string]interface{}{
	"profile":         typed("string"),
	"factorScores":    typed("array"),
	"totalScore":      typed("integer"),
	"riskTier":        map[string]interface{}{"type": "string", "enum": []string{"Low", "Moderate", "High"}},
	"recommendations": typed("array"),
}

func withResult(extra map[string]interface{}) map[string]interface{} {
	props := make(map[string]interface{}, len(resultProps)+len(extra))
	for k, v := range resultProps {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// Catalog describes the assessment service tasks served by worker-manager.
func Catalog(now time.Time) *ActivityRegistry {
	return fill(&ActivityRegistry{
		Version:     catalogVersion,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities: []Activity{
			{
				ID:          validateiaqsurvey.TaskType,
				DisplayName: "Validate IAQ Survey",
				Description: "Normalises questionnaire answers and validates them against the scoring profile",
				TaskType:    validateiaqsurvey.TaskType,
				InputSchema: object([]string{"answers"}, map[string]interface{}{
					"assessmentId": typed("string"),
					"profile":      typed("string"),
					"answers":      validation.SurveySchema(),
				}),
				OutputSchema: object(nil, map[string]interface{}{
					"assessmentId":     typed("string"),
					"isValid":          typed("boolean"),
					"profile":          typed("string"),
					"surveyAnswers":    typed("object"),
					"validationErrors": typed("array"),
				}),
				ErrorCodes: codes(errors.ErrCodeInvalidInput, errors.ErrCodeProfileNotFound),
				Timeout:    "10s",
			},
			{
				ID:          evaluateiaqrisk.TaskType,
				DisplayName: "Evaluate IAQ Risk",
				Description: "Scores validated answers into factor points, a risk tier and recommendations",
				TaskType:    evaluateiaqrisk.TaskType,
				InputSchema: object([]string{"surveyAnswers"}, map[string]interface{}{
					"assessmentId":  typed("string"),
					"profile":       typed("string"),
					"surveyAnswers": typed("object"),
				}),
				OutputSchema: object(nil, withResult(map[string]interface{}{"assessmentId": typed("string")})),
				ErrorCodes:   codes(errors.ErrCodeInvalidInput, errors.ErrCodeProfileNotFound),
				Timeout:      "10s",
			},
			{
				ID:          buildiaqreport.TaskType,
				DisplayName: "Build IAQ Report",
				Description: "Checks the assessment for consistency and renders the report and summary",
				TaskType:    buildiaqreport.TaskType,
				InputSchema: object([]string{"riskTier", "factorScores"}, withResult(map[string]interface{}{
					"assessmentId":  typed("string"),
					"roomLabel":     typed("string"),
					"surveyAnswers": typed("object"),
				})),
				OutputSchema: object(nil, map[string]interface{}{
					"report":        typed("object"),
					"reportSummary": typed("string"),
				}),
				ErrorCodes: codes(errors.ErrCodeAssessmentInconsistent, errors.ErrCodeProfileNotFound),
				Timeout:    "10s",
			},
			{
				ID:          notifyiaqassessment.TaskType,
				DisplayName: "Notify IAQ Assessment",
				Description: "Sends the report summary by email and high risk alerts by SMS, once per assessment",
				TaskType:    notifyiaqassessment.TaskType,
				InputSchema: object([]string{"assessmentId", "riskTier"}, map[string]interface{}{
					"assessmentId":  typed("string"),
					"email":         typed("string"),
					"phone":         typed("string"),
					"riskTier":      typed("string"),
					"reportSummary": typed("string"),
					"report":        typed("object"),
				}),
				OutputSchema: object(nil, map[string]interface{}{
					"notificationId": typed("string"),
					"status":         typed("string"),
					"channels":       typed("array"),
					"sentAt":         typed("string"),
				}),
				ErrorCodes: codes(errors.ErrCodeInvalidInput, errors.ErrCodeNotificationSendFailed),
				Timeout:    "15s",
				Retries:    3,
			},
		},
	})
}

func fill(r *ActivityRegistry) *ActivityRegistry {
	for i := range r.Activities {
		a := &r.Activities[i]
		a.Category = category
		a.Version = catalogVersion
		a.ImplementationStatus = "completed"
		a.Workflows = []string{workflow}
		a.Tags = []string{"iaq", category}
	}
	return r
}
