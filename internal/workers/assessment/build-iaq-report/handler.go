package buildiaqreport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"iaq-workers/internal/common/errors"
	"iaq-workers/internal/common/logger"
	"iaq-workers/internal/iaq"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "build-iaq-report"
)

type Handler struct {
	config       *Config
	profiles     *iaq.Registry
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, profiles *iaq.Registry, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile registry is required")
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
		now:          time.Now,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		parseErr := errors.NewParseError(err)
		h.errorHandler.HandleJobError(ctx, client, job, parseErr)
		return parseErr
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return h.completeJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	profile, err := h.profiles.Lookup(input.Profile)
	if err != nil {
		return nil, errors.NewProfileNotFoundError(input.Profile)
	}

	if err := checkConsistency(input.AssessmentResult, profile); err != nil {
		return nil, errors.NewAssessmentInconsistentError(err.Error()).
			WithMetadata("assessmentId", input.AssessmentID)
	}

	report := Report{
		ReportID:        uuid.NewString(),
		AssessmentID:    input.AssessmentID,
		Title:           h.config.Title,
		RoomLabel:       roomLabel(input),
		Profile:         profile.Name,
		TotalScore:      input.TotalScore,
		MaxScore:        profile.MaxScore(),
		RiskTier:        input.RiskTier,
		Alert:           alerts[input.RiskTier],
		Breakdown:       breakdown(input.FactorScores),
		Recommendations: h.recommendations(input.Recommendations),
		Disclaimer:      Disclaimer,
		GeneratedAt:     h.now().UTC(),
	}

	h.logger.Info("report built", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"reportId":     report.ReportID,
		"riskTier":     report.RiskTier,
	})

	return &Output{Report: report, ReportSummary: Summarize(report)}, nil
}

// checkConsistency verifies the factor set matches the profile, every score
// is within its factor's range, the total is the sum and the tier matches.
func checkConsistency(result iaq.AssessmentResult, profile iaq.ScoringProfile) error {
	if len(result.FactorScores) != len(profile.Factors) {
		return fmt.Errorf("expected %d factor scores for profile %s, got %d",
			len(profile.Factors), profile.Name, len(result.FactorScores))
	}

	seen := make(map[iaq.Factor]bool, len(result.FactorScores))
	sum := 0
	for _, fs := range result.FactorScores {
		if !profile.Has(fs.Factor) {
			return fmt.Errorf("factor %q is not part of profile %s", fs.Factor, profile.Name)
		}
		if seen[fs.Factor] {
			return fmt.Errorf("factor %q scored twice", fs.Factor)
		}
		seen[fs.Factor] = true
		if fs.Points < 0 || fs.Points > iaq.MaxPoints(fs.Factor) {
			return fmt.Errorf("factor %q has %d points, allowed 0..%d", fs.Factor, fs.Points, iaq.MaxPoints(fs.Factor))
		}
		sum += fs.Points
	}

	if sum != result.TotalScore {
		return fmt.Errorf("total score %d does not equal factor sum %d", result.TotalScore, sum)
	}
	if want := iaq.TierFor(sum, profile.LowMax, profile.HighMin); want != result.RiskTier {
		return fmt.Errorf("risk tier %q does not match score %d (expected %q)", result.RiskTier, sum, want)
	}
	return nil
}

func roomLabel(input *Input) string {
	if label := strings.TrimSpace(input.RoomLabel); label != "" {
		return label
	}
	if input.SurveyAnswers != nil {
		if label, ok := roomLabels[input.SurveyAnswers.Room]; ok {
			return label
		}
	}
	return roomLabels[iaq.RoomOther]
}

func breakdown(scores []iaq.FactorScore) []BreakdownEntry {
	out := make([]BreakdownEntry, len(scores))
	for i, fs := range scores {
		out[i] = BreakdownEntry{Factor: fs.Factor, Points: fs.Points, MaxPoints: iaq.MaxPoints(fs.Factor)}
	}
	return out
}

func (h *Handler) recommendations(texts []string) []Recommendation {
	out := make([]Recommendation, len(texts))
	for i, text := range texts {
		out[i] = Recommendation{Text: text}
		if text == iaq.RecommendTenancy {
			out[i].Link = h.config.TenancyLink
		}
	}
	return out
}

// Summarize renders a report as plain text for email and SMS bodies.
func Summarize(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", r.Title, r.RoomLabel)
	fmt.Fprintf(&b, "%s (score %d of %d)\n", r.Alert.Message, r.TotalScore, r.MaxScore)
	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s", rec.Text)
			if rec.Link != "" {
				fmt.Fprintf(&b, " (%s)", rec.Link)
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\n%s\n", r.Disclaimer)
	return b.String()
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	return nil
}
