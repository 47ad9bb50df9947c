package evaluateiaqrisk

import (
	"context"
	"encoding/json"
	"fmt"

	"iaq-workers/internal/common/errors"
	"iaq-workers/internal/common/logger"
	"iaq-workers/internal/common/metrics"
	"iaq-workers/internal/iaq"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "evaluate-iaq-risk"
)

type Handler struct {
	config       *Config
	profiles     *iaq.Registry
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
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
	name := input.Profile
	if name == "" {
		name = h.config.DefaultProfile
	}
	profile, err := h.profiles.Lookup(name)
	if err != nil {
		return nil, errors.NewProfileNotFoundError(name)
	}

	if input.SurveyAnswers == nil {
		return nil, errors.NewInvalidInputError("surveyAnswers", "survey answers are required")
	}

	result, err := iaq.Assess(*input.SurveyAnswers, profile)
	if err != nil {
		return nil, errors.FromEngineError(err).WithMetadata("assessmentId", input.AssessmentID)
	}

	metrics.RecordAssessment(result.Profile, string(result.RiskTier), result.TotalScore)

	h.logger.Info("assessment scored", map[string]interface{}{
		"assessmentId":    input.AssessmentID,
		"profile":         result.Profile,
		"totalScore":      result.TotalScore,
		"riskTier":        result.RiskTier,
		"recommendations": len(result.Recommendations),
	})

	return &Output{
		AssessmentID:     input.AssessmentID,
		AssessmentResult: result,
	}, nil
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
