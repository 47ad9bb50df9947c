package validateiaqsurvey

import (
	"context"
	"encoding/json"
	"fmt"

	"iaq-workers/internal/common/errors"
	"iaq-workers/internal/common/logger"
	"iaq-workers/internal/common/validation"
	"iaq-workers/internal/iaq"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "validate-iaq-survey"
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
	if _, err := profiles.Lookup(config.DefaultProfile); err != nil {
		return nil, fmt.Errorf("default profile: %w", err)
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

	if len(input.Answers) == 0 {
		return nil, errors.NewInvalidInputError("answers", "survey answers are required")
	}

	assessmentID := input.AssessmentID
	if assessmentID == "" {
		assessmentID = uuid.NewString()
	}

	result, err := validation.ValidateSurvey(input.Answers, profile)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if !result.Validation.Valid {
		h.logger.Warn("survey rejected", map[string]interface{}{
			"assessmentId":  assessmentID,
			"profile":       profile.Name,
			"invalidFields": result.Validation.Fields(),
		})
		return nil, errors.NewInvalidInputError(result.Validation.Fields()[0], result.Validation.Summary()).
			WithMetadata("assessmentId", assessmentID).
			WithMetadata("invalidFields", result.Validation.Fields()).
			WithMetadata("validationErrors", result.Validation.Errors)
	}

	h.logger.Info("survey validated", map[string]interface{}{
		"assessmentId": assessmentID,
		"profile":      profile.Name,
	})

	return &Output{
		AssessmentID:     assessmentID,
		IsValid:          true,
		Profile:          profile.Name,
		SurveyAnswers:    result.Answers,
		ValidationErrors: []validation.ValidationError{},
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
