package notifyiaqassessment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"iaq-workers/internal/common/aws"
	"iaq-workers/internal/common/errors"
	"iaq-workers/internal/common/logger"
	"iaq-workers/internal/common/metrics"
	"iaq-workers/internal/iaq"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-iaq-assessment"
)

type Handler struct {
	config       *Config
	deps         Dependencies
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Enabled() && deps.Dedupe == nil {
		return nil, fmt.Errorf("dedupe store is required when notifications are enabled")
	}
	if config.EmailEnabled && deps.Email == nil {
		return nil, fmt.Errorf("email sender is required when email is enabled")
	}
	if config.SMSEnabled && deps.SMS == nil {
		return nil, fmt.Errorf("sms sender is required when sms is enabled")
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         deps,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{
		NotificationID: uuid.NewString(),
		Channels:       []ChannelResult{},
	}

	if !h.config.Enabled() {
		out.Status = StatusDisabled
		return out, nil
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	plans := h.plan(input)
	sendable := 0
	for _, p := range plans {
		if p.send {
			sendable++
		}
	}
	if sendable == 0 {
		h.logger.Info("no notification channel applies", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"riskTier":     input.RiskTier,
		})
		out.Status = StatusDisabled
		out.Channels = skipped(plans)
		return out, nil
	}

	key := h.config.KeyPrefix + input.AssessmentID
	claimed, err := h.deps.Dedupe.Claim(ctx, key, h.config.DedupeTTL)
	if err != nil {
		return nil, errors.NewNotificationCacheFailedError(err).WithMetadata("assessmentId", input.AssessmentID)
	}
	if !claimed {
		h.logger.Info("notification already sent", map[string]interface{}{
			"assessmentId": input.AssessmentID,
		})
		metrics.NotificationsTotal.WithLabelValues("any", StatusDuplicate).Inc()
		out.Status = StatusDuplicate
		return out, nil
	}

	var retryable *errors.StandardError
	sent := 0
	for _, p := range plans {
		channel := p.channel
		if !p.send {
			metrics.NotificationsTotal.WithLabelValues(channel, StatusSkipped).Inc()
			out.Channels = append(out.Channels, ChannelResult{Channel: channel, Status: StatusSkipped})
			continue
		}
		messageID, err := h.send(ctx, channel, input)
		if err != nil {
			h.logger.Warn("notification channel failed", map[string]interface{}{
				"assessmentId": input.AssessmentID,
				"channel":      channel,
				"awsErrorCode": aws.ErrorCode(err),
				"error":        err,
			})
			metrics.NotificationsTotal.WithLabelValues(channel, StatusFailed).Inc()
			out.Channels = append(out.Channels, ChannelResult{Channel: channel, Status: StatusFailed, Error: err.Error()})
			if retryable == nil && !aws.IsPermanent(err) {
				retryable = errors.NewNotificationSendFailedError(channel, err).
					WithMetadata("assessmentId", input.AssessmentID)
			}
			continue
		}
		sent++
		metrics.NotificationsTotal.WithLabelValues(channel, StatusSent).Inc()
		out.Channels = append(out.Channels, ChannelResult{Channel: channel, Status: StatusSent, MessageID: messageID})
	}

	if sent == 0 {
		// Nothing went out, so a later attempt may send again.
		if err := h.deps.Dedupe.Release(ctx, key); err != nil {
			h.logger.Warn("failed to release dedupe marker", map[string]interface{}{
				"assessmentId": input.AssessmentID,
				"error":        err,
			})
			// A retry would find the marker held and report a duplicate.
			if retryable != nil {
				return nil, errors.NewNotificationCacheFailedError(fmt.Errorf("release after failed send: %w", err)).
					WithMetadata("assessmentId", input.AssessmentID).
					WithMetadata("sendError", retryable.Error())
			}
		}
		if retryable != nil {
			return nil, retryable
		}
		out.Status = StatusFailed
		return out, nil
	}

	sentAt := h.now().UTC()
	out.Status = StatusSent
	out.SentAt = &sentAt

	h.logger.Info("notification sent", map[string]interface{}{
		"assessmentId":   input.AssessmentID,
		"notificationId": out.NotificationID,
		"channels":       len(out.Channels),
	})
	return out, nil
}

func validateInput(input *Input) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.AssessmentID, validation.Required),
		validation.Field(&input.RiskTier, validation.Required,
			validation.In(iaq.TierLow, iaq.TierModerate, iaq.TierHigh)),
		validation.Field(&input.Email, is.EmailFormat),
		validation.Field(&input.Phone, is.E164),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewInternalError(err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return errors.NewInvalidInputError(fields[0], err.Error()).
		WithMetadata("invalidFields", fields)
}

type channelPlan struct {
	channel string
	send    bool
}

// plan decides every channel for input, email first.
func (h *Handler) plan(input *Input) []channelPlan {
	return []channelPlan{
		{ChannelEmail, h.config.EmailEnabled && input.Email != ""},
		{ChannelSMS, h.config.SMSEnabled && input.Phone != "" && input.RiskTier.Rank() >= h.config.SMSMinTier.Rank()},
	}
}

func skipped(plans []channelPlan) []ChannelResult {
	out := make([]ChannelResult, 0, len(plans))
	for _, p := range plans {
		out = append(out, ChannelResult{Channel: p.channel, Status: StatusSkipped})
	}
	return out
}

func (h *Handler) send(ctx context.Context, channel string, input *Input) (string, error) {
	switch channel {
	case ChannelEmail:
		return h.deps.Email.SendEmail(ctx, aws.EmailMessage{
			From:    h.config.FromEmail,
			To:      input.Email,
			Subject: emailSubject(input),
			Text:    emailBody(input),
		})
	case ChannelSMS:
		return h.deps.SMS.SendSMS(ctx, input.Phone, smsBody(input))
	default:
		return "", fmt.Errorf("unknown channel %q", channel)
	}
}

func roomOf(input *Input) string {
	if input.Report != nil && input.Report.RoomLabel != "" {
		return input.Report.RoomLabel
	}
	return "your room"
}

func emailSubject(input *Input) string {
	return fmt.Sprintf("Indoor air quality assessment for %s: %s risk", roomOf(input), input.RiskTier)
}

func emailBody(input *Input) string {
	if input.ReportSummary != "" {
		return input.ReportSummary
	}
	return fmt.Sprintf("Your indoor air quality assessment for %s found a %s risk.\n", roomOf(input), input.RiskTier)
}

func smsBody(input *Input) string {
	msg := fmt.Sprintf("IAQ alert: %s risk for %s.", input.RiskTier, roomOf(input))
	if input.RiskTier == iaq.TierHigh {
		msg += " Immediate intervention recommended."
	}
	if input.Email != "" {
		msg += " Full report sent by email."
	}
	return msg
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
