package notifyiaqassessment

import (
	"context"
	"time"

	"iaq-workers/internal/common/aws"
	"iaq-workers/internal/iaq"
)

type Input struct {
	AssessmentID  string       `json:"assessmentId"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	RiskTier      iaq.RiskTier `json:"riskTier"`
	ReportSummary string       `json:"reportSummary"`
	Report        *ReportRef   `json:"report,omitempty"`
}

// ReportRef is the part of the built report the notification mentions.
type ReportRef struct {
	ReportID  string `json:"reportId"`
	RoomLabel string `json:"roomLabel"`
}

type Output struct {
	NotificationID string          `json:"notificationId"`
	Status         string          `json:"status"`
	Channels       []ChannelResult `json:"channels"`
	SentAt         *time.Time      `json:"sentAt,omitempty"`
}

type ChannelResult struct {
	Channel   string `json:"channel"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

const (
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusDisabled  = "disabled"
	StatusDuplicate = "duplicate"
	StatusSkipped   = "skipped"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Deduper guards against sending the same assessment twice.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg aws.EmailMessage) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// Dependencies are the external clients. Email and SMS may be nil when the
// channel is disabled.
type Dependencies struct {
	Dedupe Deduper
	Email  EmailSender
	SMS    SMSSender
}
