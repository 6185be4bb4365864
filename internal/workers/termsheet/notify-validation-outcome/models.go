package notifyvalidationoutcome

import (
	"time"

	awsclient "termsheet-workers/internal/common/aws"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/termsheet"
)

// Tone is the register of the outcome message.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneFailure Tone = "failure"
)

// Delivery status reported back to the process.
const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

const (
	ChannelSNS   = "sns"
	ChannelEmail = "email"
)

type Input struct {
	DocumentName     string                      `json:"documentName"`
	ValidationStatus termsheet.Status            `json:"validationStatus"`
	Result           *termsheet.ValidationResult `json:"validationResult,omitempty"`
	ErrorMessage     string                      `json:"errorMessage,omitempty"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	Tone           Tone              `json:"tone"`
	Status         string            `json:"status"`
	Channels       map[string]string `json:"channels"`
	SentAt         time.Time         `json:"sentAt"`
}

// Message is the rendered notification.
type Message struct {
	Subject string
	Body    string
}

type ServiceDependencies struct {
	Logger logger.Logger
	SNS    awsclient.SNSPublisher
	SES    awsclient.SESSender
	Now    func() time.Time
	NewID  func() string
}
