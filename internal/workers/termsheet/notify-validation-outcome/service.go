package notifyvalidationoutcome

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	awsclient "termsheet-workers/internal/common/aws"
	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/export"
	"termsheet-workers/internal/termsheet"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

type Service struct {
	config *Config
	logger logger.Logger
	sns    awsclient.SNSPublisher
	ses    awsclient.SESSender
	now    func() time.Time
	newID  func() string
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	s := &Service{
		config: config,
		logger: deps.Logger,
		sns:    deps.SNS,
		ses:    deps.SES,
		now:    deps.Now,
		newID:  deps.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// ToneFor picks the message register from the shared pass threshold outcome.
// A run with no report behind it could not happen at all.
func ToneFor(input *Input) Tone {
	switch {
	case input.ValidationStatus == termsheet.StatusSuccess:
		return ToneSuccess
	case input.Result == nil:
		return ToneFailure
	default:
		return ToneWarning
	}
}

// MaxSubjectLen is the longest subject sent; SNS rejects 100 characters or more.
const MaxSubjectLen = 99

// Render builds the subject and plain-text body for an outcome. The body
// always carries the full document name.
func Render(input *Input, tone Tone) Message {
	var prefix string
	switch tone {
	case ToneSuccess:
		prefix = "Term sheet validated: "
	case ToneWarning:
		prefix = "Term sheet needs review: "
	default:
		prefix = "Term sheet validation failed: "
	}
	subject := subjectLine(prefix + input.DocumentName)

	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", input.DocumentName)
	if r := input.Result; r != nil {
		fmt.Fprintf(&b, "Overall score: %s\n", export.Percent(r.OverallScore))
		fmt.Fprintf(&b, "Status: %s\n", r.Status)
		if invalid := r.InvalidFields(); len(invalid) > 0 {
			b.WriteString("\nFields needing attention:\n")
			for _, f := range invalid {
				fmt.Fprintf(&b, "- %s: %s\n", f.Field, f.Message)
			}
		}
	}
	if input.ErrorMessage != "" {
		fmt.Fprintf(&b, "\nError: %s\n", input.ErrorMessage)
	}

	return Message{Subject: subject, Body: b.String()}
}

// subjectLine drops control characters and cuts s on a rune boundary so it
// stays within MaxSubjectLen bytes.
func subjectLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if len(s) <= MaxSubjectLen {
		return s
	}

	const ellipsis = "..."
	cut := MaxSubjectLen - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}

// Execute sends the outcome on every enabled channel. Channels that are turned
// off are reported as disabled. A retry after a partial failure re-sends on
// channels that already succeeded.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	tone := ToneFor(input)
	msg := Render(input, tone)

	out := &Output{
		NotificationID: s.newID(),
		Tone:           tone,
		Status:         StatusDisabled,
		Channels: map[string]string{
			ChannelSNS:   StatusDisabled,
			ChannelEmail: StatusDisabled,
		},
	}

	if s.config.SNSEnabled {
		if err := s.publish(ctx, out.NotificationID, tone, msg); err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelSNS, err)
		}
		out.Channels[ChannelSNS] = StatusSent
		out.Status = StatusSent
	}

	if s.config.EmailEnabled {
		if err := s.sendEmail(ctx, msg); err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		out.Channels[ChannelEmail] = StatusSent
		out.Status = StatusSent
	}

	out.SentAt = s.now().UTC()

	s.logger.Info("Validation outcome notified", map[string]interface{}{
		"notificationId": out.NotificationID,
		"documentName":   input.DocumentName,
		"tone":           string(tone),
		"status":         out.Status,
		"sns":            out.Channels[ChannelSNS],
		"email":          out.Channels[ChannelEmail],
	})

	return out, nil
}

func (s *Service) publish(ctx context.Context, id string, tone Tone, msg Message) error {
	_, err := s.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.config.TopicARN),
		Subject:  aws.String(msg.Subject),
		Message:  aws.String(msg.Body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"tone":           {DataType: aws.String("String"), StringValue: aws.String(string(tone))},
			"notificationId": {DataType: aws.String("String"), StringValue: aws.String(id)},
		},
	})
	return err
}

func (s *Service) sendEmail(ctx context.Context, msg Message) error {
	_, err := s.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{s.config.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(msg.Body)},
			},
		},
		Source: aws.String(s.config.FromEmail),
	})
	return err
}
