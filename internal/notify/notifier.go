// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Interfaces for mocking the AWS clients in tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config selects the enabled delivery channels.
type Config struct {
	Region      string
	FromEmail   string
	SESEnabled  bool
	SNSEnabled  bool
	SMSSenderID string
}

// Notifier delivers generated candidate communications. Every failure is a
// warning for the workflow, never a run error.
type Notifier struct {
	config    Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

// New builds a Notifier with real AWS clients.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

// NewWithClients builds a Notifier with injected clients (tests).
func NewWithClients(cfg Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// SendEmail delivers a generated email to the candidate via SES.
func (n *Notifier) SendEmail(ctx context.Context, candidate models.Candidate, email *models.EmailMessage) error {
	if !n.config.SESEnabled {
		return nil
	}
	if candidate.Email == "" {
		return errors.NewNotificationSendError("email", fmt.Errorf("candidate %s has no email address", candidate.ID))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(n.config.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{candidate.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(email.Body)},
			},
		},
	}

	if _, err := n.sesClient.SendEmail(ctx, input); err != nil {
		return errors.NewNotificationSendError("email", err)
	}

	n.logger.Info("email sent", map[string]interface{}{
		"candidateId": candidate.ID,
		"subject":     email.Subject,
	})
	return nil
}

// SendSMS delivers a short booking confirmation via SNS.
func (n *Notifier) SendSMS(ctx context.Context, candidate models.Candidate, message string) error {
	if !n.config.SNSEnabled {
		return nil
	}
	if candidate.Phone == "" {
		return errors.NewNotificationSendError("sms", fmt.Errorf("candidate %s has no phone number", candidate.ID))
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(candidate.Phone),
		Message:     aws.String(message),
	}
	if n.config.SMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.config.SMSSenderID),
			},
		}
	}

	if _, err := n.snsClient.Publish(ctx, input); err != nil {
		return errors.NewNotificationSendError("sms", err)
	}

	n.logger.Info("sms sent", map[string]interface{}{
		"candidateId": candidate.ID,
	})
	return nil
}
