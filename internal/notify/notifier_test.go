package notify

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{}, nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

var testEmail = &models.EmailMessage{Subject: "Interview Invitation", Body: "Details inside."}

func newTestNotifier(t *testing.T, sesClient *fakeSES, snsClient *fakeSNS) *Notifier {
	t.Helper()
	cfg := Config{
		Region:     "us-east-1",
		FromEmail:  "recruiting@techcorp.example",
		SESEnabled: true,
		SNSEnabled: true,
	}
	return NewWithClients(cfg, sesClient, snsClient, logger.NewTestLogger(t))
}

func TestSendEmail(t *testing.T) {
	sesClient := &fakeSES{}
	n := newTestNotifier(t, sesClient, &fakeSNS{})

	candidate := models.Candidate{ID: "cand-1", Email: "a@example.com"}
	require.NoError(t, n.SendEmail(context.Background(), candidate, testEmail))

	require.Len(t, sesClient.inputs, 1)
	input := sesClient.inputs[0]
	assert.Equal(t, "recruiting@techcorp.example", *input.Source)
	assert.Equal(t, []string{"a@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Interview Invitation", *input.Message.Subject.Data)
}

func TestSendEmailMissingAddress(t *testing.T) {
	sesClient := &fakeSES{}
	n := newTestNotifier(t, sesClient, &fakeSNS{})

	err := n.SendEmail(context.Background(), models.Candidate{ID: "cand-1"}, testEmail)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSend))
	assert.Empty(t, sesClient.inputs)
}

func TestSendEmailDeliveryFailure(t *testing.T) {
	sesClient := &fakeSES{err: stderrors.New("throttled")}
	n := newTestNotifier(t, sesClient, &fakeSNS{})

	err := n.SendEmail(context.Background(), models.Candidate{ID: "cand-1", Email: "a@example.com"}, testEmail)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSend))
}

func TestSendEmailDisabledChannel(t *testing.T) {
	sesClient := &fakeSES{}
	n := NewWithClients(Config{SESEnabled: false}, sesClient, &fakeSNS{}, logger.NewNoOpLogger())

	require.NoError(t, n.SendEmail(context.Background(), models.Candidate{ID: "cand-1"}, testEmail))
	assert.Empty(t, sesClient.inputs)
}

func TestSendSMS(t *testing.T) {
	snsClient := &fakeSNS{}
	n := newTestNotifier(t, &fakeSES{}, snsClient)

	candidate := models.Candidate{ID: "cand-1", Phone: "+94771234567"}
	require.NoError(t, n.SendSMS(context.Background(), candidate, "Your interview is confirmed."))

	require.Len(t, snsClient.inputs, 1)
	assert.Equal(t, "+94771234567", *snsClient.inputs[0].PhoneNumber)
}

func TestSendSMSMissingPhone(t *testing.T) {
	n := newTestNotifier(t, &fakeSES{}, &fakeSNS{})

	err := n.SendSMS(context.Background(), models.Candidate{ID: "cand-1"}, "hello")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSend))
}
