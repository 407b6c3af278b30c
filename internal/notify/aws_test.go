// internal/notify/aws_test.go
package notify

import (
	"context"
	"testing"
	"time"

	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func testApp() *models.Application {
	return &models.Application{
		ID:             "app-1",
		Status:         models.StatusUnderReview,
		ApplicantName:  "Jordan Example",
		ApplicantEmail: "jordan@example.edu",
		ApplicantPhone: "+15551234567",
	}
}

func newTestSink(t *testing.T, cfg AWSSinkConfig, rdb *redis.Client) (*AWSSink, *mockSES, *mockSNS) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	sink := NewAWSSinkWithClients(cfg, sesMock, snsMock, rdb, logger.NewTestLogger(t))
	return sink, sesMock, snsMock
}

func TestDispatch_StatusUpdateEmail(t *testing.T) {
	sink, sesMock, snsMock := newTestSink(t, AWSSinkConfig{
		EmailEnabled: true,
		FromEmail:    "admissions@example.edu",
	}, nil)

	err := sink.Dispatch(context.Background(), TypeStatusUpdate, testApp(), nil)
	require.NoError(t, err)

	require.Len(t, sesMock.inputs, 1)
	input := sesMock.inputs[0]
	assert.Equal(t, "admissions@example.edu", aws.ToString(input.Source))
	assert.Equal(t, []string{"jordan@example.edu"}, input.Destination.ToAddresses)
	assert.Equal(t, "Your application status has changed", aws.ToString(input.Message.Subject.Data))

	body := aws.ToString(input.Message.Body.Text.Data)
	assert.Contains(t, body, "Hello Jordan Example")
	assert.Contains(t, body, "app-1")
	assert.Contains(t, body, "UNDER_REVIEW")
	assert.NotContains(t, body, "{", "unreplaced placeholders")

	// Status updates never go to SMS.
	assert.Empty(t, snsMock.inputs)
}

func TestDispatch_ReminderRendersDeadline(t *testing.T) {
	sink, sesMock, _ := newTestSink(t, AWSSinkConfig{
		EmailEnabled: true,
		FromEmail:    "admissions@example.edu",
	}, nil)

	err := sink.Dispatch(context.Background(), TypeIncompleteReminder, testApp(), map[string]interface{}{
		"deadlineDays": 7,
	})
	require.NoError(t, err)

	require.Len(t, sesMock.inputs, 1)
	body := aws.ToString(sesMock.inputs[0].Message.Body.Text.Data)
	assert.Contains(t, body, "within 7 days")
}

func TestDispatch_ReminderSMS(t *testing.T) {
	sink, _, snsMock := newTestSink(t, AWSSinkConfig{
		EmailEnabled: true,
		FromEmail:    "admissions@example.edu",
		SMSEnabled:   true,
	}, nil)

	err := sink.Dispatch(context.Background(), TypeIncompleteReminder, testApp(), map[string]interface{}{
		"deadlineDays": 7,
	})
	require.NoError(t, err)

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+15551234567", aws.ToString(snsMock.inputs[0].PhoneNumber))
}

func TestDispatch_UnknownType(t *testing.T) {
	sink, sesMock, _ := newTestSink(t, AWSSinkConfig{EmailEnabled: true}, nil)

	err := sink.Dispatch(context.Background(), "carrier-pigeon", testApp(), nil)
	require.Error(t, err)
	assert.Empty(t, sesMock.inputs)
}

// Delivery failures are swallowed per the sink contract; the engine must not
// see a failed rule because SES hiccuped.
func TestDispatch_DeliveryFailureSwallowed(t *testing.T) {
	sink, sesMock, _ := newTestSink(t, AWSSinkConfig{
		EmailEnabled: true,
		FromEmail:    "admissions@example.edu",
	}, nil)
	sesMock.err = assert.AnError

	err := sink.Dispatch(context.Background(), TypeStatusUpdate, testApp(), nil)
	assert.NoError(t, err)
}

func TestDispatch_NoEmailAddress(t *testing.T) {
	sink, sesMock, _ := newTestSink(t, AWSSinkConfig{
		EmailEnabled: true,
		FromEmail:    "admissions@example.edu",
	}, nil)

	app := testApp()
	app.ApplicantEmail = ""

	err := sink.Dispatch(context.Background(), TypeStatusUpdate, app, nil)
	require.NoError(t, err)
	assert.Empty(t, sesMock.inputs)
}

func TestDispatch_ReminderDeduplicated(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sink, sesMock, _ := newTestSink(t, AWSSinkConfig{
		EmailEnabled:     true,
		FromEmail:        "admissions@example.edu",
		ReminderDedupTTL: time.Hour,
	}, rdb)
	ctx := context.Background()

	require.NoError(t, sink.Dispatch(ctx, TypeIncompleteReminder, testApp(), nil))
	require.NoError(t, sink.Dispatch(ctx, TypeIncompleteReminder, testApp(), nil))

	assert.Len(t, sesMock.inputs, 1, "second reminder within TTL must be skipped")
	assert.True(t, mr.Exists("notify:reminder:app-1"))

	// Once the TTL passes, reminders flow again.
	mr.FastForward(2 * time.Hour)
	require.NoError(t, sink.Dispatch(ctx, TypeIncompleteReminder, testApp(), nil))
	assert.Len(t, sesMock.inputs, 2)
}

func TestDispatch_StatusUpdateNotDeduplicated(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sink, sesMock, _ := newTestSink(t, AWSSinkConfig{
		EmailEnabled:     true,
		FromEmail:        "admissions@example.edu",
		ReminderDedupTTL: time.Hour,
	}, rdb)
	ctx := context.Background()

	require.NoError(t, sink.Dispatch(ctx, TypeStatusUpdate, testApp(), nil))
	require.NoError(t, sink.Dispatch(ctx, TypeStatusUpdate, testApp(), nil))

	assert.Len(t, sesMock.inputs, 2)
}
