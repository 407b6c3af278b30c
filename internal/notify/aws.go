// internal/notify/aws.go
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/common/metrics"
	"admissions-automation/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
)

// Interfaces over the AWS clients for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type template struct {
	subject string
	body    string
}

var templates = map[string]template{
	TypeStatusUpdate: {
		subject: "Your application status has changed",
		body:    "Hello {applicantName},\n\nYour application {applicationId} is now in status {status}.\n\nAdmissions Office",
	},
	TypeIncompleteReminder: {
		subject: "Your application is incomplete",
		body:    "Hello {applicantName},\n\nYour application {applicationId} is missing required information. Please complete it within {deadlineDays} days to remain in consideration.\n\nAdmissions Office",
	},
}

// AWSSinkConfig carries sink settings from the top-level config.
type AWSSinkConfig struct {
	EmailEnabled    bool
	FromEmail       string
	SMSEnabled      bool
	Region          string
	ReminderDedupTTL time.Duration
}

// AWSSink delivers email through SES and, for reminder types when enabled,
// SMS through SNS. Delivery failures are logged and swallowed per the sink
// contract; only an unknown notification type returns an error. Reminder
// dispatches are deduplicated through Redis so repeated sweeps do not spam
// the applicant.
type AWSSink struct {
	config AWSSinkConfig
	logger logger.Logger
	ses    SESService
	sns    SNSService
	rdb    *redis.Client
}

func NewAWSSink(ctx context.Context, cfg AWSSinkConfig, rdb *redis.Client, log logger.Logger) (*AWSSink, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &AWSSink{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notification-sink"}),
		ses:    ses.NewFromConfig(awsCfg),
		sns:    sns.NewFromConfig(awsCfg),
		rdb:    rdb,
	}, nil
}

// NewAWSSinkWithClients wires pre-built clients, for tests.
func NewAWSSinkWithClients(cfg AWSSinkConfig, sesClient SESService, snsClient SNSService, rdb *redis.Client, log logger.Logger) *AWSSink {
	return &AWSSink{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notification-sink"}),
		ses:    sesClient,
		sns:    snsClient,
		rdb:    rdb,
	}
}

func (s *AWSSink) Dispatch(ctx context.Context, notificationType string, app *models.Application, params map[string]interface{}) error {
	tmpl, ok := templates[notificationType]
	if !ok {
		metrics.NotificationsDispatched.WithLabelValues(notificationType, "unknown_type").Inc()
		return fmt.Errorf("unknown notification type: %s", notificationType)
	}

	if notificationType == TypeIncompleteReminder && !s.markReminderSent(ctx, app.ID) {
		s.logger.Debug("reminder already sent recently, skipping", map[string]interface{}{
			"applicationId": app.ID,
		})
		metrics.NotificationsDispatched.WithLabelValues(notificationType, "deduplicated").Inc()
		return nil
	}

	data := map[string]interface{}{
		"applicationId": app.ID,
		"applicantName": app.ApplicantName,
		"status":        string(app.Status),
	}
	for k, v := range params {
		data[k] = v
	}

	subject := renderTemplate(tmpl.subject, data)
	body := renderTemplate(tmpl.body, data)

	if s.config.EmailEnabled && app.ApplicantEmail != "" {
		if err := s.sendEmail(ctx, app.ApplicantEmail, subject, body); err != nil {
			s.logger.Error("email send failed", map[string]interface{}{
				"applicationId":    app.ID,
				"notificationType": notificationType,
				"error":            err,
			})
			metrics.NotificationsDispatched.WithLabelValues(notificationType, "failed").Inc()
			return nil
		}
	}

	if s.config.SMSEnabled && notificationType == TypeIncompleteReminder && app.ApplicantPhone != "" {
		if err := s.sendSMS(ctx, app.ApplicantPhone, body); err != nil {
			s.logger.Error("sms send failed", map[string]interface{}{
				"applicationId": app.ID,
				"error":         err,
			})
		}
	}

	metrics.NotificationsDispatched.WithLabelValues(notificationType, "sent").Inc()
	s.logger.Info("notification dispatched", map[string]interface{}{
		"applicationId":    app.ID,
		"notificationType": notificationType,
	})
	return nil
}

func (s *AWSSink) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := s.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (s *AWSSink) sendSMS(ctx context.Context, phone, message string) error {
	_, err := s.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	return err
}

// markReminderSent claims the dedup key for this application. Returns true
// when this dispatch should proceed. Without Redis, dedup is disabled.
func (s *AWSSink) markReminderSent(ctx context.Context, applicationID string) bool {
	if s.rdb == nil {
		return true
	}
	key := "notify:reminder:" + applicationID
	ok, err := s.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), s.config.ReminderDedupTTL).Result()
	if err != nil {
		// Dedup is best-effort; send rather than drop on Redis failure.
		return true
	}
	return ok
}

func renderTemplate(tmpl string, data map[string]interface{}) string {
	out := tmpl
	for k, v := range data {
		out = strings.ReplaceAll(out, "{"+k+"}", toString(v))
	}
	return out
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
