// internal/notify/log.go
package notify

import (
	"context"

	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/models"
)

// LogSink writes dispatches to the log only. Used in development and tests.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log.WithFields(map[string]interface{}{"component": "notification-sink"})}
}

func (s *LogSink) Dispatch(ctx context.Context, notificationType string, app *models.Application, params map[string]interface{}) error {
	s.logger.Info("notification dispatched", map[string]interface{}{
		"notificationType": notificationType,
		"applicationId":    app.ID,
		"params":           params,
	})
	return nil
}
