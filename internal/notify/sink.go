// internal/notify/sink.go
package notify

import (
	"context"

	"admissions-automation/internal/models"
)

// Known notification type tokens dispatched by the workflow engine.
const (
	TypeStatusUpdate       = "status-update"
	TypeIncompleteReminder = "incomplete-reminder-with-deadline"
)

// Sink receives notification dispatches keyed by type token. Dispatch is
// fire-and-forget from the caller's perspective: delivery failures are
// logged by the sink itself and never retried by the engine. An error is
// returned only when the dispatch itself is malformed (unknown type).
type Sink interface {
	Dispatch(ctx context.Context, notificationType string, app *models.Application, params map[string]interface{}) error
}
