// internal/tasks/tasks.go
package tasks

import (
	"context"

	"admissions-automation/internal/common/logger"
)

// Scheduler hands tasks to an external task system.
type Scheduler interface {
	Schedule(ctx context.Context, taskType, applicationID, assignee string) error
}

// Reviewers assigns a reviewer of the given type to an application.
type Reviewers interface {
	Assign(ctx context.Context, applicationID, reviewerType string, priority int) error
}

// LogScheduler is the current stand-in for the task system: it logs the
// request and succeeds. A real integration replaces this behind the same
// interface.
type LogScheduler struct {
	logger logger.Logger
}

func NewLogScheduler(log logger.Logger) *LogScheduler {
	return &LogScheduler{logger: log.WithFields(map[string]interface{}{"component": "task-scheduler"})}
}

func (s *LogScheduler) Schedule(ctx context.Context, taskType, applicationID, assignee string) error {
	s.logger.Info("task scheduled", map[string]interface{}{
		"taskType":      taskType,
		"applicationId": applicationID,
		"assignee":      assignee,
	})
	return nil
}

// LogReviewers is the log-only stand-in for reviewer assignment.
type LogReviewers struct {
	logger logger.Logger
}

func NewLogReviewers(log logger.Logger) *LogReviewers {
	return &LogReviewers{logger: log.WithFields(map[string]interface{}{"component": "reviewer-assignment"})}
}

func (r *LogReviewers) Assign(ctx context.Context, applicationID, reviewerType string, priority int) error {
	r.logger.Info("reviewer assigned", map[string]interface{}{
		"applicationId": applicationID,
		"reviewerType":  reviewerType,
		"priority":      priority,
	})
	return nil
}
