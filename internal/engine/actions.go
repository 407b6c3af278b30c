// internal/engine/actions.go
package engine

import (
	"context"
	"fmt"

	"admissions-automation/internal/models"
)

// executeActions runs a matched rule's actions in order, stopping at the
// first failure. The caller records the failure on the execution; sibling
// rules are unaffected.
func (e *Engine) executeActions(ctx context.Context, app *models.Application, rule models.WorkflowRule) error {
	for i, action := range rule.Actions {
		if err := e.executeAction(ctx, app, rule, action); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, action.Type, err)
		}
	}
	return nil
}

func (e *Engine) executeAction(ctx context.Context, app *models.Application, rule models.WorkflowRule, action models.WorkflowAction) error {
	switch action.Type {
	case models.ActionUpdateStatus:
		target, ok := action.Params["status"].(string)
		if !ok || target == "" {
			return fmt.Errorf("UPDATE_STATUS action missing status param")
		}
		details := map[string]interface{}{"ruleId": rule.ID, "automated": true}
		return e.tracker.UpdateStatus(ctx, app.ID, models.ApplicationStatus(target), EngineActor, details)

	case models.ActionSendNotification:
		notificationType, ok := action.Params["notificationType"].(string)
		if !ok || notificationType == "" {
			return fmt.Errorf("SEND_NOTIFICATION action missing notificationType param")
		}
		return e.sink.Dispatch(ctx, notificationType, app, action.Params)

	case models.ActionScheduleTask:
		taskType, _ := action.Params["taskType"].(string)
		assignee, _ := action.Params["assignee"].(string)
		return e.scheduler.Schedule(ctx, taskType, app.ID, assignee)

	case models.ActionAssignReviewer:
		reviewerType, _ := action.Params["reviewerType"].(string)
		priority := 0
		if p, err := toInt(action.Params["priority"]); err == nil {
			priority = p
		}
		return e.reviewers.Assign(ctx, app.ID, reviewerType, priority)

	case models.ActionCustom:
		// Extension point; nothing to do by default.
		e.logger.Debug("custom action skipped", map[string]interface{}{
			"applicationId": app.ID,
			"ruleId":        rule.ID,
		})
		return nil

	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}
