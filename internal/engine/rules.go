// internal/engine/rules.go
package engine

import "admissions-automation/internal/models"

// EngineActor identifies the engine as the actor on automated transitions.
const EngineActor = "workflow-engine"

// BuiltinRules returns the fixed rule set installed at construction.
// Priority ascending is evaluation order.
func BuiltinRules() []models.WorkflowRule {
	return []models.WorkflowRule{
		{
			ID:          "auto-review-start",
			Name:        "Auto-start review",
			Description: "Move fresh submissions into review after one hour",
			FromStatus:  models.StatusSubmitted,
			ToStatus:    models.StatusUnderReview,
			Priority:    1,
			IsAutomatic: true,
			Conditions: []models.WorkflowCondition{
				{
					Type:      models.ConditionTimeElapsed,
					Operator:  models.OperatorGreaterThan,
					TimeValue: 1,
					TimeUnit:  models.UnitHours,
				},
			},
			Actions: []models.WorkflowAction{
				{
					Type:   models.ActionUpdateStatus,
					Params: map[string]interface{}{"status": string(models.StatusUnderReview)},
				},
				{
					Type:   models.ActionSendNotification,
					Params: map[string]interface{}{"notificationType": "status-update"},
				},
			},
		},
		{
			ID:          "auto-assessment-start",
			Name:        "Auto-start assessment",
			Description: "Start assessments once documents are in and the application is complete",
			FromStatus:  models.StatusUnderReview,
			ToStatus:    models.StatusAssessmentPending,
			Priority:    2,
			IsAutomatic: true,
			Conditions: []models.WorkflowCondition{
				{
					Type:     models.ConditionDocumentUploaded,
					Operator: models.OperatorExists,
				},
				{
					Type:     models.ConditionCustom,
					Field:    "completeness",
					Operator: models.OperatorEquals,
					Value:    100,
				},
			},
			Actions: []models.WorkflowAction{
				{
					Type:   models.ActionUpdateStatus,
					Params: map[string]interface{}{"status": string(models.StatusAssessmentPending)},
				},
				{
					Type:   models.ActionAssignReviewer,
					Params: map[string]interface{}{"reviewerType": "eligibility-assessor"},
				},
			},
		},
		{
			ID:          "auto-interview-schedule",
			Name:        "Auto-schedule interview",
			Description: "Queue interview scheduling once all three assessments exist",
			FromStatus:  models.StatusAssessmentPending,
			ToStatus:    models.StatusInterviewScheduled,
			Priority:    3,
			IsAutomatic: true,
			Conditions: []models.WorkflowCondition{
				{
					Type:     models.ConditionAssessmentCompleted,
					Field:    "eligibilityResult",
					Operator: models.OperatorExists,
				},
				{
					Type:     models.ConditionAssessmentCompleted,
					Field:    "spiritualEvaluation",
					Operator: models.OperatorExists,
				},
				{
					Type:     models.ConditionAssessmentCompleted,
					Field:    "academicEvaluation",
					Operator: models.OperatorExists,
				},
			},
			Actions: []models.WorkflowAction{
				{
					Type:   models.ActionUpdateStatus,
					Params: map[string]interface{}{"status": string(models.StatusInterviewScheduled)},
				},
				{
					Type: models.ActionScheduleTask,
					Params: map[string]interface{}{
						"taskType": "interview-scheduling",
						"assignee": "interview-coordinator",
					},
				},
			},
		},
		{
			ID:          "auto-decision-pending",
			Name:        "Auto-advance to decision",
			Description: "Move to decision once interview results exist",
			FromStatus:  models.StatusInterviewScheduled,
			ToStatus:    models.StatusDecisionPending,
			Priority:    4,
			IsAutomatic: true,
			Conditions: []models.WorkflowCondition{
				{
					Type:     models.ConditionInterviewCompleted,
					Operator: models.OperatorExists,
				},
			},
			Actions: []models.WorkflowAction{
				{
					Type:   models.ActionUpdateStatus,
					Params: map[string]interface{}{"status": string(models.StatusDecisionPending)},
				},
				{
					Type:   models.ActionAssignReviewer,
					Params: map[string]interface{}{"reviewerType": "admissions-committee"},
				},
			},
		},
		{
			ID:          "incomplete-reminder",
			Name:        "Incomplete application reminder",
			Description: "Remind stale incomplete submissions, no status change",
			FromStatus:  models.StatusSubmitted,
			ToStatus:    models.StatusSubmitted,
			Priority:    5,
			IsAutomatic: true,
			Conditions: []models.WorkflowCondition{
				{
					Type:      models.ConditionTimeElapsed,
					Operator:  models.OperatorGreaterThan,
					TimeValue: 3,
					TimeUnit:  models.UnitDays,
				},
				{
					Type:     models.ConditionCustom,
					Field:    "completeness",
					Operator: models.OperatorLessThan,
					Value:    100,
				},
			},
			Actions: []models.WorkflowAction{
				{
					Type: models.ActionSendNotification,
					Params: map[string]interface{}{
						"notificationType": "incomplete-reminder-with-deadline",
						"deadlineDays":     7,
					},
				},
			},
		},
	}
}
