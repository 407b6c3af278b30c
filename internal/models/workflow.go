// internal/models/workflow.go
package models

import "time"

// ConditionType discriminates the WorkflowCondition variants.
type ConditionType string

const (
	ConditionTimeElapsed         ConditionType = "TIME_ELAPSED"
	ConditionDocumentUploaded    ConditionType = "DOCUMENT_UPLOADED"
	ConditionAssessmentCompleted ConditionType = "ASSESSMENT_COMPLETED"
	ConditionInterviewCompleted  ConditionType = "INTERVIEW_COMPLETED"
	ConditionCustom              ConditionType = "CUSTOM"
)

// Operator is the comparison applied by a condition.
type Operator string

const (
	OperatorGreaterThan Operator = "GREATER_THAN"
	OperatorLessThan    Operator = "LESS_THAN"
	OperatorEquals      Operator = "EQUALS"
	OperatorNotEquals   Operator = "NOT_EQUALS"
	OperatorExists      Operator = "EXISTS"
)

// TimeUnit is the unit for TIME_ELAPSED thresholds.
type TimeUnit string

const (
	UnitMinutes TimeUnit = "MINUTES"
	UnitHours   TimeUnit = "HOURS"
	UnitDays    TimeUnit = "DAYS"
	UnitWeeks   TimeUnit = "WEEKS"
)

// Duration converts value units into a time.Duration.
func (u TimeUnit) Duration(value int) time.Duration {
	switch u {
	case UnitMinutes:
		return time.Duration(value) * time.Minute
	case UnitHours:
		return time.Duration(value) * time.Hour
	case UnitDays:
		return time.Duration(value) * 24 * time.Hour
	case UnitWeeks:
		return time.Duration(value) * 7 * 24 * time.Hour
	default:
		return 0
	}
}

// WorkflowCondition is one predicate of a rule. All conditions of a rule
// must hold for its actions to run.
type WorkflowCondition struct {
	Type      ConditionType `json:"type"`
	Field     string        `json:"field,omitempty"`
	Operator  Operator      `json:"operator"`
	Value     interface{}   `json:"value,omitempty"`
	TimeValue int           `json:"timeValue,omitempty"`
	TimeUnit  TimeUnit      `json:"timeUnit,omitempty"`
}

// ActionType discriminates the WorkflowAction variants.
type ActionType string

const (
	ActionUpdateStatus     ActionType = "UPDATE_STATUS"
	ActionSendNotification ActionType = "SEND_NOTIFICATION"
	ActionScheduleTask     ActionType = "SCHEDULE_TASK"
	ActionAssignReviewer   ActionType = "ASSIGN_REVIEWER"
	ActionCustom           ActionType = "CUSTOM"
)

// WorkflowAction is one side effect of a matched rule, executed in order.
type WorkflowAction struct {
	Type   ActionType             `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// WorkflowRule couples a source status with conditions and actions.
// ToStatus is documentary; the UPDATE_STATUS action is what moves state.
// Lower Priority evaluates first.
type WorkflowRule struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	FromStatus  ApplicationStatus   `json:"fromStatus"`
	ToStatus    ApplicationStatus   `json:"toStatus"`
	Conditions  []WorkflowCondition `json:"conditions"`
	Actions     []WorkflowAction    `json:"actions"`
	IsAutomatic bool                `json:"isAutomatic"`
	Priority    int                 `json:"priority"`
}

// ExecutionStatus is the outcome state of one rule execution.
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "PENDING"
	ExecutionExecuting ExecutionStatus = "EXECUTING"
	ExecutionCompleted ExecutionStatus = "COMPLETED"
	ExecutionFailed    ExecutionStatus = "FAILED"
)

// WorkflowExecution records the attempt of one rule against one application.
// Executions are transient; they are returned to the caller, not persisted.
type WorkflowExecution struct {
	ID            string                 `json:"id"`
	ApplicationID string                 `json:"applicationId"`
	RuleID        string                 `json:"ruleId"`
	Status        ExecutionStatus        `json:"status"`
	StartedAt     time.Time              `json:"startedAt"`
	CompletedAt   *time.Time             `json:"completedAt,omitempty"`
	Error         string                 `json:"error,omitempty"`
	Result        map[string]interface{} `json:"result,omitempty"`
}
