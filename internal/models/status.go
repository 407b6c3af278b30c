// internal/models/status.go
package models

// ApplicationStatus is the lifecycle state of an admissions application.
type ApplicationStatus string

const (
	StatusSubmitted          ApplicationStatus = "SUBMITTED"
	StatusUnderReview        ApplicationStatus = "UNDER_REVIEW"
	StatusAssessmentPending  ApplicationStatus = "ASSESSMENT_PENDING"
	StatusInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	StatusDecisionPending    ApplicationStatus = "DECISION_PENDING"
	StatusAccepted           ApplicationStatus = "ACCEPTED"
	StatusRejected           ApplicationStatus = "REJECTED"
	StatusWaitlisted         ApplicationStatus = "WAITLISTED"
	StatusDeferred           ApplicationStatus = "DEFERRED"
	StatusWithdrawn          ApplicationStatus = "WITHDRAWN"
)

// AllStatuses enumerates every valid status.
var AllStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusUnderReview,
	StatusAssessmentPending,
	StatusInterviewScheduled,
	StatusDecisionPending,
	StatusAccepted,
	StatusRejected,
	StatusWaitlisted,
	StatusDeferred,
	StatusWithdrawn,
}

// TerminalStatuses are the end states excluded from workflow sweeps.
// WAITLISTED and DEFERRED are decisions but not terminal; both can still
// move.
var TerminalStatuses = []ApplicationStatus{
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether s is an end state.
func (s ApplicationStatus) Terminal() bool {
	for _, st := range TerminalStatuses {
		if s == st {
			return true
		}
	}
	return false
}
