// internal/tracker/progress.go
package tracker

import (
	"math"

	"admissions-automation/internal/models"
)

// flowStep pairs an in-flow status with its display description.
type flowStep struct {
	status      models.ApplicationStatus
	description string
}

// progressFlow is the happy-path order of the admissions pipeline.
var progressFlow = []flowStep{
	{models.StatusSubmitted, "Application submitted"},
	{models.StatusUnderReview, "Under review"},
	{models.StatusAssessmentPending, "Assessment in progress"},
	{models.StatusInterviewScheduled, "Interview scheduled"},
	{models.StatusDecisionPending, "Decision pending"},
}

// Progress is the derived pipeline-position view of an application.
type Progress struct {
	Percentage     int      `json:"percentage"`
	NextStep       string   `json:"nextStep,omitempty"`
	CompletedSteps []string `json:"completedSteps"`
	RemainingSteps []string `json:"remainingSteps"`
}

// CalculateProgress derives the progress view for a status. Terminal
// statuses report 100% with nothing remaining. WAITLISTED and DEFERRED sit
// outside the linear flow; both hold at the pre-decision stage since a final
// decision is still outstanding.
func CalculateProgress(status models.ApplicationStatus) Progress {
	if status.Terminal() {
		completed := make([]string, len(progressFlow))
		for i, step := range progressFlow {
			completed[i] = step.description
		}
		return Progress{
			Percentage:     100,
			CompletedSteps: completed,
			RemainingSteps: []string{},
		}
	}

	idx := flowIndex(status)
	pct := int(math.Round(float64(idx+1) / float64(len(progressFlow)) * 100))

	completed := make([]string, 0, idx+1)
	for _, step := range progressFlow[:idx+1] {
		completed = append(completed, step.description)
	}
	remaining := make([]string, 0, len(progressFlow)-idx-1)
	for _, step := range progressFlow[idx+1:] {
		remaining = append(remaining, step.description)
	}

	next := ""
	if idx+1 < len(progressFlow) {
		next = progressFlow[idx+1].description
	}

	return Progress{
		Percentage:     pct,
		NextStep:       next,
		CompletedSteps: completed,
		RemainingSteps: remaining,
	}
}

func flowIndex(status models.ApplicationStatus) int {
	for i, step := range progressFlow {
		if step.status == status {
			return i
		}
	}
	// WAITLISTED and DEFERRED: one step before the decision stage.
	return len(progressFlow) - 2
}
