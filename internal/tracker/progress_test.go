// internal/tracker/progress_test.go
package tracker

import (
	"testing"

	"admissions-automation/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProgress_Percentages(t *testing.T) {
	tests := []struct {
		status models.ApplicationStatus
		pct    int
	}{
		{models.StatusSubmitted, 20},
		{models.StatusUnderReview, 40},
		{models.StatusAssessmentPending, 60},
		{models.StatusInterviewScheduled, 80},
		{models.StatusDecisionPending, 100},
		{models.StatusWaitlisted, 80},
		{models.StatusDeferred, 80},
		{models.StatusAccepted, 100},
		{models.StatusRejected, 100},
		{models.StatusWithdrawn, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.pct, CalculateProgress(tt.status).Percentage)
		})
	}
}

// Every non-terminal status except DECISION_PENDING must report strictly
// between 0 and 100.
func TestCalculateProgress_NonTerminalBounds(t *testing.T) {
	for _, status := range models.AllStatuses {
		if status.Terminal() || status == models.StatusDecisionPending {
			continue
		}
		p := CalculateProgress(status)
		assert.Greater(t, p.Percentage, 0, "status %s", status)
		assert.Less(t, p.Percentage, 100, "status %s", status)
	}
}

func TestCalculateProgress_Terminal(t *testing.T) {
	p := CalculateProgress(models.StatusAccepted)
	assert.Equal(t, 100, p.Percentage)
	assert.Empty(t, p.NextStep)
	assert.Len(t, p.CompletedSteps, len(progressFlow))
	assert.Empty(t, p.RemainingSteps)
}

func TestCalculateProgress_StepLists(t *testing.T) {
	p := CalculateProgress(models.StatusUnderReview)
	assert.Equal(t, []string{"Application submitted", "Under review"}, p.CompletedSteps)
	assert.Equal(t, []string{"Assessment in progress", "Interview scheduled", "Decision pending"}, p.RemainingSteps)
	assert.Equal(t, "Assessment in progress", p.NextStep)
}

func TestCalculateProgress_DecisionPendingHasNoNextStep(t *testing.T) {
	p := CalculateProgress(models.StatusDecisionPending)
	assert.Equal(t, 100, p.Percentage)
	assert.Empty(t, p.NextStep)
	assert.Empty(t, p.RemainingSteps)
}
