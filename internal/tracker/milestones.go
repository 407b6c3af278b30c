// internal/tracker/milestones.go
package tracker

import (
	"time"

	"admissions-automation/internal/models"
)

// Milestones holds the six notable timestamps extracted from a timeline.
type Milestones struct {
	SubmittedAt           *time.Time `json:"submittedAt,omitempty"`
	ReviewStartedAt       *time.Time `json:"reviewStartedAt,omitempty"`
	AssessmentCompletedAt *time.Time `json:"assessmentCompletedAt,omitempty"`
	InterviewScheduledAt  *time.Time `json:"interviewScheduledAt,omitempty"`
	InterviewCompletedAt  *time.Time `json:"interviewCompletedAt,omitempty"`
	DecisionAt            *time.Time `json:"decisionAt,omitempty"`
}

// decisionEvents are the status-change events that fill the decision slot.
var decisionEvents = map[string]bool{
	statusChangePrefix + string(models.StatusAccepted):   true,
	statusChangePrefix + string(models.StatusRejected):   true,
	statusChangePrefix + string(models.StatusWaitlisted): true,
	statusChangePrefix + string(models.StatusDeferred):   true,
}

// ExtractMilestones scans the timeline in stored (insertion) order. Later
// events of the same kind overwrite earlier ones.
func ExtractMilestones(timeline []models.TimelineEvent) Milestones {
	var m Milestones
	for _, ev := range timeline {
		ts := ev.Timestamp
		switch {
		case ev.Event == EventSubmitted:
			m.SubmittedAt = &ts
		case ev.Event == statusChangePrefix+string(models.StatusUnderReview):
			m.ReviewStartedAt = &ts
		case ev.Event == "ASSESSMENT_COMPLETED":
			m.AssessmentCompletedAt = &ts
		case ev.Event == "INTERVIEW_SCHEDULED":
			m.InterviewScheduledAt = &ts
		case ev.Event == "INTERVIEW_COMPLETED":
			m.InterviewCompletedAt = &ts
		case decisionEvents[ev.Event]:
			m.DecisionAt = &ts
		}
	}
	return m
}
