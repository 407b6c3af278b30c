// internal/tracker/milestones_test.go
package tracker

import (
	"testing"
	"time"

	"admissions-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMilestones_FullPipeline(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	timeline := []models.TimelineEvent{
		{Event: "APPLICATION_SUBMITTED", Timestamp: base},
		{Event: "STATUS_CHANGED_TO_UNDER_REVIEW", Timestamp: base.Add(1 * time.Hour)},
		{Event: "ASSESSMENT_COMPLETED", Timestamp: base.Add(48 * time.Hour)},
		{Event: "INTERVIEW_SCHEDULED", Timestamp: base.Add(72 * time.Hour)},
		{Event: "INTERVIEW_COMPLETED", Timestamp: base.Add(96 * time.Hour)},
		{Event: "STATUS_CHANGED_TO_ACCEPTED", Timestamp: base.Add(120 * time.Hour)},
	}

	m := ExtractMilestones(timeline)

	require.NotNil(t, m.SubmittedAt)
	assert.Equal(t, base, *m.SubmittedAt)
	require.NotNil(t, m.ReviewStartedAt)
	assert.Equal(t, base.Add(1*time.Hour), *m.ReviewStartedAt)
	require.NotNil(t, m.AssessmentCompletedAt)
	require.NotNil(t, m.InterviewScheduledAt)
	require.NotNil(t, m.InterviewCompletedAt)
	require.NotNil(t, m.DecisionAt)
	assert.Equal(t, base.Add(120*time.Hour), *m.DecisionAt)
}

func TestExtractMilestones_LastWriteWins(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	timeline := []models.TimelineEvent{
		{Event: "INTERVIEW_COMPLETED", Timestamp: base},
		{Event: "INTERVIEW_COMPLETED", Timestamp: base.Add(24 * time.Hour)},
	}

	m := ExtractMilestones(timeline)

	require.NotNil(t, m.InterviewCompletedAt)
	assert.Equal(t, base.Add(24*time.Hour), *m.InterviewCompletedAt)
}

// A deferred application that is later rejected fills the decision slot with
// the later event, in insertion order regardless of timestamps.
func TestExtractMilestones_DecisionOverwrittenInInsertionOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	timeline := []models.TimelineEvent{
		{Event: "STATUS_CHANGED_TO_DEFERRED", Timestamp: base.Add(48 * time.Hour)},
		{Event: "STATUS_CHANGED_TO_REJECTED", Timestamp: base.Add(24 * time.Hour)},
	}

	m := ExtractMilestones(timeline)

	require.NotNil(t, m.DecisionAt)
	assert.Equal(t, base.Add(24*time.Hour), *m.DecisionAt)
}

func TestExtractMilestones_Empty(t *testing.T) {
	m := ExtractMilestones(nil)

	assert.Nil(t, m.SubmittedAt)
	assert.Nil(t, m.ReviewStartedAt)
	assert.Nil(t, m.AssessmentCompletedAt)
	assert.Nil(t, m.InterviewScheduledAt)
	assert.Nil(t, m.InterviewCompletedAt)
	assert.Nil(t, m.DecisionAt)
}

func TestExtractMilestones_UnknownEventsIgnored(t *testing.T) {
	timeline := []models.TimelineEvent{
		{Event: "DOCUMENT_UPLOADED", Timestamp: time.Now().UTC()},
		{Event: "NOTE_ADDED", Timestamp: time.Now().UTC()},
	}

	m := ExtractMilestones(timeline)
	assert.Equal(t, Milestones{}, m)
}
