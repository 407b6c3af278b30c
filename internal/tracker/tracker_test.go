// internal/tracker/tracker_test.go
package tracker

import (
	"context"
	"testing"
	"time"

	"admissions-automation/internal/common/errors"
	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/models"
	"admissions-automation/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*Tracker, *store.Memory) {
	mem := store.NewMemory()
	return New(mem, logger.NewTestLogger(t)), mem
}

func seedApplication(mem *store.Memory, id string, status models.ApplicationStatus) {
	mem.Put(&models.Application{
		ID:        id,
		Status:    status,
		CreatedAt: time.Now().UTC().Add(-24 * time.Hour),
		Version:   1,
	})
}

// ==========================
// Transition Table Tests
// ==========================

func TestIsValidTransition_Table(t *testing.T) {
	tests := []struct {
		name  string
		from  models.ApplicationStatus
		to    models.ApplicationStatus
		valid bool
	}{
		{"happy path review", models.StatusUnderReview, models.StatusAssessmentPending, true},
		{"happy path assessment", models.StatusAssessmentPending, models.StatusInterviewScheduled, true},
		{"happy path interview", models.StatusInterviewScheduled, models.StatusDecisionPending, true},
		{"decision accept", models.StatusDecisionPending, models.StatusAccepted, true},
		{"decision waitlist", models.StatusDecisionPending, models.StatusWaitlisted, true},
		{"decision defer", models.StatusDecisionPending, models.StatusDeferred, true},
		{"waitlist accept", models.StatusWaitlisted, models.StatusAccepted, true},
		{"deferred back to review", models.StatusDeferred, models.StatusUnderReview, true},
		{"skip ahead blocked", models.StatusUnderReview, models.StatusDecisionPending, false},
		{"backwards blocked", models.StatusDecisionPending, models.StatusSubmitted, false},
		{"accepted cannot reopen", models.StatusAccepted, models.StatusUnderReview, false},
		{"invalid target", models.StatusSubmitted, models.ApplicationStatus("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidTransition_WithdrawnAlwaysAllowed(t *testing.T) {
	for _, from := range models.AllStatuses {
		assert.True(t, IsValidTransition(from, models.StatusWithdrawn),
			"withdrawal from %s must be allowed", from)
	}
}

// The SUBMITTED-source override allows every valid target, including ones
// absent from the adjacency table. Surprising but deliberate, preserved
// from observed production behavior.
func TestIsValidTransition_SubmittedAlwaysAllowed(t *testing.T) {
	for _, to := range models.AllStatuses {
		assert.True(t, IsValidTransition(models.StatusSubmitted, to),
			"SUBMITTED -> %s must be allowed", to)
	}
}

func TestIsValidTransition_TerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	for _, from := range []models.ApplicationStatus{models.StatusRejected, models.StatusWithdrawn} {
		for _, to := range models.AllStatuses {
			if to == models.StatusWithdrawn {
				continue // override
			}
			assert.False(t, IsValidTransition(from, to),
				"%s -> %s must be blocked", from, to)
		}
	}
}

// ==========================
// UpdateStatus Tests
// ==========================

func TestUpdateStatus_Success(t *testing.T) {
	tr, mem := newTestTracker(t)
	seedApplication(mem, "app-1", models.StatusSubmitted)

	err := tr.UpdateStatus(context.Background(), "app-1", models.StatusUnderReview, "admin-1", nil)
	require.NoError(t, err)

	app, err := mem.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, app.Status)
	require.Len(t, app.Timeline, 1)
	assert.Equal(t, "STATUS_CHANGED_TO_UNDER_REVIEW", app.Timeline[0].Event)
	assert.Equal(t, "admin-1", app.Timeline[0].Actor)
	assert.Equal(t, "Application is under review", app.Timeline[0].Description)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	tr, mem := newTestTracker(t)
	seedApplication(mem, "app-1", models.StatusUnderReview)

	err := tr.UpdateStatus(context.Background(), "app-1", models.StatusAccepted, "admin-1", nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))

	// Status must be left unchanged.
	app, getErr := mem.Get(context.Background(), "app-1")
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusUnderReview, app.Status)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	tr, _ := newTestTracker(t)

	err := tr.UpdateStatus(context.Background(), "missing", models.StatusUnderReview, "", nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateStatus_RejectedToWithdrawnAllowed(t *testing.T) {
	tr, mem := newTestTracker(t)
	seedApplication(mem, "app-1", models.StatusRejected)

	err := tr.UpdateStatus(context.Background(), "app-1", models.StatusWithdrawn, "applicant-1", nil)
	require.NoError(t, err)

	app, err := mem.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, app.Status)
}

func TestUpdateStatus_StatusAlwaysInEnumeration(t *testing.T) {
	tr, mem := newTestTracker(t)
	seedApplication(mem, "app-1", models.StatusSubmitted)
	ctx := context.Background()

	// Drive an arbitrary mix of valid and invalid transition attempts.
	attempts := []models.ApplicationStatus{
		models.StatusUnderReview,
		models.StatusAccepted, // invalid from UNDER_REVIEW
		models.StatusAssessmentPending,
		models.ApplicationStatus("NONSENSE"),
		models.StatusInterviewScheduled,
		models.StatusSubmitted, // invalid, no backwards edge
		models.StatusWithdrawn,
	}
	for _, target := range attempts {
		_ = tr.UpdateStatus(ctx, "app-1", target, "", nil)
		app, err := mem.Get(ctx, "app-1")
		require.NoError(t, err)
		assert.True(t, app.Status.Valid(), "status %q left the enumeration", app.Status)
	}
}

// ==========================
// Timeline Tests
// ==========================

func TestInitializeTimeline(t *testing.T) {
	tr, mem := newTestTracker(t)
	seedApplication(mem, "app-1", models.StatusSubmitted)

	err := tr.InitializeTimeline(context.Background(), "app-1")
	require.NoError(t, err)

	app, err := mem.Get(context.Background(), "app-1")
	require.NoError(t, err)
	require.Len(t, app.Timeline, 1)
	assert.Equal(t, EventSubmitted, app.Timeline[0].Event)
	assert.Equal(t, models.StatusSubmitted, app.Status)
}

func TestAddTimelineEvent_DuplicatesAppend(t *testing.T) {
	tr, mem := newTestTracker(t)
	seedApplication(mem, "app-1", models.StatusSubmitted)
	ctx := context.Background()

	details := map[string]interface{}{"documentType": "transcript"}
	require.NoError(t, tr.AddTimelineEvent(ctx, "app-1", "DOCUMENT_UPLOADED", details, "applicant-1"))
	require.NoError(t, tr.AddTimelineEvent(ctx, "app-1", "DOCUMENT_UPLOADED", details, "applicant-1"))

	app, err := mem.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Len(t, app.Timeline, 2, "timeline is a log, not a set")
}

func TestAddTimelineEvent_Descriptions(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		details  map[string]interface{}
		expected string
	}{
		{
			name:     "known event",
			event:    "INTERVIEW_COMPLETED",
			expected: "Interview completed",
		},
		{
			name:     "unknown event humanized",
			event:    "FEE_WAIVER_GRANTED",
			expected: "Fee waiver granted",
		},
		{
			name:     "document type fragment",
			event:    "DOCUMENT_UPLOADED",
			details:  map[string]interface{}{"documentType": "transcript"},
			expected: "Supporting document uploaded - transcript",
		},
		{
			name:     "reason fragment",
			event:    "DOCUMENT_REMOVED",
			details:  map[string]interface{}{"reason": "illegible scan"},
			expected: "Supporting document removed (illegible scan)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, mem := newTestTracker(t)
			seedApplication(mem, "app-1", models.StatusSubmitted)

			err := tr.AddTimelineEvent(context.Background(), "app-1", tt.event, tt.details, "")
			require.NoError(t, err)

			app, err := mem.Get(context.Background(), "app-1")
			require.NoError(t, err)
			require.Len(t, app.Timeline, 1)
			assert.Equal(t, tt.expected, app.Timeline[0].Description)
		})
	}
}

func TestGetApplicationStatus_TimelineSortedAscending(t *testing.T) {
	mem := store.NewMemory()
	now := time.Now().UTC()
	mem.Put(&models.Application{
		ID:        "app-1",
		Status:    models.StatusUnderReview,
		CreatedAt: now.Add(-72 * time.Hour),
		Version:   1,
		Timeline: []models.TimelineEvent{
			{Event: "C", Timestamp: now.Add(-1 * time.Hour)},
			{Event: "A", Timestamp: now.Add(-72 * time.Hour)},
			{Event: "B", Timestamp: now.Add(-24 * time.Hour)},
		},
	})
	tr := New(mem, logger.NewTestLogger(t))

	info, err := tr.GetApplicationStatus(context.Background(), "app-1")
	require.NoError(t, err)

	require.Len(t, info.Timeline, 3)
	assert.Equal(t, "A", info.Timeline[0].Event)
	assert.Equal(t, "B", info.Timeline[1].Event)
	assert.Equal(t, "C", info.Timeline[2].Event)
	assert.Equal(t, models.StatusUnderReview, info.Status)
}

func TestGetApplicationStatus_NotFound(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, err := tr.GetApplicationStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
