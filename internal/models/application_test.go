// internal/models/application_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name string
		app  Application
		want int
	}{
		{"empty", Application{}, 0},
		{"statement only", Application{PersonalStatement: "s"}, 20},
		{
			"three of five",
			Application{
				PersonalStatement:  "s",
				SpiritualTestimony: "t",
				Documents:          []Document{{ID: "d"}},
			},
			60,
		},
		{
			"all five",
			Application{
				PersonalStatement:   "s",
				AcademicHistory:     []AcademicRecord{{Institution: "State U"}},
				SpiritualTestimony:  "t",
				CharacterReferences: []Reference{{Name: "r"}},
				Documents:           []Document{{ID: "d"}},
			},
			100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.app.Completeness())
		})
	}
}

func TestCompletedInterviews(t *testing.T) {
	app := Application{
		InterviewRecords: []InterviewRecord{
			{ID: "i1", Completed: true},
			{ID: "i2"},
			{ID: "i3", Completed: true},
		},
	}
	assert.Equal(t, 2, app.CompletedInterviews())
	assert.Equal(t, 0, (&Application{}).CompletedInterviews())
}

func TestStatusValidAndTerminal(t *testing.T) {
	for _, st := range AllStatuses {
		assert.True(t, st.Valid())
	}
	assert.False(t, ApplicationStatus("BOGUS").Valid())
	assert.False(t, ApplicationStatus("").Valid())

	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusWaitlisted.Terminal())
	assert.False(t, StatusDeferred.Terminal())
	assert.False(t, StatusDecisionPending.Terminal())
}
