// internal/store/memory_test.go
package store

import (
	"context"
	"testing"
	"time"

	"admissions-automation/internal/common/errors"
	"admissions-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_VersionEnforcedOnWrites(t *testing.T) {
	m := NewMemory()
	m.Put(&models.Application{ID: "app-1", Status: models.StatusSubmitted, Version: 1})
	ctx := context.Background()

	// Stale version is rejected.
	err := m.SaveStatus(ctx, "app-1", models.StatusUnderReview, nil, 7)
	require.Error(t, err)
	assert.True(t, errors.IsVersionConflict(err))

	// Matching version succeeds and bumps the counter.
	require.NoError(t, m.SaveStatus(ctx, "app-1", models.StatusUnderReview, nil, 1))
	app, err := m.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), app.Version)
	assert.Equal(t, models.StatusUnderReview, app.Status)

	// The old version no longer writes.
	err = m.SaveTimeline(ctx, "app-1", nil, 1)
	require.Error(t, err)
	assert.True(t, errors.IsVersionConflict(err))
}

func TestMemory_GetReturnsACopy(t *testing.T) {
	m := NewMemory()
	m.Put(&models.Application{
		ID:       "app-1",
		Status:   models.StatusSubmitted,
		Version:  1,
		Timeline: []models.TimelineEvent{{Event: "APPLICATION_SUBMITTED", Timestamp: time.Now().UTC()}},
	})
	ctx := context.Background()

	app, err := m.Get(ctx, "app-1")
	require.NoError(t, err)
	app.Status = models.StatusAccepted
	app.Timeline[0].Event = "mutated"

	fresh, err := m.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, fresh.Status)
	assert.Equal(t, "APPLICATION_SUBMITTED", fresh.Timeline[0].Event)
}

func TestMemory_ListFiltersStatuses(t *testing.T) {
	m := NewMemory()
	m.Put(&models.Application{ID: "a", Status: models.StatusSubmitted, Version: 1})
	m.Put(&models.Application{ID: "b", Status: models.StatusAccepted, Version: 1})
	m.Put(&models.Application{ID: "c", Status: models.StatusUnderReview, Version: 1})

	apps, err := m.List(context.Background(), Filter{StatusNotIn: models.TerminalStatuses})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	for _, app := range apps {
		assert.NotEqual(t, models.StatusAccepted, app.Status)
	}
}

func TestMemory_NotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	err = m.SaveStatus(context.Background(), "missing", models.StatusUnderReview, nil, 1)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
