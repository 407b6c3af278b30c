// internal/store/store.go
package store

import (
	"context"

	"admissions-automation/internal/models"
)

// Filter narrows List results.
type Filter struct {
	StatusNotIn []models.ApplicationStatus
}

// Store is the persistence surface consumed by the tracker and engine.
// Implementations must return an APPLICATION_NOT_FOUND StandardError when an
// id does not resolve, and a VERSION_CONFLICT StandardError when
// expectedVersion no longer matches the stored row.
type Store interface {
	Get(ctx context.Context, id string) (*models.Application, error)
	SaveTimeline(ctx context.Context, id string, timeline []models.TimelineEvent, expectedVersion int64) error
	SaveStatus(ctx context.Context, id string, status models.ApplicationStatus, timeline []models.TimelineEvent, expectedVersion int64) error
	List(ctx context.Context, f Filter) ([]*models.Application, error)
}
