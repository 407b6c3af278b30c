// internal/store/memory.go
package store

import (
	"context"
	"sync"
	"time"

	"admissions-automation/internal/common/errors"
	"admissions-automation/internal/models"
)

// Memory is an in-process Store used by tests and local development. It
// enforces the same version semantics as the Postgres implementation.
type Memory struct {
	mu   sync.RWMutex
	apps map[string]*models.Application
}

func NewMemory() *Memory {
	return &Memory{apps: make(map[string]*models.Application)}
}

// Put inserts or replaces an application.
func (m *Memory) Put(app *models.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cloneApplication(app)
	m.apps[cp.ID] = cp
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, errors.NewApplicationNotFoundError(id)
	}
	return cloneApplication(app), nil
}

func (m *Memory) SaveTimeline(ctx context.Context, id string, timeline []models.TimelineEvent, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return errors.NewApplicationNotFoundError(id)
	}
	if app.Version != expectedVersion {
		return errors.NewVersionConflictError(id)
	}
	app.Timeline = append([]models.TimelineEvent(nil), timeline...)
	app.Version++
	app.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) SaveStatus(ctx context.Context, id string, status models.ApplicationStatus, timeline []models.TimelineEvent, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return errors.NewApplicationNotFoundError(id)
	}
	if app.Version != expectedVersion {
		return errors.NewVersionConflictError(id)
	}
	app.Status = status
	app.Timeline = append([]models.TimelineEvent(nil), timeline...)
	app.Version++
	app.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) List(ctx context.Context, f Filter) ([]*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := make(map[models.ApplicationStatus]bool, len(f.StatusNotIn))
	for _, st := range f.StatusNotIn {
		excluded[st] = true
	}

	var out []*models.Application
	for _, app := range m.apps {
		if excluded[app.Status] {
			continue
		}
		out = append(out, cloneApplication(app))
	}
	return out, nil
}

func cloneApplication(app *models.Application) *models.Application {
	cp := *app
	cp.Timeline = append([]models.TimelineEvent(nil), app.Timeline...)
	cp.AcademicHistory = append([]models.AcademicRecord(nil), app.AcademicHistory...)
	cp.CharacterReferences = append([]models.Reference(nil), app.CharacterReferences...)
	cp.Documents = append([]models.Document(nil), app.Documents...)
	cp.InterviewRecords = append([]models.InterviewRecord(nil), app.InterviewRecords...)
	if app.EligibilityResult != nil {
		ev := *app.EligibilityResult
		cp.EligibilityResult = &ev
	}
	if app.SpiritualEvaluation != nil {
		ev := *app.SpiritualEvaluation
		cp.SpiritualEvaluation = &ev
	}
	if app.AcademicEvaluation != nil {
		ev := *app.AcademicEvaluation
		cp.AcademicEvaluation = &ev
	}
	return &cp
}
