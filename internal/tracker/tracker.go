// internal/tracker/tracker.go
package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"admissions-automation/internal/common/errors"
	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/common/metrics"
	"admissions-automation/internal/models"
	"admissions-automation/internal/store"
)

// EventSubmitted is the initial timeline event written at intake.
const EventSubmitted = "APPLICATION_SUBMITTED"

// statusChangePrefix prefixes every event emitted by UpdateStatus.
const statusChangePrefix = "STATUS_CHANGED_TO_"

// statusTransitions is the authoritative adjacency of the state machine.
// Two overrides short-circuit it, see IsValidTransition.
var statusTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusSubmitted:          {models.StatusUnderReview, models.StatusWithdrawn},
	models.StatusUnderReview:        {models.StatusAssessmentPending, models.StatusRejected, models.StatusWithdrawn},
	models.StatusAssessmentPending:  {models.StatusInterviewScheduled, models.StatusRejected, models.StatusWithdrawn},
	models.StatusInterviewScheduled: {models.StatusDecisionPending, models.StatusRejected, models.StatusWithdrawn},
	models.StatusDecisionPending:    {models.StatusAccepted, models.StatusRejected, models.StatusWaitlisted, models.StatusDeferred, models.StatusWithdrawn},
	models.StatusAccepted:           {models.StatusWithdrawn},
	models.StatusWaitlisted:         {models.StatusAccepted, models.StatusRejected, models.StatusWithdrawn},
	models.StatusDeferred:           {models.StatusUnderReview, models.StatusWithdrawn},
	models.StatusRejected:           {},
	models.StatusWithdrawn:          {},
}

var statusDescriptions = map[models.ApplicationStatus]string{
	models.StatusSubmitted:          "Application has been submitted",
	models.StatusUnderReview:        "Application is under review",
	models.StatusAssessmentPending:  "Assessments are in progress",
	models.StatusInterviewScheduled: "Interview has been scheduled",
	models.StatusDecisionPending:    "Application is awaiting a decision",
	models.StatusAccepted:           "Application has been accepted",
	models.StatusRejected:           "Application has been rejected",
	models.StatusWaitlisted:         "Application has been placed on the waitlist",
	models.StatusDeferred:           "Application has been deferred to a later term",
	models.StatusWithdrawn:          "Application has been withdrawn",
}

var eventDescriptions = map[string]string{
	EventSubmitted:         "Application submitted and timeline started",
	"DOCUMENT_UPLOADED":    "Supporting document uploaded",
	"DOCUMENT_REMOVED":     "Supporting document removed",
	"ASSESSMENT_COMPLETED": "Assessment completed",
	"INTERVIEW_SCHEDULED":  "Interview scheduled",
	"INTERVIEW_COMPLETED":  "Interview completed",
	"NOTE_ADDED":           "Internal note added",
}

// EventIndexer receives timeline events for ops search. Implementations
// must be fire-and-forget; the tracker never fails on indexing.
type EventIndexer interface {
	IndexEvent(ctx context.Context, applicationID string, event models.TimelineEvent)
}

// StatusInfo is the read view exposed by GetApplicationStatus.
type StatusInfo struct {
	ApplicationID string                   `json:"applicationId"`
	Status        models.ApplicationStatus `json:"status"`
	Timeline      []models.TimelineEvent   `json:"timeline"`
	Progress      Progress                 `json:"progress"`
	Milestones    Milestones               `json:"milestones"`
}

// Tracker owns the status state machine and the append-only timeline.
type Tracker struct {
	store   store.Store
	logger  logger.Logger
	indexer EventIndexer
	now     func() time.Time
}

type Option func(*Tracker)

// WithIndexer wires an event indexer (nil disables indexing).
func WithIndexer(idx EventIndexer) Option {
	return func(t *Tracker) { t.indexer = idx }
}

// WithClock replaces the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func New(st store.Store, log logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  st,
		logger: log.WithFields(map[string]interface{}{"component": "status-tracker"}),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsValidTransition reports whether from -> to is allowed. Any transition
// into WITHDRAWN is always allowed, and any transition out of SUBMITTED is
// always allowed; both are checked before the adjacency table. The
// SUBMITTED override mirrors observed production behavior and is flagged
// as a stakeholder question in DESIGN.md rather than silently removed.
func IsValidTransition(from, to models.ApplicationStatus) bool {
	if !to.Valid() {
		return false
	}
	if to == models.StatusWithdrawn {
		return true
	}
	if from == models.StatusSubmitted {
		return true
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InitializeTimeline writes the initial APPLICATION_SUBMITTED event. Status
// is set to SUBMITTED by the caller at creation time, not here.
func (t *Tracker) InitializeTimeline(ctx context.Context, applicationID string) error {
	app, err := t.store.Get(ctx, applicationID)
	if err != nil {
		return err
	}

	event := models.TimelineEvent{
		Event:       EventSubmitted,
		Timestamp:   t.now().UTC(),
		Description: eventDescriptions[EventSubmitted],
	}

	if err := t.store.SaveTimeline(ctx, applicationID, []models.TimelineEvent{event}, app.Version); err != nil {
		return err
	}

	t.index(ctx, applicationID, event)
	t.logger.Info("timeline initialized", map[string]interface{}{
		"applicationId": applicationID,
	})
	return nil
}

// UpdateStatus validates and applies a status transition, appending a
// STATUS_CHANGED_TO_<status> event.
func (t *Tracker) UpdateStatus(ctx context.Context, applicationID string, newStatus models.ApplicationStatus, actorID string, details map[string]interface{}) error {
	app, err := t.store.Get(ctx, applicationID)
	if err != nil {
		return err
	}

	if !IsValidTransition(app.Status, newStatus) {
		return errors.NewInvalidTransitionError(string(app.Status), string(newStatus))
	}

	event := models.TimelineEvent{
		Event:       statusChangePrefix + string(newStatus),
		Timestamp:   t.now().UTC(),
		Actor:       actorID,
		Details:     details,
		Description: statusDescriptions[newStatus],
	}

	timeline := append(append([]models.TimelineEvent(nil), app.Timeline...), event)
	if err := t.store.SaveStatus(ctx, applicationID, newStatus, timeline, app.Version); err != nil {
		return err
	}

	metrics.StatusTransitions.WithLabelValues(string(app.Status), string(newStatus)).Inc()
	t.index(ctx, applicationID, event)
	t.logger.Info("status updated", map[string]interface{}{
		"applicationId": applicationID,
		"from":          app.Status,
		"to":            newStatus,
		"actor":         actorID,
	})
	return nil
}

// AddTimelineEvent appends an arbitrary event without touching status.
// The timeline is a log: identical events append twice.
func (t *Tracker) AddTimelineEvent(ctx context.Context, applicationID, event string, details map[string]interface{}, actorID string) error {
	app, err := t.store.Get(ctx, applicationID)
	if err != nil {
		return err
	}

	entry := models.TimelineEvent{
		Event:       event,
		Timestamp:   t.now().UTC(),
		Actor:       actorID,
		Details:     details,
		Description: describeEvent(event, details),
	}

	timeline := append(append([]models.TimelineEvent(nil), app.Timeline...), entry)
	if err := t.store.SaveTimeline(ctx, applicationID, timeline, app.Version); err != nil {
		return err
	}

	t.index(ctx, applicationID, entry)
	return nil
}

// GetApplicationStatus returns the current status with the timeline sorted
// ascending by timestamp, plus progress and milestone views.
func (t *Tracker) GetApplicationStatus(ctx context.Context, applicationID string) (*StatusInfo, error) {
	app, err := t.store.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	timeline := append([]models.TimelineEvent(nil), app.Timeline...)
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.Before(timeline[j].Timestamp)
	})

	return &StatusInfo{
		ApplicationID: applicationID,
		Status:        app.Status,
		Timeline:      timeline,
		Progress:      CalculateProgress(app.Status),
		Milestones:    ExtractMilestones(app.Timeline),
	}, nil
}

func (t *Tracker) index(ctx context.Context, applicationID string, event models.TimelineEvent) {
	if t.indexer == nil {
		return
	}
	t.indexer.IndexEvent(ctx, applicationID, event)
}

// describeEvent resolves a human-readable description from the lookup
// table, falling back to a humanized event token, and appends detail
// fragments when present.
func describeEvent(event string, details map[string]interface{}) string {
	desc, ok := eventDescriptions[event]
	if !ok {
		desc = humanize(event)
	}

	if details != nil {
		if docType, ok := details["documentType"].(string); ok && docType != "" {
			desc = fmt.Sprintf("%s - %s", desc, docType)
		}
		if reason, ok := details["reason"].(string); ok && reason != "" {
			desc = fmt.Sprintf("%s (%s)", desc, reason)
		}
	}
	return desc
}

func humanize(event string) string {
	s := strings.ToLower(strings.ReplaceAll(event, "_", " "))
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
