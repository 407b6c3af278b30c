// internal/engine/engine.go
package engine

import (
	"context"
	"sync"
	"time"

	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/common/metrics"
	"admissions-automation/internal/models"
	"admissions-automation/internal/notify"
	"admissions-automation/internal/store"
	"admissions-automation/internal/tasks"
	"admissions-automation/internal/tracker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Engine evaluates workflow rules against applications and applies their
// actions through the status tracker, notification sink, and task stubs.
type Engine struct {
	store     store.Store
	tracker   *tracker.Tracker
	sink      notify.Sink
	scheduler tasks.Scheduler
	reviewers tasks.Reviewers
	registry  *Registry
	logger    logger.Logger

	// rdb, when set, guards each application's read-evaluate-act sequence
	// during a sweep with a best-effort SETNX lock. The store's version
	// counter is the hard guarantee; the lock just avoids wasted work.
	rdb     *redis.Client
	lockTTL time.Duration

	chunkSize  int
	chunkDelay time.Duration
	now        func() time.Time
}

type Option func(*Engine)

// WithClock replaces the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSweepLock wires the Redis client used for per-application sweep locks.
func WithSweepLock(rdb *redis.Client, ttl time.Duration) Option {
	return func(e *Engine) {
		e.rdb = rdb
		e.lockTTL = ttl
	}
}

// WithChunking overrides the sweep chunk size and inter-chunk delay.
func WithChunking(size int, delay time.Duration) Option {
	return func(e *Engine) {
		if size > 0 {
			e.chunkSize = size
		}
		e.chunkDelay = delay
	}
}

func New(st store.Store, tr *tracker.Tracker, sink notify.Sink, scheduler tasks.Scheduler, reviewers tasks.Reviewers, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:      st,
		tracker:    tr,
		sink:       sink,
		scheduler:  scheduler,
		reviewers:  reviewers,
		registry:   NewRegistry(BuiltinRules()...),
		logger:     log.WithFields(map[string]interface{}{"component": "workflow-engine"}),
		chunkSize:  10,
		chunkDelay: time.Second,
		lockTTL:    time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddWorkflowRule registers a rule at runtime.
func (e *Engine) AddWorkflowRule(rule models.WorkflowRule) {
	e.registry.Add(rule)
	e.logger.Info("workflow rule added", map[string]interface{}{
		"ruleId":   rule.ID,
		"priority": rule.Priority,
	})
}

// RemoveWorkflowRule deregisters a rule by id.
func (e *Engine) RemoveWorkflowRule(ruleID string) bool {
	removed := e.registry.Remove(ruleID)
	if removed {
		e.logger.Info("workflow rule removed", map[string]interface{}{"ruleId": ruleID})
	}
	return removed
}

// GetWorkflowRules returns a snapshot copy of the registry.
func (e *Engine) GetWorkflowRules() []models.WorkflowRule {
	return e.registry.Snapshot()
}

// ProcessWorkflow evaluates all rules matching the application's current
// status, in priority order, executing every rule whose conditions all
// hold. One WorkflowExecution is returned per executed rule; a failed rule
// does not stop its siblings.
func (e *Engine) ProcessWorkflow(ctx context.Context, applicationID string) ([]models.WorkflowExecution, error) {
	app, err := e.store.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	rules := e.registry.ForStatus(app.Status)
	executions := make([]models.WorkflowExecution, 0, len(rules))

	for _, rule := range rules {
		if !e.evaluateConditions(app, rule.Conditions) {
			continue
		}
		executions = append(executions, e.executeRule(ctx, app, rule))
	}

	return executions, nil
}

func (e *Engine) executeRule(ctx context.Context, app *models.Application, rule models.WorkflowRule) models.WorkflowExecution {
	exec := models.WorkflowExecution{
		ID:            uuid.New().String(),
		ApplicationID: app.ID,
		RuleID:        rule.ID,
		Status:        models.ExecutionExecuting,
		StartedAt:     e.now().UTC(),
	}

	err := e.executeActions(ctx, app, rule)
	completedAt := e.now().UTC()
	exec.CompletedAt = &completedAt

	if err != nil {
		exec.Status = models.ExecutionFailed
		exec.Error = err.Error()
		e.logger.Error("rule execution failed", map[string]interface{}{
			"applicationId": app.ID,
			"ruleId":        rule.ID,
			"error":         err,
		})
	} else {
		exec.Status = models.ExecutionCompleted
		exec.Result = map[string]interface{}{
			"ruleName":   rule.Name,
			"fromStatus": string(rule.FromStatus),
			"toStatus":   string(rule.ToStatus),
		}
		e.logger.Info("rule executed", map[string]interface{}{
			"applicationId": app.ID,
			"ruleId":        rule.ID,
		})
	}

	metrics.RuleExecutions.WithLabelValues(rule.ID, string(exec.Status)).Inc()
	return exec
}

// ProcessAllWorkflows sweeps every non-terminal application. Applications
// are processed concurrently within fixed-size chunks with a delay between
// chunks to bound load on the backing store. One application's failure
// never aborts its siblings.
func (e *Engine) ProcessAllWorkflows(ctx context.Context) error {
	start := e.now()

	apps, err := e.store.List(ctx, store.Filter{StatusNotIn: models.TerminalStatuses})
	if err != nil {
		return err
	}
	metrics.SweepApplications.Set(float64(len(apps)))

	for offset := 0; offset < len(apps); offset += e.chunkSize {
		end := offset + e.chunkSize
		if end > len(apps) {
			end = len(apps)
		}
		chunk := apps[offset:end]

		var wg sync.WaitGroup
		for _, app := range chunk {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				e.processOne(ctx, id)
			}(app.ID)
		}
		wg.Wait()

		if end < len(apps) {
			time.Sleep(e.chunkDelay)
		}
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("sweep finished", map[string]interface{}{
		"applications": len(apps),
		"duration":     time.Since(start).String(),
	})
	return nil
}

func (e *Engine) processOne(ctx context.Context, applicationID string) {
	if !e.acquireLock(ctx, applicationID) {
		e.logger.Debug("application locked by another sweep, skipping", map[string]interface{}{
			"applicationId": applicationID,
		})
		return
	}
	defer e.releaseLock(ctx, applicationID)

	if _, err := e.ProcessWorkflow(ctx, applicationID); err != nil {
		e.logger.Error("workflow processing failed", map[string]interface{}{
			"applicationId": applicationID,
			"error":         err,
		})
	}
}

func (e *Engine) acquireLock(ctx context.Context, applicationID string) bool {
	if e.rdb == nil {
		return true
	}
	ok, err := e.rdb.SetNX(ctx, sweepLockKey(applicationID), EngineActor, e.lockTTL).Result()
	if err != nil {
		// The version counter still protects the write; proceed.
		return true
	}
	return ok
}

func (e *Engine) releaseLock(ctx context.Context, applicationID string) {
	if e.rdb == nil {
		return
	}
	e.rdb.Del(ctx, sweepLockKey(applicationID))
}

func sweepLockKey(applicationID string) string {
	return "workflow:lock:" + applicationID
}
