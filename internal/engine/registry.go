// internal/engine/registry.go
package engine

import (
	"sort"
	"sync"

	"admissions-automation/internal/models"
)

// Registry is the in-memory, mutable set of workflow rules. Mutation is
// guarded by a read-write lock since rule changes can race with sweeps.
type Registry struct {
	mu    sync.RWMutex
	rules []models.WorkflowRule
}

func NewRegistry(rules ...models.WorkflowRule) *Registry {
	r := &Registry{}
	r.rules = append(r.rules, rules...)
	r.sortLocked()
	return r
}

// Add appends a rule and re-sorts by ascending priority.
func (r *Registry) Add(rule models.WorkflowRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	r.sortLocked()
}

// Remove deletes the rule with the given id, reporting whether it existed.
func (r *Registry) Remove(ruleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rule := range r.rules {
		if rule.ID == ruleID {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of all rules in priority order.
func (r *Registry) Snapshot() []models.WorkflowRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.WorkflowRule(nil), r.rules...)
}

// ForStatus returns a copy of the rules whose FromStatus matches, in
// priority order.
func (r *Registry) ForStatus(status models.ApplicationStatus) []models.WorkflowRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.WorkflowRule
	for _, rule := range r.rules {
		if rule.FromStatus == status {
			out = append(out, rule)
		}
	}
	return out
}

func (r *Registry) sortLocked() {
	sort.SliceStable(r.rules, func(i, j int) bool {
		return r.rules[i].Priority < r.rules[j].Priority
	})
}
