package tasks

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"daosim/utils"

	"github.com/samber/mo"
)

// Governance task names run by the bot.
const (
	TaskCheckGovernance  = "check_governance"
	TaskAutonomousVoting = "autonomous_voting"
	TaskSyncEmbeds       = "sync_embeds"
	TaskRecheckProposals = "recheck_proposals"

	// TaskAutonomousGovernance is an older name for TaskAutonomousVoting.
	TaskAutonomousGovernance = "autonomous_governance"
)

var GovernanceTaskNames = []string{
	TaskCheckGovernance,
	TaskAutonomousVoting,
	TaskSyncEmbeds,
	TaskRecheckProposals,
}

var defaultSchedules = map[string]Schedule{
	TaskCheckGovernance:  {Minutes: 5},
	TaskAutonomousVoting: {Minutes: 10},
	TaskSyncEmbeds:       {Minutes: 15},
	TaskRecheckProposals: {Minutes: 20},
}

// CanonicalTaskName resolves aliases to the canonical task name.
func CanonicalTaskName(name string) string {
	if name == TaskAutonomousGovernance {
		return TaskAutonomousVoting
	}
	return name
}

// DefaultSchedule returns the production interval for a governance task.
func DefaultSchedule(name string) mo.Option[Schedule] {
	schedule, ok := defaultSchedules[CanonicalTaskName(name)]
	if !ok {
		return mo.None[Schedule]()
	}
	return mo.Some(schedule)
}

// Registry holds the named loops of one bot.
type Registry struct {
	mu    sync.RWMutex
	loops map[string]*Loop
	order []string
}

func NewRegistry() *Registry {
	return &Registry{loops: make(map[string]*Loop)}
}

// Register adds a named loop. A loop registered under an existing name
// replaces it, and the replaced loop is stopped.
func (r *Registry) Register(loop *Loop) {
	name := CanonicalTaskName(loop.Name())
	utils.AssertInvariant(name != "", "registered task must have a name")

	r.mu.Lock()
	previous, exists := r.loops[name]
	r.loops[name] = loop
	if !exists {
		r.order = append(r.order, name)
	}
	r.mu.Unlock()

	if exists && previous != loop {
		previous.Stop()
	}
}

func (r *Registry) Get(name string) mo.Option[*Loop] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loop, ok := r.loops[CanonicalTaskName(name)]
	if !ok {
		return mo.None[*Loop]()
	}
	return mo.Some(loop)
}

// Names lists registered tasks in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *Registry) all() []*Loop {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loops := make([]*Loop, 0, len(r.order))
	for _, name := range r.order {
		loops = append(loops, r.loops[name])
	}
	return loops
}

// StartAll starts every loop that is not already running.
func (r *Registry) StartAll(ctx context.Context) error {
	var errs []error
	for _, loop := range r.all() {
		if loop.IsRunning() {
			continue
		}
		if err := loop.Start(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StopAll stops every loop and waits for each to exit.
func (r *Registry) StopAll() {
	for _, loop := range r.all() {
		loop.StopWait()
	}
}

// Status maps each task name to whether it is running.
func (r *Registry) Status() map[string]bool {
	status := make(map[string]bool)
	for _, name := range r.Names() {
		status[name] = r.Get(name).MustGet().IsRunning()
	}
	return status
}

// Iterations maps each task name to its completed iteration count.
func (r *Registry) Iterations() map[string]int {
	counts := make(map[string]int)
	for _, name := range r.Names() {
		counts[name] = r.Get(name).MustGet().Iterations()
	}
	return counts
}

// DueWithin lists the tasks whose next iteration falls within window.
func (r *Registry) DueWithin(window time.Duration) []string {
	var due []string
	for _, name := range r.Names() {
		if EvaluateTaskSchedule(r.Get(name).MustGet(), window) {
			due = append(due, name)
		}
	}
	return due
}
