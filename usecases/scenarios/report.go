package scenarios

import (
	"fmt"
	"io"
	"slices"
	"time"

	"daosim/models"
)

type StepResult struct {
	Name   string
	Passed bool
	Detail string
}

// Report is the outcome of one scenario run.
type Report struct {
	RunID    string
	Scenario string
	Steps    []StepResult

	Referendum *models.Thread
	Quorum     float64

	TaskStatusBefore map[string]bool
	TaskStatusAfter  map[string]bool
	Iterations       map[string]int
	DueSoon          []string

	MessagesObserved int
	StartedAt        time.Time
	FinishedAt       time.Time
}

func (r *Report) PassedCount() int {
	passed := 0
	for _, step := range r.Steps {
		if step.Passed {
			passed++
		}
	}
	return passed
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	return r.PassedCount() != len(r.Steps)
}

func (r *Report) Step(name string) (StepResult, bool) {
	idx := slices.IndexFunc(r.Steps, func(s StepResult) bool { return s.Name == name })
	if idx < 0 {
		return StepResult{}, false
	}
	return r.Steps[idx], true
}

// Print writes a human-readable summary of the run.
func (r *Report) Print(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Scenario %s (run %s)\n", r.Scenario, r.RunID)
	for i, step := range r.Steps {
		mark := "✅"
		if !step.Passed {
			mark = "❌"
		}
		printf("  %2d. %s %s: %s\n", i+1, mark, step.Name, step.Detail)
	}
	if r.Referendum != nil {
		printf("Referendum: %s (thread %d, %d messages)\n",
			r.Referendum.Name, r.Referendum.ID, len(r.Referendum.Messages()))
	}
	printf("Quorum: %.2f%%\n", r.Quorum)
	printf("Messages observed: %d\n", r.MessagesObserved)

	names := make([]string, 0, len(r.Iterations))
	for name := range r.Iterations {
		names = append(names, name)
	}
	slices.Sort(names)
	printf("Tasks:\n")
	for _, name := range names {
		printf("  %-18s running=%-5t -> %-5t iterations=%d\n",
			name, r.TaskStatusBefore[name], r.TaskStatusAfter[name], r.Iterations[name])
	}
	if len(r.DueSoon) > 0 {
		printf("Due soon: %v\n", r.DueSoon)
	}
	printf("Result: %d/%d steps passed in %s\n",
		r.PassedCount(), len(r.Steps), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	return err
}
