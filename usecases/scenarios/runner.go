package scenarios

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"daosim/clients/discord"
	"daosim/core"
	"daosim/core/log"
	"daosim/fixtures"
	"daosim/models"
	"daosim/services/tasks"
	"daosim/usecases/environment"
)

const (
	ScenarioDefault = "default"
	ScenarioVoting  = "voting"
	ScenarioCustom  = "custom"

	voteCommandName = "vote"
	voteAccepted    = "✅"
	voteUnparsed    = "❓"
)

// Names lists the runnable scenarios.
func Names() []string {
	return []string{ScenarioDefault, ScenarioVoting, ScenarioCustom}
}

func scenarioSteps(name string) ([]step, bool) {
	switch name {
	case ScenarioDefault:
		return defaultSteps(), true
	case ScenarioVoting:
		return votingSteps(), true
	case ScenarioCustom:
		return customSteps(), true
	default:
		return nil, false
	}
}

// Runner drives one scenario against a JAM DAO environment while the
// governance tasks tick in the background.
type Runner struct {
	Env       *environment.JamDao
	Structure *fixtures.Structure // nil uses the embedded JAM DAO layout
	Duration  time.Duration
	TickDelay time.Duration
}

func NewRunner(env *environment.JamDao, duration, tickDelay time.Duration) *Runner {
	return &Runner{
		Env:       env,
		Duration:  duration,
		TickDelay: tickDelay,
	}
}

// session is the state shared by the steps, the vote command and the task
// callbacks of one run. Everything that touches it runs on the scheduler;
// the vote command runs inline inside a step.
type session struct {
	env        *environment.JamDao
	report     *Report
	referendum *models.Thread
	votes      map[string]string
	observed   int
}

// Run executes the named scenario and returns its report. The error is
// reserved for failures to run at all; a failing step is recorded in the
// report instead.
func (r *Runner) Run(ctx context.Context, name string) (*Report, error) {
	steps, ok := scenarioSteps(name)
	if !ok {
		return nil, fmt.Errorf("scenario %s %w", name, core.ErrNotFound)
	}

	report := &Report{
		RunID:     core.NewID("run"),
		Scenario:  name,
		StartedAt: time.Now(),
	}
	log.Info("📋 Starting scenario %s (%s)", name, report.RunID)

	if err := r.setup(); err != nil {
		return nil, err
	}

	s := &session{
		env:    r.Env,
		report: report,
		votes:  make(map[string]string),
	}

	scheduler := tasks.NewScheduler()
	defer scheduler.Close()

	registry := tasks.NewRegistry()
	for _, taskName := range tasks.GovernanceTaskNames {
		schedule := tasks.DefaultSchedule(taskName).MustGet()
		registry.Register(schedule.Bind(s.governanceTask(taskName),
			tasks.WithName(taskName),
			tasks.WithTickDelay(r.TickDelay),
			tasks.WithScheduler(scheduler),
		))
	}
	defer registry.StopAll()

	r.Env.Bot.Event(discord.EventReady, func(ctx context.Context, args ...any) error {
		return registry.StartAll(ctx)
	})
	r.Env.Bot.Listen(discord.EventMessage, func(ctx context.Context, args ...any) error {
		s.observed++
		return nil
	})
	r.Env.Bot.AddCommand(voteCommandName, s.handleVote)

	if err := r.Env.TriggerReady(ctx); err != nil {
		return nil, fmt.Errorf("failed to start governance tasks: %w", err)
	}

	for _, st := range steps {
		result := StepResult{Name: st.name}
		runErr := scheduler.Run(func() {
			detail, err := st.run(ctx, s)
			result.Detail = detail
			if err != nil {
				result.Detail = err.Error()
				return
			}
			result.Passed = true
		})
		if runErr != nil {
			result.Passed = false
			result.Detail = runErr.Error()
		}
		report.Steps = append(report.Steps, result)

		if result.Passed {
			log.Info("✅ Step %q: %s", result.Name, result.Detail)
		} else {
			log.Error("❌ Step %q: %s", result.Name, result.Detail)
		}
	}

	r.wait(ctx)

	report.TaskStatusBefore = registry.Status()
	report.DueSoon = registry.DueWithin(tasks.DefaultSchedule(tasks.TaskCheckGovernance).MustGet().Interval())
	registry.StopAll()
	report.TaskStatusAfter = registry.Status()
	report.Iterations = registry.Iterations()
	report.Referendum = s.referendum
	report.MessagesObserved = s.observed
	report.FinishedAt = time.Now()

	log.Info("🛑 Scenario %s finished: %d/%d steps passed", name, report.PassedCount(), len(report.Steps))
	return report, nil
}

func (r *Runner) setup() error {
	if r.Structure == nil {
		if err := r.Env.Setup(); err != nil {
			return fmt.Errorf("failed to set up environment: %w", err)
		}
		return nil
	}
	if err := r.Env.SetupWith(r.Structure); err != nil {
		return fmt.Errorf("failed to set up environment: %w", err)
	}
	return nil
}

// wait lets the tasks tick for the run duration or until ctx is done.
func (r *Runner) wait(ctx context.Context) {
	if r.Duration <= 0 {
		return
	}
	select {
	case <-ctx.Done():
		log.Warn("⚠️ Scenario interrupted: %v", ctx.Err())
	case <-time.After(r.Duration):
	}
}

// handleVote is the !vote prefix command. It records the author's choice
// and acknowledges the message with a reaction.
func (s *session) handleVote(ctx context.Context, msg *models.Message, args []string) error {
	if len(args) == 0 {
		msg.AddReaction(voteUnparsed)
		return nil
	}
	s.votes[msg.Author.Name] = strings.ToLower(args[0])
	msg.AddReaction(voteAccepted)
	log.Debug("🤖 Recorded %s vote from %s", args[0], msg.Author.Name)
	return nil
}

func (s *session) voteCount() int {
	return len(s.votes)
}

func (s *session) voters() []string {
	names := make([]string, 0, len(s.votes))
	for name := range s.votes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
