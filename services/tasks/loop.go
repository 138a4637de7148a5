package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"daosim/core/log"
)

var ErrAlreadyRunning = errors.New("task is already running")

const defaultTickDelay = 100 * time.Millisecond

// timeNow is swapped in tests.
var timeNow = time.Now

type Callback func(ctx context.Context) error

// Schedule is the configuration half of a periodic task. Bind attaches a
// callback and returns the runnable Loop.
type Schedule struct {
	Hours   int
	Minutes int
	Seconds int
}

func (s Schedule) Interval() time.Duration {
	return time.Duration(s.Hours)*time.Hour +
		time.Duration(s.Minutes)*time.Minute +
		time.Duration(s.Seconds)*time.Second
}

func (s Schedule) Bind(callback Callback, opts ...LoopOption) *Loop {
	loop := &Loop{
		schedule:  s,
		callback:  callback,
		tickDelay: defaultTickDelay,
	}
	for _, opt := range opts {
		opt(loop)
	}
	return loop
}

type LoopOption func(*Loop)

func WithName(name string) LoopOption {
	return func(l *Loop) {
		l.name = name
	}
}

// WithTickDelay sets the pause between iterations.
func WithTickDelay(delay time.Duration) LoopOption {
	return func(l *Loop) {
		l.tickDelay = delay
	}
}

// WithScheduler runs every callback on the shared cooperative scheduler.
func WithScheduler(scheduler *Scheduler) LoopOption {
	return func(l *Loop) {
		l.scheduler = scheduler
	}
}

// Loop runs its callback repeatedly until stopped. A callback is marked in
// flight under the same lock Stop takes, so once Stop returns no new
// callback begins; one already in flight may finish. Callback errors and
// panics are logged and counted and the loop keeps going.
type Loop struct {
	schedule   Schedule
	callback   Callback
	tickDelay  time.Duration
	scheduler  *Scheduler
	beforeLoop func(ctx context.Context)
	afterLoop  func(ctx context.Context)

	mu            sync.Mutex
	name          string
	running       bool
	cancel        context.CancelFunc
	done          chan struct{}
	nextIteration time.Time
	inFlight      bool
	iterations    int
	failures      int
	lastErr       error
}

func (l *Loop) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

func (l *Loop) SetName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = name
}

func (l *Loop) Schedule() Schedule {
	return l.schedule
}

// BeforeLoop registers a hook that runs once in the loop goroutine before the first iteration.
func (l *Loop) BeforeLoop(fn func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.beforeLoop = fn
}

// AfterLoop registers a hook that runs once after the loop exits.
func (l *Loop) AfterLoop(fn func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.afterLoop = fn
}

func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return fmt.Errorf("failed to start task %s: %w", l.name, ErrAlreadyRunning)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.running = true
	l.cancel = cancel
	l.done = done
	l.nextIteration = timeNow().Add(l.schedule.Interval())

	log.Info("🔄 Starting task %s (interval %s)", l.name, l.schedule.Interval())
	go l.run(loopCtx, done, l.beforeLoop, l.afterLoop)
	return nil
}

// Stop flags the loop as stopped and cancels its context without waiting.
// It is safe to call before Start and more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false
	l.cancel()
	log.Info("🛑 Stopped task %s", l.name)
}

// StopWait stops the loop and waits for its goroutine to exit. It must not
// be called from inside the loop's own callback.
func (l *Loop) StopWait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	l.Stop()
	if done != nil {
		<-done
	}
}

func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// NextIteration is the projected time of the next run. It is zero until the loop starts.
func (l *Loop) NextIteration() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextIteration
}

// InFlight reports whether a callback has begun and not yet been recorded.
func (l *Loop) InFlight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

func (l *Loop) Iterations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.iterations
}

func (l *Loop) Failures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}

func (l *Loop) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// active reports whether the run identified by done should keep going.
func (l *Loop) active(ctx context.Context, done chan struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running && l.done == done
}

// begin checks that the run is still active and marks a callback in flight
// in one critical section. A callback either begins before Stop takes the
// lock or not at all.
func (l *Loop) begin(ctx context.Context, done chan struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running || l.done != done {
		return false
	}
	l.inFlight = true
	return true
}

func (l *Loop) run(ctx context.Context, done chan struct{}, before, after func(ctx context.Context)) {
	defer close(done)
	defer l.finish(done)
	if after != nil {
		defer after(context.WithoutCancel(ctx))
	}
	if before != nil {
		before(ctx)
	}

	for {
		if !l.active(ctx, done) {
			return
		}
		if err := l.runOnce(ctx, done); err != nil {
			log.Warn("⚠️ Task %s cannot continue: %v", l.Name(), err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.tickDelay):
		}
	}
}

// runOnce returns an error only when the loop cannot continue at all.
func (l *Loop) runOnce(ctx context.Context, done chan struct{}) error {
	if l.scheduler == nil {
		if l.begin(ctx, done) {
			l.record(l.invoke(ctx))
		}
		return nil
	}
	return l.scheduler.Run(func() {
		// the loop may have been stopped while this call was queued
		if l.begin(ctx, done) {
			l.record(l.invoke(ctx))
		}
	})
}

func (l *Loop) invoke(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", l.Name(), r)
		}
	}()
	return l.callback(ctx)
}

func (l *Loop) record(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inFlight = false
	l.iterations++
	l.nextIteration = timeNow().Add(l.schedule.Interval())
	if err != nil {
		l.failures++
		l.lastErr = err
		log.Error("❌ Task %s failed: %v", l.name, err)
		return
	}
	log.Debug("🔄 Task %s completed iteration %d", l.name, l.iterations)
}

// finish clears the running flag when the loop exits on its own, e.g. on parent context cancellation.
func (l *Loop) finish(done chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == done && l.running {
		l.running = false
		l.cancel()
	}
}

// ScheduledTask is anything that can report when it will next run.
type ScheduledTask interface {
	Name() string
	NextIteration() time.Time
}

// EvaluateTaskSchedule reports whether task is due within window of now.
// Overdue tasks count as due; a task that never started does not.
func EvaluateTaskSchedule(task ScheduledTask, window time.Duration) bool {
	next := task.NextIteration()
	if next.IsZero() {
		return false
	}
	return next.Sub(timeNow()) <= window
}
