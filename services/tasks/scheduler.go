package tasks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
)

var ErrSchedulerClosed = errors.New("scheduler is closed")

// Scheduler is the single cooperative worker that task callbacks and
// scenario steps share, so no two of them ever touch the guild at once.
// A function passed to Run must not call Run itself.
type Scheduler struct {
	mu     sync.RWMutex
	closed bool
	pool   *workerpool.WorkerPool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		pool: workerpool.New(1), // Sequential processing
	}
}

// Run executes fn on the scheduler and waits for it. A panic in fn is returned as an error.
func (s *Scheduler) Run(fn func()) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSchedulerClosed
	}

	var panicErr error
	s.pool.SubmitWait(func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("scheduled function panicked: %v", r)
			}
		}()
		fn()
	})
	return panicErr
}

// Close waits for queued work and stops the worker. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.pool.StopWait()
}
