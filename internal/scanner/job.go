// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/appshelf/appshelf/internal/software"
)

type (
	// Result is the single terminal report of a Job.
	Result struct {
		Outcome Outcome
		// Records holds every valid record found. For OutcomeCancelled it
		// holds the records found before the job stopped.
		Records []software.Record
		// Err is set for OutcomeError, and for OutcomeCancelled with the
		// cancellation cause.
		Err error
	}

	// Job is one scan started by Scanner.Scan. A Job is single-use.
	Job struct {
		state    atomic.Int32
		ctx      context.Context
		cancel   context.CancelCauseFunc
		roots    []string
		progress chan int
		done     chan struct{}
		result   Result
	}
)

func newJob(parent context.Context, roots []string) *Job {
	ctx, cancel := context.WithCancelCause(parent)
	j := &Job{
		ctx:    ctx,
		cancel: cancel,
		roots:  roots,
		// One slot per root so the worker never blocks on a slow reader.
		progress: make(chan int, len(roots)),
		done:     make(chan struct{}),
	}
	j.state.Store(int32(StateRunning))
	return j
}

// Roots returns the directories this job walks.
func (j *Job) Roots() []string { return slices.Clone(j.roots) }

// State returns the current job state (atomic, lock-free read).
func (j *Job) State() State { return State(j.state.Load()) }

// Progress returns a channel receiving the completed percentage
// (processed roots * 100 / total roots) after each root. It is closed when
// the job ends.
func (j *Job) Progress() <-chan int { return j.progress }

// Done returns a channel that is closed once the Result is available.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job ends and returns its Result.
func (j *Job) Wait() Result {
	<-j.done
	return j.result
}

// Result returns the job's Result and true if the job has ended, or a zero
// Result and false while it is still running.
func (j *Job) Result() (Result, bool) {
	select {
	case <-j.done:
		return j.result, true
	default:
		return Result{}, false
	}
}

// Cancel requests cooperative cancellation. It does not wait for the
// worker to stop; use Wait for that. Cancelling an ended job is a no-op.
func (j *Job) Cancel() {
	if j.state.CompareAndSwap(int32(StateRunning), int32(StateCancelling)) {
		j.cancel(ErrCancelled)
	}
}

// cancelled reports whether the worker should stop.
func (j *Job) cancelled() bool {
	return j.ctx.Err() != nil
}

// report publishes a progress percentage without blocking.
func (j *Job) report(pct int) {
	select {
	case j.progress <- pct:
	default:
	}
}

// finish stores the result and releases waiters. Must be called exactly
// once, by the worker.
func (j *Job) finish(r Result) {
	j.result = r
	j.state.Store(int32(StateDone))
	j.cancel(nil)
	close(j.progress)
	close(j.done)
}
