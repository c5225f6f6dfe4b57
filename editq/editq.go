// Package editq provides the edit commit queue: a debounce with a two-state
// contract (Idle, Pending) that retains at most one deferred action. Queueing
// while Pending discards the previously queued action and restarts the quiet
// window, so only the newest edit in a burst ever commits. This lossy
// coalescing is deliberate — it exists to avoid redundant re-renders, not to
// batch every edit.
package editq

import (
	"log/slog"
	"time"
)

// Scheduler runs fn once after d and returns a cancel function. The default
// uses time.AfterFunc; a GUI embedding supplies one that marshals fn back
// onto the event goroutine, and tests supply one that fires on demand.
type Scheduler func(d time.Duration, fn func()) (cancel func())

// Options tunes the queue.
type Options struct {
	// Window is the quiet period before the retained action runs.
	// Default: 250ms.
	Window time.Duration
	// Scheduler overrides the default time.AfterFunc scheduler.
	Scheduler Scheduler
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Window <= 0 {
		o.Window = 250 * time.Millisecond
	}
	if o.Scheduler == nil {
		o.Scheduler = func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Queue holds at most one pending action. It is not safe for concurrent use:
// all methods, and the scheduled callback, must run on the same goroutine.
type Queue struct {
	opts    Options
	pending func()
	cancel  func()

	// Counters for the stats line in the shell.
	queued    int64
	discarded int64
	committed int64
}

// New creates an idle queue.
func New(opts Options) *Queue {
	opts.defaults()
	return &Queue{opts: opts}
}

// Pending reports whether an action is waiting for the window to expire.
func (q *Queue) Pending() bool { return q.pending != nil }

// Queue retains fn and (re)starts the quiet window. Any previously pending
// action is discarded unrun.
func (q *Queue) Queue(fn func()) {
	q.queued++
	if q.pending != nil {
		q.discarded++
		q.cancel()
		q.opts.Logger.Debug("editq: superseded pending edit")
	}
	q.pending = fn
	q.cancel = q.opts.Scheduler(q.opts.Window, q.fire)
}

// Flush runs any pending action immediately instead of waiting for the
// window. Used before save so the serialized document reflects every edit
// the user has confirmed.
func (q *Queue) Flush() {
	if q.pending == nil {
		return
	}
	q.cancel()
	q.fire()
}

// Stop discards any pending action without running it.
func (q *Queue) Stop() {
	if q.pending == nil {
		return
	}
	q.cancel()
	q.pending = nil
	q.cancel = nil
	q.discarded++
}

// Stats are point-in-time counters.
type Stats struct {
	Queued    int64
	Discarded int64
	Committed int64
}

// Stats returns the current counters.
func (q *Queue) Stats() Stats {
	return Stats{Queued: q.queued, Discarded: q.discarded, Committed: q.committed}
}

func (q *Queue) fire() {
	fn := q.pending
	if fn == nil {
		return
	}
	q.pending = nil
	q.cancel = nil
	q.committed++
	fn()
}
