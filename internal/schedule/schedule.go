// Package schedule provides cancellable deferred tasks for the drag engine.
//
// Drag sessions own timers (drag-start delay, animation completion, ghost
// fade-out). Modeling them as explicit tasks grouped per owner lets a
// session cancel everything it scheduled as a unit when it ends, so no
// stale callback can touch a torn-down session's visuals.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is one scheduled callback. Cancel is idempotent and guarantees the
// callback will not run after it returns.
type Task interface {
	// Cancel stops the task if it has not fired yet.
	Cancel()

	// Done returns true once the task has fired or been cancelled.
	Done() bool
}

// Scheduler defers callbacks. Implementations must run callbacks
// sequentially with respect to the caller's event loop discipline; the
// engine never relies on callbacks racing its handlers.
type Scheduler interface {
	// After schedules fn to run after d. A zero or negative duration runs
	// fn synchronously before After returns.
	After(d time.Duration, fn func()) Task
}

// Wall is the production Scheduler backed by time.AfterFunc.
type Wall struct{}

// NewWall creates a wall-clock scheduler.
func NewWall() *Wall {
	return &Wall{}
}

// After implements Scheduler.
func (w *Wall) After(d time.Duration, fn func()) Task {
	t := &wallTask{}
	if d <= 0 {
		fn()
		t.done.Store(true)
		return t
	}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		cancelled := t.cancelled
		t.mu.Unlock()
		if !cancelled {
			fn()
		}
		t.done.Store(true)
	})
	return t
}

type wallTask struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	done      atomic.Bool
}

func (t *wallTask) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	timer := t.timer
	t.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	t.done.Store(true)
}

func (t *wallTask) Done() bool {
	return t.done.Load()
}

// Group tracks tasks owned by one drag session so they can be cancelled as
// a unit.
type Group struct {
	mu    sync.Mutex
	sched Scheduler
	tasks []Task
}

// NewGroup creates a task group over the given scheduler.
func NewGroup(sched Scheduler) *Group {
	return &Group{sched: sched}
}

// After schedules fn through the group's scheduler and tracks the task.
func (g *Group) After(d time.Duration, fn func()) Task {
	t := g.sched.After(d, fn)
	g.mu.Lock()
	g.tasks = append(g.tasks, t)
	// Opportunistically drop completed tasks so long sessions do not
	// accumulate dead entries.
	live := g.tasks[:0]
	for _, task := range g.tasks {
		if !task.Done() {
			live = append(live, task)
		}
	}
	g.tasks = live
	g.mu.Unlock()
	return t
}

// CancelAll cancels every pending task in the group.
func (g *Group) CancelAll() {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}
