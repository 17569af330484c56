package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Scheduler for tests. Time only moves when
// Advance is called; due tasks fire synchronously inside Advance, in
// deadline order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq int
	pending []*manualTask
}

// NewManual creates a manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Task {
	if d <= 0 {
		fn()
		t := &manualTask{}
		t.fired = true
		return t
	}
	m.mu.Lock()
	t := &manualTask{
		sched:    m,
		deadline: m.now + d,
		seq:      m.nextSeq,
		fn:       fn,
	}
	m.nextSeq++
	m.pending = append(m.pending, t)
	m.mu.Unlock()
	return t
}

// Advance moves time forward by d and fires every task whose deadline has
// passed, in deadline order (insertion order for equal deadlines).
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualTask
	rest := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled && t.deadline <= m.now {
			due = append(due, t)
		} else if !t.cancelled {
			rest = append(rest, t)
		}
	}
	m.pending = rest
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.mu.Lock()
		cancelled := t.cancelled
		t.fired = true
		t.mu.Unlock()
		if !cancelled {
			t.fn()
		}
	}
}

// Pending returns the number of tasks waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

type manualTask struct {
	mu        sync.Mutex
	sched     *Manual
	deadline  time.Duration
	seq       int
	fn        func()
	cancelled bool
	fired     bool
}

func (t *manualTask) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

func (t *manualTask) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired || t.cancelled
}
