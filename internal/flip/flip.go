// Package flip animates layout changes with the First-Last-Invert-Play
// technique.
//
// The animator measures affected elements, lets a callback perform the real
// structural mutation, then applies the inverse translation so nothing
// appears to move, and releases it toward neutral over the configured
// duration. Layout reads are batched before any write, so one animated step
// never interleaves measurement with mutation.
package flip

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/dragstorm/internal/config"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/schedule"
)

// Animator drives FLIP transitions for one zone's elements. At most one
// animation is in flight per element; starting another discards the first
// after resetting the element to neutral.
type Animator struct {
	mu       sync.Mutex
	sched    schedule.Scheduler
	log      zerolog.Logger
	duration time.Duration
	easing   config.Easing
	inflight map[*dom.Element]*animation
}

type animation struct {
	delta dom.Point
	start time.Time
	dur   time.Duration
	ease  config.Easing
	task  schedule.Task
}

// Option configures an Animator.
type Option func(*Animator)

// WithScheduler sets the task scheduler. Tests pass schedule.Manual.
func WithScheduler(s schedule.Scheduler) Option {
	return func(a *Animator) {
		if s != nil {
			a.sched = s
		}
	}
}

// WithLogger sets the logger for degradation reports.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Animator) {
		a.log = log
	}
}

// WithDuration sets the transition duration. Zero disables animation.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		a.duration = d
	}
}

// WithEasing sets the timing curve.
func WithEasing(e config.Easing) Option {
	return func(a *Animator) {
		a.easing = e
	}
}

// New creates an animator. Defaults: wall-clock scheduler, 150ms ease-out,
// no logging.
func New(opts ...Option) *Animator {
	a := &Animator{
		sched:    schedule.NewWall(),
		log:      zerolog.Nop(),
		duration: 150 * time.Millisecond,
		easing:   config.EaseOut,
		inflight: make(map[*dom.Element]*animation),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetDuration changes the transition duration for subsequent animations.
func (a *Animator) SetDuration(d time.Duration) {
	a.mu.Lock()
	a.duration = d
	a.mu.Unlock()
}

// SetEasing changes the timing curve for subsequent animations.
func (a *Animator) SetEasing(e config.Easing) {
	a.mu.Lock()
	a.easing = e
	a.mu.Unlock()
}

// AnimateReorder runs mutate and animates every element whose rectangle it
// changed. mutate always runs exactly once, synchronously. With a zero
// duration or no elements the call is a pure passthrough.
func (a *Animator) AnimateReorder(elements []*dom.Element, mutate func()) {
	a.mu.Lock()
	dur, ease := a.duration, a.easing
	a.mu.Unlock()

	if dur <= 0 || len(elements) == 0 {
		mutate()
		return
	}

	// First: batch all reads before the structural write.
	first := make([]dom.Rect, len(elements))
	for i, el := range elements {
		first[i] = el.BoundingRect()
	}

	// Last: the mutation reflows the document synchronously.
	mutate()

	for i, el := range elements {
		if el.Document() == nil {
			// Removed by the mutation; nothing left to animate.
			a.Cancel(el)
			continue
		}
		last := el.LayoutRect()
		delta := first[i].Origin().Sub(last.Origin())
		if math.Abs(delta.X) < 0.5 && math.Abs(delta.Y) < 0.5 {
			a.Cancel(el)
			continue
		}
		a.play(el, delta, dur, ease)
	}
}

// AnimateInsert fades a freshly inserted element in from transparent.
func (a *Animator) AnimateInsert(el *dom.Element) {
	a.fadeTo(el, 0, el.Style.Opacity, nil)
}

// AnimateRemove fades the element out and calls onDone when the fade
// completes. onDone typically detaches the element. With a zero duration
// onDone runs synchronously.
func (a *Animator) AnimateRemove(el *dom.Element, onDone func()) {
	a.fadeTo(el, el.Style.Opacity, 0, onDone)
}

// AnimateGhostIn fades a ghost proxy in to its working opacity.
func (a *Animator) AnimateGhostIn(el *dom.Element) {
	target := el.Style.Opacity
	a.fadeTo(el, 0, target, nil)
}

// AnimateGhostOut fades a ghost proxy out and calls onDone when finished.
func (a *Animator) AnimateGhostOut(el *dom.Element, onDone func()) {
	a.fadeTo(el, el.Style.Opacity, 0, onDone)
}

// Cancel discards the element's in-flight animation, resetting its
// transform and transition state to neutral. It is a no-op for elements
// with nothing in flight.
func (a *Animator) Cancel(el *dom.Element) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked(el)
}

func (a *Animator) cancelLocked(el *dom.Element) {
	anim, ok := a.inflight[el]
	if !ok {
		return
	}
	anim.task.Cancel()
	delete(a.inflight, el)
	el.ClearTransform()
}

// CancelAll discards every in-flight animation.
func (a *Animator) CancelAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for el := range a.inflight {
		a.cancelLocked(el)
	}
}

// Animating returns true if the element has an in-flight animation.
func (a *Animator) Animating(el *dom.Element) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inflight[el]
	return ok
}

// RenderOffset returns the eased translation a renderer should paint the
// element with at time now. Elements with nothing in flight report their
// raw style translation.
func (a *Animator) RenderOffset(el *dom.Element, now time.Time) dom.Point {
	a.mu.Lock()
	anim, ok := a.inflight[el]
	a.mu.Unlock()
	if !ok {
		return dom.Point{X: el.Style.TranslateX, Y: el.Style.TranslateY}
	}
	t := float64(now.Sub(anim.start)) / float64(anim.dur)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	remain := 1 - easeValue(anim.ease, t)
	return dom.Point{X: anim.delta.X * remain, Y: anim.delta.Y * remain}
}

// play applies the invert transform and schedules the release to neutral.
// Failures applying the transform are contained per element: the element is
// reset to neutral and the reorder continues.
func (a *Animator) play(el *dom.Element, delta dom.Point, dur time.Duration, ease config.Easing) {
	defer func() {
		if r := recover(); r != nil {
			el.ClearTransform()
			a.mu.Lock()
			delete(a.inflight, el)
			a.mu.Unlock()
			a.log.Error().
				Str("element", el.ID()).
				Interface("panic", r).
				Msg("flip transition failed; element reset to neutral")
		}
	}()

	a.mu.Lock()
	a.cancelLocked(el)

	el.Style.TranslateX = delta.X
	el.Style.TranslateY = delta.Y
	el.Style.Transitioning = true

	anim := &animation{
		delta: delta,
		start: time.Now(),
		dur:   dur,
		ease:  ease,
	}
	a.inflight[el] = anim
	// Safe while holding the lock: dur is positive, so After cannot run
	// the completion synchronously.
	anim.task = a.sched.After(dur, func() {
		a.mu.Lock()
		if a.inflight[el] == anim {
			delete(a.inflight, el)
			el.ClearTransform()
		}
		a.mu.Unlock()
	})
	a.mu.Unlock()
}

// fadeTo runs a measured opacity transition from one value to another.
func (a *Animator) fadeTo(el *dom.Element, from, to float64, onDone func()) {
	a.mu.Lock()
	dur := a.duration
	a.mu.Unlock()

	if dur <= 0 {
		el.Style.Opacity = to
		if onDone != nil {
			onDone()
		}
		return
	}

	el.Style.Opacity = from
	el.Style.Transitioning = true
	a.sched.After(dur, func() {
		el.Style.Opacity = to
		el.Style.Transitioning = false
		if onDone != nil {
			onDone()
		}
	})
}

func easeValue(e config.Easing, t float64) float64 {
	switch e {
	case config.EaseIn:
		return t * t
	case config.EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - 2*(1-t)*(1-t)
	case config.EaseLinear:
		return t
	default: // ease-out
		return 1 - (1-t)*(1-t)
	}
}
