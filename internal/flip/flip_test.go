package flip

import (
	"testing"
	"time"

	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/schedule"
)

func newTestZone(heights ...float64) (*dom.Document, *dom.Element, []*dom.Element) {
	doc := dom.NewDocument(200, 400)
	zone := dom.NewElement(80, 400)
	doc.Root().AppendChild(zone)
	items := make([]*dom.Element, 0, len(heights))
	for _, h := range heights {
		it := dom.NewElement(80, h)
		zone.AppendChild(it)
		items = append(items, it)
	}
	return doc, zone, items
}

func TestAnimateReorder_InvertsThenReleases(t *testing.T) {
	_, zone, items := newTestZone(20, 20, 20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	// Move the last item to the front.
	a.AnimateReorder(items, func() {
		zone.InsertBefore(items[2], items[0])
	})

	// Immediately after, every moved element paints at its old position.
	if got := items[2].BoundingRect().Y; got != 40 {
		t.Errorf("moved item paints at y=%v, want 40 (its old spot)", got)
	}
	if got := items[0].BoundingRect().Y; got != 0 {
		t.Errorf("displaced item paints at y=%v, want 0", got)
	}
	if !a.Animating(items[2]) {
		t.Error("expected in-flight animation for the moved item")
	}

	// Layout already reflects the new order underneath the transforms.
	if got := items[2].LayoutRect().Y; got != 0 {
		t.Errorf("layout y = %v, want 0", got)
	}

	// Completion clears transforms; elements land in their new spots.
	sched.Advance(100 * time.Millisecond)
	if a.Animating(items[2]) {
		t.Error("expected animation to be finished")
	}
	if got := items[2].BoundingRect().Y; got != 0 {
		t.Errorf("after completion, y = %v, want 0", got)
	}
	if items[2].Style.Transitioning {
		t.Error("transition flag must be cleared")
	}
}

func TestAnimateReorder_MutateRunsExactlyOnce(t *testing.T) {
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	runs := 0
	a.AnimateReorder(nil, func() { runs++ })
	if runs != 1 {
		t.Errorf("mutate ran %d times, want 1", runs)
	}
	if sched.Pending() != 0 {
		t.Error("empty element set must produce no animation")
	}
}

func TestAnimateReorder_ZeroDurationIsPassthrough(t *testing.T) {
	_, zone, items := newTestZone(20, 20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(0))

	runs := 0
	a.AnimateReorder(items, func() {
		runs++
		zone.InsertBefore(items[1], items[0])
	})

	if runs != 1 {
		t.Errorf("mutate ran %d times, want 1", runs)
	}
	if sched.Pending() != 0 {
		t.Error("zero duration must schedule nothing")
	}
	if got := items[1].BoundingRect().Y; got != 0 {
		t.Errorf("y = %v, want 0 immediately", got)
	}
}

func TestAnimateReorder_UnmovedElementsUntouched(t *testing.T) {
	_, zone, items := newTestZone(20, 20, 20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	// Swapping the last two leaves the first in place.
	a.AnimateReorder(items, func() {
		zone.InsertBefore(items[2], items[1])
	})

	if a.Animating(items[0]) {
		t.Error("unmoved element must not animate")
	}
}

func TestAnimateReorder_ConcurrentReorderCancelsPrevious(t *testing.T) {
	_, zone, items := newTestZone(20, 20, 20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	a.AnimateReorder(items, func() {
		zone.InsertBefore(items[2], items[0])
	})
	sched.Advance(30 * time.Millisecond)

	// Second reorder mid-flight: measured from the painted position, and
	// the first animation's completion must not clobber the second.
	a.AnimateReorder(items, func() {
		zone.InsertBefore(items[2], items[1])
	})
	sched.Advance(70 * time.Millisecond) // first task's original deadline

	if !a.Animating(items[2]) {
		t.Error("second animation must survive the first task's deadline")
	}

	sched.Advance(30 * time.Millisecond)
	if a.Animating(items[2]) {
		t.Error("second animation must complete at its own deadline")
	}
	if got := items[2].BoundingRect().Y; got != 20 {
		t.Errorf("y = %v, want 20", got)
	}
}

func TestCancel_ResetsToNeutral(t *testing.T) {
	_, zone, items := newTestZone(20, 20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	a.AnimateReorder(items, func() {
		zone.InsertBefore(items[1], items[0])
	})
	a.Cancel(items[1])

	if items[1].Style.TranslateX != 0 || items[1].Style.TranslateY != 0 {
		t.Error("cancel must reset the transform")
	}
	if items[1].Style.Transitioning {
		t.Error("cancel must clear the transition flag")
	}
	sched.Advance(time.Second) // stale completion must be harmless
	if got := items[1].BoundingRect().Y; got != 0 {
		t.Errorf("y = %v, want 0", got)
	}
}

func TestAnimateRemove_FadesThenCallsDone(t *testing.T) {
	_, _, items := newTestZone(20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	done := false
	a.AnimateRemove(items[0], func() { done = true })
	if done {
		t.Fatal("onDone must wait for the fade")
	}
	if items[0].Style.Opacity != 1 {
		// fade starts from the current opacity
		t.Errorf("opacity = %v, want 1 at start", items[0].Style.Opacity)
	}
	sched.Advance(100 * time.Millisecond)
	if !done {
		t.Error("onDone must run at completion")
	}
	if items[0].Style.Opacity != 0 {
		t.Errorf("opacity = %v, want 0", items[0].Style.Opacity)
	}
}

func TestAnimateRemove_ZeroDurationSynchronous(t *testing.T) {
	_, _, items := newTestZone(20)
	a := New(WithScheduler(schedule.NewManual()), WithDuration(0))

	done := false
	a.AnimateRemove(items[0], func() { done = true })
	if !done {
		t.Error("zero duration must run onDone synchronously")
	}
}

func TestRenderOffset_EasesTowardNeutral(t *testing.T) {
	_, zone, items := newTestZone(20, 20)
	sched := schedule.NewManual()
	a := New(WithScheduler(sched), WithDuration(100*time.Millisecond))

	a.AnimateReorder(items, func() {
		zone.InsertBefore(items[1], items[0])
	})

	start := time.Now()
	at0 := a.RenderOffset(items[1], start)
	if at0.Y < 19 || at0.Y > 20 {
		t.Errorf("offset near t=0 is %v, want ~20", at0.Y)
	}
	mid := a.RenderOffset(items[1], start.Add(50*time.Millisecond))
	if mid.Y <= 0 || mid.Y >= at0.Y {
		t.Errorf("offset at midpoint is %v, want between 0 and %v", mid.Y, at0.Y)
	}
	atEnd := a.RenderOffset(items[1], start.Add(time.Second))
	if atEnd.Y != 0 {
		t.Errorf("offset at t=end is %v, want 0", atEnd.Y)
	}
}
