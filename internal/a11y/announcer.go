package a11y

import (
	"fmt"

	"github.com/dshills/dragstorm/internal/event"
)

// Announcer formats drag lifecycle events as human sentences and hands
// them to an output sink (a screen reader bridge, a status line, a log).
// Positions are 1-based in the produced text.
type Announcer struct {
	out    func(string)
	unsubs []func()
}

// NewAnnouncer creates an announcer writing to out. A nil sink discards.
func NewAnnouncer(out func(string)) *Announcer {
	if out == nil {
		out = func(string) {}
	}
	return &Announcer{out: out}
}

// Attach subscribes the announcer to a zone's bus. Attach may be called
// for several buses; Detach drops them all.
func (a *Announcer) Attach(bus *event.Bus) {
	sub := func(t event.Type, f func(event.Event) string) {
		a.unsubs = append(a.unsubs, bus.On(t, func(e event.Event) {
			if msg := f(e); msg != "" {
				a.out(msg)
			}
		}))
	}
	sub(event.Start, announceStart)
	sub(event.Move, announceMove)
	sub(event.Update, announceUpdate)
	sub(event.Add, announceAdd)
	sub(event.Unchoose, announceRelease)
	sub(event.End, announceEnd)
	sub(event.Select, announceSelect)
	sub(event.Deselect, announceDeselect)
}

// Detach removes every subscription made by Attach.
func (a *Announcer) Detach() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
}

func announceStart(e event.Event) string {
	if len(e.Items) > 1 {
		return fmt.Sprintf("Lifted %d items from position %d.", len(e.Items), e.OldIndex+1)
	}
	return fmt.Sprintf("Lifted item at position %d.", e.OldIndex+1)
}

func announceMove(e event.Event) string {
	if e.From != e.To {
		return fmt.Sprintf("Over another list, position %d.", e.NewIndex+1)
	}
	return fmt.Sprintf("Position %d.", e.NewIndex+1)
}

func announceUpdate(e event.Event) string {
	return fmt.Sprintf("Dropped at position %d.", e.NewIndex+1)
}

func announceAdd(e event.Event) string {
	return fmt.Sprintf("Moved into another list at position %d.", e.NewIndex+1)
}

func announceRelease(event.Event) string {
	return "Released without moving."
}

func announceEnd(e event.Event) string {
	// A drop that changed something was already announced by update/add.
	if e.OldIndex == e.NewIndex {
		return fmt.Sprintf("Drag ended, item kept position %d.", e.OldIndex+1)
	}
	return ""
}

func announceSelect(e event.Event) string {
	return fmt.Sprintf("Item at position %d selected, %d in selection.", e.OldIndex+1, len(e.Items))
}

func announceDeselect(e event.Event) string {
	return fmt.Sprintf("Item at position %d deselected, %d in selection.", e.OldIndex+1, len(e.Items))
}
