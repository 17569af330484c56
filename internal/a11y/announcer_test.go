package a11y

import (
	"strings"
	"testing"

	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
)

func TestAnnouncerMessages(t *testing.T) {
	var msgs []string
	a := NewAnnouncer(func(s string) { msgs = append(msgs, s) })
	bus := event.NewBus()
	a.Attach(bus)
	defer a.Detach()

	item := dom.NewElement(10, 10)

	tests := []struct {
		name string
		evt  event.Event
		want string
	}{
		{
			"start",
			event.Event{Type: event.Start, Item: item, Items: []*dom.Element{item}, OldIndex: 2},
			"Lifted item at position 3.",
		},
		{
			"multi start",
			event.Event{Type: event.Start, Items: []*dom.Element{item, item}, OldIndex: 0},
			"Lifted 2 items from position 1.",
		},
		{
			"move same list",
			event.Event{Type: event.Move, From: "z", To: "z", NewIndex: 1},
			"Position 2.",
		},
		{
			"move other list",
			event.Event{Type: event.Move, From: "z", To: "y", NewIndex: 0},
			"Over another list, position 1.",
		},
		{
			"update",
			event.Event{Type: event.Update, OldIndex: 0, NewIndex: 3},
			"Dropped at position 4.",
		},
		{
			"add",
			event.Event{Type: event.Add, NewIndex: 1},
			"Moved into another list at position 2.",
		},
		{
			"release",
			event.Event{Type: event.Unchoose},
			"Released without moving.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs = msgs[:0]
			bus.Emit(tt.evt)
			if len(msgs) != 1 {
				t.Fatalf("messages = %v, want exactly one", msgs)
			}
			if msgs[0] != tt.want {
				t.Errorf("message = %q, want %q", msgs[0], tt.want)
			}
		})
	}
}

func TestAnnouncerEndOnlyForKeptPosition(t *testing.T) {
	var msgs []string
	a := NewAnnouncer(func(s string) { msgs = append(msgs, s) })
	bus := event.NewBus()
	a.Attach(bus)
	defer a.Detach()

	// A drop that moved the item is announced by update, not end.
	bus.Emit(event.Event{Type: event.End, OldIndex: 0, NewIndex: 2})
	if len(msgs) != 0 {
		t.Fatalf("end after a real move produced %v", msgs)
	}

	bus.Emit(event.Event{Type: event.End, OldIndex: 1, NewIndex: 1})
	if len(msgs) != 1 || !strings.Contains(msgs[0], "kept position 2") {
		t.Errorf("cancel announcement = %v", msgs)
	}
}

func TestAnnouncerDetach(t *testing.T) {
	var msgs []string
	a := NewAnnouncer(func(s string) { msgs = append(msgs, s) })
	bus := event.NewBus()
	a.Attach(bus)
	a.Detach()

	bus.Emit(event.Event{Type: event.Update})
	if len(msgs) != 0 {
		t.Errorf("detached announcer still spoke: %v", msgs)
	}
}

func TestAnnouncerNilSink(t *testing.T) {
	a := NewAnnouncer(nil)
	bus := event.NewBus()
	a.Attach(bus)
	bus.Emit(event.Event{Type: event.Update})
	a.Detach()
}
