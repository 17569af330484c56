package a11y

import (
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/zone"
)

// Command is one discrete keyboard action.
type Command uint8

const (
	// CmdFocusNext moves item focus forward; while dragging it advances
	// the candidate position instead.
	CmdFocusNext Command = iota
	// CmdFocusPrev is the reverse of CmdFocusNext.
	CmdFocusPrev
	// CmdGrab lifts the focused item, or drops the lifted one.
	CmdGrab
	// CmdCancel aborts the drag with no structural change.
	CmdCancel
	// CmdZoneNext retargets the candidate into the next compatible zone.
	CmdZoneNext
	// CmdZonePrev retargets the candidate into the previous compatible zone.
	CmdZonePrev
)

// Keyboard drives one zone's controller from discrete commands, giving a
// non-pointer input full reorder capability. It keeps an item focus while
// idle and a candidate position while dragging.
type Keyboard struct {
	ctrl  *zone.Controller
	coord *coordinator.Coordinator
	input coordinator.InputID
	focus int
}

// NewKeyboard creates a keyboard driver over the controller.
func NewKeyboard(ctrl *zone.Controller, coord *coordinator.Coordinator, input coordinator.InputID) *Keyboard {
	return &Keyboard{ctrl: ctrl, coord: coord, input: input}
}

// Focus returns the focused item index while no drag is active.
func (k *Keyboard) Focus() int { return k.focus }

// Handle executes one command. Commands that need an active drag return
// the controller's error when there is none.
func (k *Keyboard) Handle(cmd Command) error {
	s := k.coord.ActiveDrag(k.input)
	if s != nil && s.OriginZone == k.ctrl.ID() {
		return k.handleDragging(cmd, s.TargetZone, s.TargetIndex)
	}
	return k.handleIdle(cmd)
}

func (k *Keyboard) handleIdle(cmd Command) error {
	items := k.ctrl.Items()
	if k.focus >= len(items) {
		k.focus = len(items) - 1
	}
	if k.focus < 0 {
		k.focus = 0
	}

	switch cmd {
	case CmdFocusNext:
		if k.focus < len(items)-1 {
			k.focus++
		}
		return nil
	case CmdFocusPrev:
		if k.focus > 0 {
			k.focus--
		}
		return nil
	case CmdGrab:
		if len(items) == 0 {
			return zone.ErrNotItem
		}
		return k.ctrl.Lift(k.input, items[k.focus])
	case CmdCancel:
		return nil
	default:
		return zone.ErrNoSession
	}
}

func (k *Keyboard) handleDragging(cmd Command, targetZone string, targetIndex int) error {
	switch cmd {
	case CmdFocusNext:
		return k.ctrl.MoveCandidate(k.input, targetZone, targetIndex+1)
	case CmdFocusPrev:
		return k.ctrl.MoveCandidate(k.input, targetZone, targetIndex-1)
	case CmdGrab:
		return k.ctrl.Drop(k.input)
	case CmdCancel:
		k.ctrl.CancelDrag(k.input)
		return nil
	case CmdZoneNext:
		return k.cycleZone(targetZone, 1)
	case CmdZonePrev:
		return k.cycleZone(targetZone, -1)
	default:
		return nil
	}
}

// cycleZone retargets the candidate into the nearest registered zone, in
// registration order, that accepts the session. Incompatible zones are
// skipped; with no other acceptor the candidate stays put.
func (k *Keyboard) cycleZone(current string, step int) error {
	zones := k.coord.Zones()
	if len(zones) < 2 {
		return nil
	}
	start := 0
	for i, z := range zones {
		if z.ID() == current {
			start = i
			break
		}
	}
	n := len(zones)
	for off := 1; off < n; off++ {
		idx := ((start+off*step)%n + n) % n
		cand := zones[idx]
		if cand.ID() == current {
			continue
		}
		if err := k.ctrl.MoveCandidate(k.input, cand.ID(), 0); err == nil {
			return nil
		}
	}
	return nil
}
