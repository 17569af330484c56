package zone

import (
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/group"
)

// Lift starts a drag session for the item without pointer gestures,
// bypassing the delay and distance thresholds. It is the entry point for
// keyboard-driven reordering.
func (c *Controller) Lift(input coordinator.InputID, item *dom.Element) error {
	opts := c.opts()
	if opts.Disabled {
		return ErrDisabled
	}
	if item == nil || item.Parent() != c.container {
		return ErrNotItem
	}
	if c.coord.ActiveDrag(input) != nil {
		return coordinator.ErrDragActive
	}

	p := item.LayoutRect().Center()
	pd := &pending{item: item, start: p}
	c.pending[input] = pd
	c.choose(input, pd)
	c.startDrag(input, pd, p)
	if c.coord.ActiveDrag(input) == nil {
		return ErrNoSession
	}
	return nil
}

// MoveCandidate retargets the session's candidate placement to the given
// zone and item index, the programmatic equivalent of hovering there. The
// index is clamped to the target's item range.
func (c *Controller) MoveCandidate(input coordinator.InputID, zoneID string, index int) error {
	s := c.coord.ActiveDrag(input)
	if s == nil || s.OriginZone != c.id {
		return ErrNoSession
	}
	target := c.coord.Zone(zoneID)
	if target == nil {
		return ErrUnknownZone
	}
	if target.Options().Disabled {
		return ErrDisabled
	}
	same := zoneID == c.id
	if same {
		if !c.opts().Sort {
			return ErrDisabled
		}
	} else if !c.coord.CanAcceptDrop(input, target.Policy()) {
		return group.ErrIncompatible
	}

	exclude := sessionSet(s)
	items := c.visibleItemsOf(target.Container(), exclude)
	if index < 0 {
		index = 0
	}
	if index > len(items) {
		index = len(items)
	}
	var before *dom.Element
	if index < len(items) {
		before = items[index]
	}

	affected := append(items, c.visibleItems(exclude)...)
	px := c.proxiesFor(input)
	c.withAnimation(dedup(affected), func() {
		px.UpdatePlaceholder(target.Container(), before)
	})

	s.TargetZone = zoneID
	s.TargetIndex = index
	c.setState(input, StateHovering)

	c.bus.Emit(event.Event{
		Type: event.Move, Zone: c.id, From: c.id, To: zoneID,
		Item: s.Items[0], Items: s.Items,
		OldIndex: s.OriginIndices[0], NewIndex: index,
		PullMode: s.PullMode.String(),
	})
	return nil
}

// Drop commits the session at its current candidate. A session with no
// candidate is cancelled instead.
func (c *Controller) Drop(input coordinator.InputID) error {
	s := c.coord.ActiveDrag(input)
	if s == nil || s.OriginZone != c.id {
		return ErrNoSession
	}
	if s.TargetZone == "" {
		c.CancelDrag(input)
		return nil
	}
	c.performDrop(input, s)
	return nil
}
