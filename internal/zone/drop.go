package zone

import (
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/ghost"
	"github.com/dshills/dragstorm/internal/group"
)

// performDrop commits the session at its candidate placement. The tree
// mutation runs inside one animated callback, so displaced neighbors slide
// while the dragged items land.
func (c *Controller) performDrop(input coordinator.InputID, s *coordinator.Session) {
	target := c.coord.Zone(s.TargetZone)
	if target == nil {
		// Candidate zone destroyed mid-drag.
		c.CancelDrag(input)
		return
	}

	opts := c.opts()
	same := s.TargetZone == c.id
	clone := s.PullMode == group.Clone && !same
	revert := clone && s.Policy().RevertClone
	container := target.Container()

	origin := -1
	if len(s.OriginIndices) > 0 {
		origin = s.OriginIndices[0]
	}

	px := c.proxiesFor(input)

	// The anchor sibling is resolved from the placeholder before teardown;
	// the recorded index can go stale under concurrent mutations.
	before := c.dropAnchor(s, px.Placeholder(), container)

	var clones []*dom.Element
	if clone {
		clones = make([]*dom.Element, len(s.Items))
		for i, it := range s.Items {
			clones[i] = it.Clone()
		}
	}

	// Items physically placed at the target. With revertClone the
	// originals travel and the clones hold their source slots; otherwise
	// the clones travel and the source is untouched.
	placed := s.Items
	if clone && !revert {
		placed = clones
	}

	exclude := sessionSet(s)
	affected := append(c.visibleItems(exclude), c.visibleItemsOf(container, exclude)...)
	affected = append(affected, s.Items...)
	affected = append(affected, clones...)

	px.DestroyGhost()

	c.withAnimation(dedup(affected), func() {
		px.DestroyPlaceholder()
		for _, it := range s.Items {
			it.Style.Hidden = false
			it.RemoveClass(opts.ChosenClass)
		}
		c.doc.Reflow()

		if revert {
			for i, it := range s.Items {
				it.Parent().InsertBefore(clones[i], it)
			}
		}
		c.placement.Place(Placement{
			Session: s,
			Source:  c.container,
			Target:  container,
			Items:   placed,
			Before:  before,
			Index:   s.TargetIndex,
		})
	})

	newIdx := placed[0].Index()
	c.destroyProxies(input)
	c.emitDropEvents(s, target, same, clone, clones, placed, origin, newIdx)

	c.emitEnd(s, target.ID(), origin, newIdx)
	c.setState(input, StateIdle)
	c.coord.EndDrag(input)
}

// dropAnchor resolves the sibling the dragged items will be inserted in
// front of, preferring the live placeholder position over the session's
// recorded index.
func (c *Controller) dropAnchor(s *coordinator.Session, placeholder, container *dom.Element) *dom.Element {
	if placeholder != nil && placeholder.Parent() == container {
		sibs := container.Children()
		for i := placeholder.Index() + 1; i < len(sibs); i++ {
			if sibs[i].Style.Hidden || sibs[i].Attr(ghost.PlaceholderAttr) != "" {
				continue
			}
			return sibs[i]
		}
		return nil
	}
	items := c.visibleItemsOf(container, sessionSet(s))
	if s.TargetIndex >= 0 && s.TargetIndex < len(items) {
		return items[s.TargetIndex]
	}
	return nil
}

// emitDropEvents publishes the structural notifications for a committed
// drop: update/sort for an in-zone reorder, remove/add/sort (or clone/add/
// sort) for a cross-zone transfer.
func (c *Controller) emitDropEvents(s *coordinator.Session, target coordinator.Zone, same, clone bool, clones, placed []*dom.Element, origin, newIdx int) {
	primary := s.Items[0]
	mode := s.PullMode.String()

	if same {
		if newIdx == origin {
			return
		}
		c.bus.Emit(event.Event{
			Type: event.Update, Zone: c.id, From: c.id, To: c.id,
			Item: primary, Items: s.Items,
			OldIndex: origin, NewIndex: newIdx,
		})
		c.emitSort(origin, newIdx)
		return
	}

	if clone {
		c.bus.Emit(event.Event{
			Type: event.Clone, Zone: c.id, From: c.id, To: target.ID(),
			Item: primary, Items: s.Items, CloneItem: clones[0],
			OldIndex: origin, NewIndex: newIdx,
			PullMode: mode,
		})
	} else {
		c.bus.Emit(event.Event{
			Type: event.Remove, Zone: c.id, From: c.id, To: target.ID(),
			Item: primary, Items: s.Items,
			OldIndex: origin, NewIndex: newIdx,
			PullMode: mode,
		})
	}

	target.Bus().Emit(event.Event{
		Type: event.Add, Zone: target.ID(), From: c.id, To: target.ID(),
		Item: placed[0], Items: placed,
		OldIndex: origin, NewIndex: newIdx,
		PullMode: mode,
	})
	target.Bus().Emit(event.Event{
		Type: event.Sort, Zone: target.ID(), From: c.id, To: target.ID(),
		OldIndex: origin, NewIndex: newIdx,
	})
}
