package zone

import (
	"math"

	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/ghost"
	"github.com/dshills/dragstorm/internal/group"
)

// PointerDown classifies a press inside this zone. Eligible items enter
// the chosen state, optionally gated by the configured delay.
func (c *Controller) PointerDown(input coordinator.InputID, p dom.Point) {
	opts := c.opts()
	if opts.Disabled {
		return
	}
	if c.coord.ActiveDrag(input) != nil {
		// A stale session for this input; ignore the press.
		return
	}

	hit := c.doc.ElementAt(p)
	if hit == nil || !c.container.Contains(hit) || hit == c.container {
		return
	}
	item := c.itemOf(hit)
	if item == nil || item.Attr(ghost.PlaceholderAttr) != "" {
		return
	}

	if opts.Filter != "" && hit.Closest(opts.Filter, c.container) != nil {
		c.bus.Emit(event.Event{
			Type: event.Filter, Zone: c.id, From: c.id, To: c.id,
			Item: item, OldIndex: item.Index(), NewIndex: -1,
		})
		return
	}
	if opts.Handle != "" {
		h := hit.Closest(opts.Handle, c.container)
		if h == nil || !item.Contains(h) {
			return
		}
	}

	pd := &pending{item: item, start: p}
	c.pending[input] = pd
	if opts.Delay > 0 {
		pd.delayTask = c.sched.After(opts.Delay, func() {
			if c.pending[input] != pd {
				return
			}
			c.choose(input, pd)
		})
		c.setState(input, StateChosen)
		return
	}
	c.choose(input, pd)
}

// choose promotes a pending press to the chosen state.
func (c *Controller) choose(input coordinator.InputID, pd *pending) {
	pd.ready = true
	pd.item.AddClass(c.opts().ChosenClass)
	c.setState(input, StateChosen)
	c.bus.Emit(event.Event{
		Type: event.Choose, Zone: c.id, From: c.id, To: c.id,
		Item: pd.item, Items: []*dom.Element{pd.item},
		OldIndex: pd.item.Index(), NewIndex: -1,
	})
}

// PointerMove advances a pending or active drag for this input. The mux
// routes moves here while this zone originates the input's session.
func (c *Controller) PointerMove(input coordinator.InputID, p dom.Point) {
	if s := c.coord.ActiveDrag(input); s != nil {
		if s.OriginZone == c.id {
			c.dragMove(input, s, p)
		}
		return
	}

	pd, ok := c.pending[input]
	if !ok {
		return
	}
	opts := c.opts()
	moved := distance(p, pd.start)

	if !pd.ready {
		// Still inside the delay gate: early movement cancels the
		// pending drag rather than starting it.
		if moved > opts.TouchStartThreshold {
			c.clearPending(input)
			c.setState(input, StateIdle)
		}
		return
	}
	if moved >= opts.DragThreshold {
		c.startDrag(input, pd, p)
	}
}

// PointerUp completes the interaction: a chosen item that never dragged is
// released, an active session is dropped at its candidate placement, and a
// session without a candidate is cancelled.
func (c *Controller) PointerUp(input coordinator.InputID, p dom.Point) {
	if pd, ok := c.pending[input]; ok {
		item := pd.item
		c.clearPending(input)
		c.setState(input, StateIdle)
		c.bus.Emit(event.Event{
			Type: event.Unchoose, Zone: c.id, From: c.id, To: c.id,
			Item: item, OldIndex: item.Index(), NewIndex: -1,
		})
		return
	}

	s := c.coord.ActiveDrag(input)
	if s == nil || s.OriginZone != c.id {
		return
	}
	c.proxiesFor(input).UpdateGhostPosition(p.X, p.Y)
	if s.TargetZone == "" {
		c.CancelDrag(input)
		return
	}
	c.performDrop(input, s)
}

// CancelDrag aborts the input's interaction with no structural change.
// Ghost and placeholder are cleared synchronously, before this returns, so
// no later-queued event can observe a half-torn-down session.
func (c *Controller) CancelDrag(input coordinator.InputID) {
	if pd, ok := c.pending[input]; ok {
		item := pd.item
		c.clearPending(input)
		c.setState(input, StateIdle)
		c.bus.Emit(event.Event{
			Type: event.Unchoose, Zone: c.id, From: c.id, To: c.id,
			Item: item, OldIndex: item.Index(), NewIndex: -1,
		})
		return
	}

	s := c.coord.ActiveDrag(input)
	if s == nil || s.OriginZone != c.id {
		return
	}

	opts := c.opts()
	c.destroyProxies(input)
	for _, it := range s.Items {
		it.Style.Hidden = false
		it.RemoveClass(opts.ChosenClass)
		c.anim.Cancel(it)
	}
	c.doc.Reflow()

	origin := -1
	if len(s.OriginIndices) > 0 {
		origin = s.OriginIndices[0]
	}
	c.emitEnd(s, c.id, origin, origin)
	c.coord.EndDrag(input)
}

// startDrag registers the session and creates the drag proxies.
func (c *Controller) startDrag(input coordinator.InputID, pd *pending, p dom.Point) {
	opts := c.opts()

	items := []*dom.Element{pd.item}
	if opts.MultiDrag && c.IsSelected(pd.item) {
		if block := c.selectionBlock(); len(block) > 0 {
			items = block
		}
	}

	policy := opts.Group
	mode := group.Move
	if policy.Pull.Kind == group.PullClone {
		mode = group.Clone
	}

	s, err := c.coord.StartDrag(input, c.id, items, policy, mode)
	if err != nil {
		// Double start means a listener bug upstream; drop the pending
		// interaction rather than corrupt the registry.
		c.log.Warn().Err(err).Str("zone", c.id).Msg("drag start rejected")
		c.clearPending(input)
		c.setState(input, StateIdle)
		return
	}

	// The pending entry is consumed; the chosen marker stays on for the
	// session's lifetime.
	if pd.delayTask != nil {
		pd.delayTask.Cancel()
	}
	delete(c.pending, input)

	px := c.proxiesFor(input)
	c.anim.SetDuration(opts.Animation)
	g := px.CreateGhost(items, p, opts.GhostClass, opts.DragClass)
	c.anim.AnimateGhostIn(g)

	primary := items[0]
	placeholder := px.CreatePlaceholder(primary, opts.GhostClass)
	c.container.InsertBefore(placeholder, primary)
	for _, it := range items {
		it.Style.Hidden = true
	}
	c.doc.Reflow()

	// The origin slot is the initial candidate, so an immediate release
	// is a clean no-op drop.
	s.TargetZone = c.id
	s.TargetIndex = s.OriginIndices[0]
	c.setState(input, StateDragging)

	c.bus.Emit(event.Event{
		Type: event.Start, Zone: c.id, From: c.id, To: c.id,
		Item: primary, Items: items,
		OldIndex: s.OriginIndices[0], NewIndex: -1,
		PullMode: mode.String(),
	})
}

// dragMove updates the ghost and, when the pointer is over a zone that may
// accept the session, the candidate placement. Incompatible zones are
// rejected silently; that is the routine case while the pointer traverses
// the page.
func (c *Controller) dragMove(input coordinator.InputID, s *coordinator.Session, p dom.Point) {
	px := c.proxiesFor(input)
	px.UpdateGhostPosition(p.X, p.Y)

	target := c.coord.ZoneAt(p)
	if target == nil {
		return
	}
	topts := target.Options()
	if topts.Disabled {
		return
	}
	same := target.ID() == c.id
	if same {
		if !c.opts().Sort {
			return
		}
	} else if !c.coord.CanAcceptDrop(input, target.Policy()) {
		return
	}

	exclude := sessionSet(s)
	items := c.visibleItemsOf(target.Container(), exclude)
	idx := insertionIndex(p, items, target.Container().Axis(), topts.SwapThreshold, topts.InvertSwap)
	if idx == keepCurrent {
		return
	}
	var before *dom.Element
	if idx < len(items) {
		before = items[idx]
	}

	placeholder := px.Placeholder()
	if placeholder != nil && placeholderAt(placeholder, target.Container(), before) {
		// Already showing this candidate; re-inserting would flicker.
		s.TargetZone = target.ID()
		s.TargetIndex = idx
		return
	}

	affected := append(items, c.visibleItems(exclude)...)
	c.withAnimation(dedup(affected), func() {
		px.UpdatePlaceholder(target.Container(), before)
	})

	s.TargetZone = target.ID()
	s.TargetIndex = idx
	c.setState(input, StateHovering)

	c.bus.Emit(event.Event{
		Type: event.Move, Zone: c.id, From: c.id, To: target.ID(),
		Item: s.Items[0], Items: s.Items,
		OldIndex: s.OriginIndices[0], NewIndex: idx,
		PullMode: s.PullMode.String(),
	})
}

// itemOf maps an arbitrary descendant to the zone item containing it.
func (c *Controller) itemOf(el *dom.Element) *dom.Element {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.Parent() == c.container {
			return cur
		}
	}
	return nil
}

func (c *Controller) emitEnd(s *coordinator.Session, to string, oldIndex, newIndex int) {
	c.bus.Emit(event.Event{
		Type: event.End, Zone: c.id, From: c.id, To: to,
		Item: s.Items[0], Items: s.Items,
		OldIndex: oldIndex, NewIndex: newIndex,
		PullMode: s.PullMode.String(),
	})
}

func sessionSet(s *coordinator.Session) map[*dom.Element]bool {
	set := make(map[*dom.Element]bool, len(s.Items))
	for _, it := range s.Items {
		set[it] = true
	}
	return set
}

// placeholderAt reports whether the placeholder already sits in container
// directly before the given sibling.
func placeholderAt(placeholder, container, before *dom.Element) bool {
	if placeholder.Parent() != container {
		return false
	}
	idx := placeholder.Index()
	sibs := container.Children()
	for i := idx + 1; i < len(sibs); i++ {
		if sibs[i].Style.Hidden || sibs[i].Attr(ghost.PlaceholderAttr) != "" {
			continue
		}
		return sibs[i] == before
	}
	return before == nil
}

func dedup(els []*dom.Element) []*dom.Element {
	seen := make(map[*dom.Element]bool, len(els))
	out := els[:0]
	for _, el := range els {
		if el != nil && !seen[el] {
			seen[el] = true
			out = append(out, el)
		}
	}
	return out
}

func distance(a, b dom.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
