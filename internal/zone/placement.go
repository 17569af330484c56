package zone

import (
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
)

// Placement describes one structural move about to be applied. The strategy
// runs inside the animator's measured callback, so any tree mutation it
// performs is animated for free.
type Placement struct {
	// Session is the drag session being dropped.
	Session *coordinator.Session

	// Source and Target are the origin and destination containers. They
	// are the same element for an in-zone reorder.
	Source *dom.Element
	Target *dom.Element

	// Items are the elements to place, in origin order. For a clone drop
	// these are the fresh copies; the originals stay in Source.
	Items []*dom.Element

	// Before is the target sibling to insert in front of; nil appends.
	Before *dom.Element

	// Index is the insertion position among the target's items, for
	// strategies that work positionally.
	Index int
}

// PlacementStrategy is the single overridable structural-move entry point
// of a zone. Plugins substitute alternate placement behavior (swap,
// scripted) by injecting a strategy at construction or through
// Controller.SetPlacementStrategy.
type PlacementStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Place applies the structural change for the placement.
	Place(p Placement)
}

// InsertPlacement is the default strategy: the dragged items are inserted
// as one ordered block at the computed index.
type InsertPlacement struct{}

// Name implements PlacementStrategy.
func (InsertPlacement) Name() string { return "insert" }

// Place implements PlacementStrategy.
func (InsertPlacement) Place(p Placement) {
	for _, it := range p.Items {
		p.Target.InsertBefore(it, p.Before)
	}
}

// SwapPlacement exchanges the primary dragged item with the item occupying
// the drop position instead of shifting the sequence.
type SwapPlacement struct{}

// Name implements PlacementStrategy.
func (SwapPlacement) Name() string { return "swap" }

// Place implements PlacementStrategy.
func (SwapPlacement) Place(p Placement) {
	if len(p.Items) == 0 {
		return
	}
	item := p.Items[0]
	if p.Before == nil || p.Before == item {
		// Nothing occupies the slot; fall back to an insert.
		InsertPlacement{}.Place(p)
		return
	}
	swapElements(item, p.Before)
	// Secondary multi-drag items still insert after the swapped primary.
	for _, it := range p.Items[1:] {
		next := nextSibling(item)
		item.Parent().InsertBefore(it, next)
		item = it
	}
}

func swapElements(a, b *dom.Element) {
	pa, pb := a.Parent(), b.Parent()
	if pa == nil || pb == nil {
		return
	}
	na, nb := nextSibling(a), nextSibling(b)
	// Adjacent elements degenerate to a single move.
	if na == b {
		pb.InsertBefore(a, nb)
		return
	}
	if nb == a {
		pa.InsertBefore(b, na)
		return
	}
	pb.InsertBefore(a, nb)
	pa.InsertBefore(b, na)
}

func nextSibling(el *dom.Element) *dom.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	sibs := parent.Children()
	for i, s := range sibs {
		if s == el && i+1 < len(sibs) {
			return sibs[i+1]
		}
	}
	return nil
}
