// Package event provides the per-zone lifecycle notification bus.
//
// Every sortable zone owns one Bus. The drag controller publishes a closed
// set of lifecycle events through it; user code, the accessibility
// collaborator, and plugins subscribe. Emission is synchronous and runs in
// the handler that produced the transition, so subscribers observe a
// consistent tree.
package event

import "github.com/dshills/dragstorm/internal/dom"

// Type identifies a lifecycle event. The set is closed: every event carries
// the same Event payload shape, with fields unused by a given type left at
// their zero values.
type Type uint8

const (
	// Choose fires when an item is picked (pointer down on an eligible item).
	Choose Type = iota
	// Unchoose fires when a chosen item is released without or after a drag.
	Unchoose
	// Start fires when a drag session begins.
	Start
	// Move fires on every candidate placement while dragging.
	Move
	// Sort fires when a zone's order changes for any reason.
	Sort
	// Update fires when an item's position changes within its own zone.
	Update
	// Add fires on the target zone when an item arrives from another zone.
	Add
	// Remove fires on the origin zone when an item leaves for another zone.
	Remove
	// End fires when a drag session finishes, dropped or cancelled.
	End
	// Clone fires on the origin zone when a copy is made for a clone pull.
	Clone
	// Filter fires when a pointer down is rejected by the filter selector.
	Filter
	// Select fires when an item joins the multi-drag selection.
	Select
	// Deselect fires when an item leaves the multi-drag selection.
	Deselect
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case Choose:
		return "choose"
	case Unchoose:
		return "unchoose"
	case Start:
		return "start"
	case Move:
		return "move"
	case Sort:
		return "sort"
	case Update:
		return "update"
	case Add:
		return "add"
	case Remove:
		return "remove"
	case End:
		return "end"
	case Clone:
		return "clone"
	case Filter:
		return "filter"
	case Select:
		return "select"
	case Deselect:
		return "deselect"
	default:
		return "unknown"
	}
}

// Event is the payload delivered to handlers.
type Event struct {
	// Type is the lifecycle event kind.
	Type Type

	// Zone is the id of the zone whose bus delivered the event.
	Zone string

	// From and To are the origin and target zone ids for cross-zone
	// events. For same-zone events both equal Zone.
	From string
	To   string

	// Item is the primary dragged element.
	Item *dom.Element

	// Items lists every dragged element for multi-drag sessions; it always
	// includes Item.
	Items []*dom.Element

	// CloneItem is the copy left behind by a clone pull, on Clone events.
	CloneItem *dom.Element

	// OldIndex and NewIndex are the item's position before and after the
	// structural change, or -1 when not applicable.
	OldIndex int
	NewIndex int

	// PullMode names the session's pull mode ("move" or "clone").
	PullMode string
}
