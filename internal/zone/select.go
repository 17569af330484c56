package zone

import (
	"sort"

	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
)

// Select adds an item to the multi-drag selection and applies the selected
// marker class. Elements outside the container and duplicates are ignored.
func (c *Controller) Select(item *dom.Element) {
	if item == nil || item.Parent() != c.container || c.IsSelected(item) {
		return
	}
	c.selected = append(c.selected, item)
	item.AddClass(c.opts().SelectedClass)
	c.bus.Emit(event.Event{
		Type: event.Select, Zone: c.id, From: c.id, To: c.id,
		Item: item, Items: c.SelectedItems(),
		OldIndex: item.Index(), NewIndex: -1,
	})
}

// Deselect removes an item from the selection and its marker class.
func (c *Controller) Deselect(item *dom.Element) {
	for i, sel := range c.selected {
		if sel != item {
			continue
		}
		c.selected = append(c.selected[:i], c.selected[i+1:]...)
		item.RemoveClass(c.opts().SelectedClass)
		c.bus.Emit(event.Event{
			Type: event.Deselect, Zone: c.id, From: c.id, To: c.id,
			Item: item, Items: c.SelectedItems(),
			OldIndex: item.Index(), NewIndex: -1,
		})
		return
	}
}

// ToggleSelect flips an item's selection membership.
func (c *Controller) ToggleSelect(item *dom.Element) {
	if c.IsSelected(item) {
		c.Deselect(item)
		return
	}
	c.Select(item)
}

// IsSelected reports selection membership.
func (c *Controller) IsSelected(item *dom.Element) bool {
	for _, sel := range c.selected {
		if sel == item {
			return true
		}
	}
	return false
}

// SelectedItems returns the selection in selection order.
func (c *Controller) SelectedItems() []*dom.Element {
	out := make([]*dom.Element, len(c.selected))
	copy(out, c.selected)
	return out
}

// ClearSelection empties the selection, removing marker classes.
func (c *Controller) ClearSelection() {
	class := c.opts().SelectedClass
	for _, sel := range c.selected {
		sel.RemoveClass(class)
	}
	c.selected = nil
}

// selectionBlock returns the selection ordered by presentation index, the
// order a multi-drag carries its items in. Items detached since selection
// are dropped.
func (c *Controller) selectionBlock() []*dom.Element {
	block := make([]*dom.Element, 0, len(c.selected))
	for _, sel := range c.selected {
		if sel.Parent() == c.container {
			block = append(block, sel)
		}
	}
	sort.Slice(block, func(i, j int) bool {
		return block[i].Index() < block[j].Index()
	})
	return block
}
