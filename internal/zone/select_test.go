package zone

import (
	"testing"

	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
)

func TestSelectDeselect(t *testing.T) {
	f := newFixture()
	ctrl, _, items := f.addZone(t, structuralOpts(), "a", 3)
	selects := recorded(ctrl.Bus(), event.Select)
	deselects := recorded(ctrl.Bus(), event.Deselect)

	ctrl.Select(items[1])
	if !items[1].HasClass("sortable-selected") {
		t.Error("selected class missing")
	}
	if !ctrl.IsSelected(items[1]) {
		t.Error("IsSelected = false after Select")
	}
	if len(*selects) != 1 {
		t.Fatalf("select events = %d, want 1", len(*selects))
	}

	// Re-selecting is a no-op.
	ctrl.Select(items[1])
	if len(*selects) != 1 {
		t.Errorf("duplicate Select emitted an event")
	}

	ctrl.Deselect(items[1])
	if items[1].HasClass("sortable-selected") {
		t.Error("selected class survives Deselect")
	}
	if len(*deselects) != 1 {
		t.Errorf("deselect events = %d, want 1", len(*deselects))
	}

	// Deselecting a non-member is silent.
	ctrl.Deselect(items[0])
	if len(*deselects) != 1 {
		t.Errorf("deselect of non-member emitted an event")
	}
}

func TestSelectRejectsForeignElements(t *testing.T) {
	f := newFixture()
	ctrl, _, _ := f.addZone(t, structuralOpts(), "a", 2)

	stranger := dom.NewElement(10, 10)
	f.doc.Root().AppendChild(stranger)
	ctrl.Select(stranger)
	ctrl.Select(nil)
	if len(ctrl.SelectedItems()) != 0 {
		t.Error("foreign elements entered the selection")
	}
}

func TestToggleSelect(t *testing.T) {
	f := newFixture()
	ctrl, _, items := f.addZone(t, structuralOpts(), "a", 2)

	ctrl.ToggleSelect(items[0])
	if !ctrl.IsSelected(items[0]) {
		t.Fatal("toggle did not select")
	}
	ctrl.ToggleSelect(items[0])
	if ctrl.IsSelected(items[0]) {
		t.Fatal("toggle did not deselect")
	}
}

func TestClearSelection(t *testing.T) {
	f := newFixture()
	ctrl, _, items := f.addZone(t, structuralOpts(), "a", 3)

	ctrl.Select(items[2])
	ctrl.Select(items[0])
	ctrl.ClearSelection()

	if len(ctrl.SelectedItems()) != 0 {
		t.Error("selection not empty after ClearSelection")
	}
	for i, it := range items {
		if it.HasClass("sortable-selected") {
			t.Errorf("item %d keeps selected class after ClearSelection", i)
		}
	}
}

func TestSelectionBlockOrder(t *testing.T) {
	f := newFixture()
	ctrl, _, items := f.addZone(t, structuralOpts(), "a", 4)

	// Selection order differs from presentation order; the block follows
	// the tree.
	ctrl.Select(items[3])
	ctrl.Select(items[1])
	block := ctrl.selectionBlock()
	if len(block) != 2 || block[0] != items[1] || block[1] != items[3] {
		t.Errorf("selectionBlock not in presentation order")
	}

	// Detached members fall out of the block.
	items[3].Remove()
	block = ctrl.selectionBlock()
	if len(block) != 1 || block[0] != items[1] {
		t.Errorf("detached member kept in selection block")
	}
}
