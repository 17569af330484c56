package plugin

import (
	"testing"

	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/zone"
)

func TestStrategyRequiresRegistration(t *testing.T) {
	h := loadHost(t, `{"name": "plain"}`, `x = 1`)
	if _, err := h.Strategy(); err != ErrNoStrategy {
		t.Errorf("Strategy() error = %v, want %v", err, ErrNoStrategy)
	}
}

func TestLuaStrategyNumericVerdict(t *testing.T) {
	h := loadHost(t, `{"name": "front"}`, `
		dragstorm.strategy("front", function(p)
			return 0
		end)
	`)
	strat, err := h.Strategy()
	if err != nil {
		t.Fatalf("Strategy() error = %v", err)
	}
	if strat.Name() != "front" {
		t.Errorf("Name() = %q, want front", strat.Name())
	}

	doc := dom.NewDocument(100, 100)
	container := dom.NewElement(100, 30)
	doc.Root().AppendChild(container)
	a := dom.NewElement(100, 10)
	b := dom.NewElement(100, 10)
	container.AppendChild(a)
	container.AppendChild(b)
	dragged := dom.NewElement(100, 10)

	// The engine computed an append; the script overrides to the front.
	strat.Place(zone.Placement{
		Source: container,
		Target: container,
		Items:  []*dom.Element{dragged},
		Before: nil,
		Index:  2,
	})

	kids := container.Children()
	if len(kids) != 3 || kids[0] != dragged {
		t.Errorf("numeric verdict did not insert at front: %v items, first=%v", len(kids), kids[0] == dragged)
	}
}

func TestLuaStrategySwapVerdict(t *testing.T) {
	h := loadHost(t, `{"name": "swapper"}`, `
		dragstorm.strategy("swapper", function(p)
			return "swap"
		end)
	`)
	strat, err := h.Strategy()
	if err != nil {
		t.Fatalf("Strategy() error = %v", err)
	}

	doc := dom.NewDocument(100, 100)
	src := dom.NewElement(100, 10)
	dst := dom.NewElement(100, 20)
	doc.Root().AppendChild(src)
	doc.Root().AppendChild(dst)
	dragged := dom.NewElement(100, 10)
	src.AppendChild(dragged)
	occupant := dom.NewElement(100, 10)
	dst.AppendChild(occupant)

	strat.Place(zone.Placement{
		Source: src,
		Target: dst,
		Items:  []*dom.Element{dragged},
		Before: occupant,
		Index:  0,
	})

	if dragged.Parent() != dst {
		t.Error("swap verdict did not move the dragged item to the target")
	}
	if occupant.Parent() != src {
		t.Error("swap verdict did not move the occupant to the source")
	}
}

func TestLuaStrategyErrorFallsBack(t *testing.T) {
	h := loadHost(t, `{"name": "crashy"}`, `
		dragstorm.strategy("crashy", function(p)
			error("nope")
		end)
	`)
	strat, err := h.Strategy()
	if err != nil {
		t.Fatalf("Strategy() error = %v", err)
	}

	doc := dom.NewDocument(100, 100)
	container := dom.NewElement(100, 20)
	doc.Root().AppendChild(container)
	a := dom.NewElement(100, 10)
	container.AppendChild(a)
	dragged := dom.NewElement(100, 10)

	strat.Place(zone.Placement{
		Source: container,
		Target: container,
		Items:  []*dom.Element{dragged},
		Before: nil,
		Index:  1,
	})

	kids := container.Children()
	if len(kids) != 2 || kids[1] != dragged {
		t.Error("failed script did not fall back to the engine placement")
	}
}
