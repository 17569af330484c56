package dragstorm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dshills/dragstorm/internal/plugin"
	"github.com/dshills/dragstorm/internal/schedule"
)

const mouse InputID = "mouse"

// newEngine builds an engine over a 200x200 document with a deterministic
// scheduler.
func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(NewDocument(200, 200), WithScheduler(schedule.NewManual()))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// addSortable creates a zone of n 100x10 items keyed prefix0..prefixN-1,
// with animation off so mutations land synchronously.
func addSortable(t *testing.T, e *Engine, opts Options, prefix string, n int) *Sortable {
	t.Helper()
	opts.Animation = 0
	container := NewElement(100, float64(n*10))
	e.Document().Root().AppendChild(container)
	for i := 0; i < n; i++ {
		item := NewElement(100, 10)
		item.SetAttr(opts.DataIDAttr, fmt.Sprintf("%s%d", prefix, i))
		container.AppendChild(item)
	}
	s, err := e.New(container, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("NewEngine(nil) error = %v, want %v", err, ErrNilDocument)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	e := newEngine(t)
	container := NewElement(100, 30)
	e.Document().Root().AppendChild(container)

	bad := DefaultOptions()
	bad.SwapThreshold = 2
	if _, err := e.New(container, bad); err == nil {
		t.Error("New() accepted an out-of-range swap threshold")
	}
}

func TestEngineRoutesReorder(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 3)

	var updates []Event
	off := s.On(EventUpdate, func(ev Event) { updates = append(updates, ev) })
	defer off()

	e.PointerDown(mouse, Point{X: 50, Y: 5})
	e.PointerMove(mouse, Point{X: 50, Y: 27})
	e.PointerMove(mouse, Point{X: 50, Y: 27})
	e.PointerUp(mouse, Point{X: 50, Y: 27})

	want := []string{"a1", "a2", "a0"}
	if got := s.ToArray(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToArray() = %v, want %v", got, want)
	}
	if len(updates) != 1 || updates[0].OldIndex != 0 || updates[0].NewIndex != 2 {
		t.Errorf("updates = %+v, want one (0 -> 2)", updates)
	}
}

func TestEngineRoutesCrossZone(t *testing.T) {
	e := newEngine(t)
	opts := DefaultOptions()
	opts.Group = Group("shared")
	src := addSortable(t, e, opts, "a", 3)
	dst := addSortable(t, e, opts, "b", 2)

	// Containers stack vertically: a spans y 0-30, b spans y 30-50.
	e.PointerDown(mouse, Point{X: 50, Y: 5})
	e.PointerMove(mouse, Point{X: 50, Y: 41})
	e.PointerMove(mouse, Point{X: 50, Y: 41})
	e.PointerUp(mouse, Point{X: 50, Y: 41})

	if got, want := src.ToArray(), []string{"a1", "a2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("source = %v, want %v", got, want)
	}
	if got, want := dst.ToArray(), []string{"b0", "a0", "b1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("target = %v, want %v", got, want)
	}
}

func TestEngineIgnoresOutsidePresses(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 2)

	e.PointerDown(mouse, Point{X: 150, Y: 150})
	e.PointerMove(mouse, Point{X: 50, Y: 15})
	e.PointerUp(mouse, Point{X: 50, Y: 15})

	if got, want := s.ToArray(), []string{"a0", "a1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("outside press disturbed the zone: %v", got)
	}
}

func TestEngineCancelRestores(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 3)

	e.PointerDown(mouse, Point{X: 50, Y: 5})
	e.PointerMove(mouse, Point{X: 50, Y: 27})
	e.Cancel(mouse)

	if got, want := s.ToArray(), []string{"a0", "a1", "a2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order after cancel = %v, want %v", got, want)
	}
}

func TestSetOptionsValidates(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 2)

	bad := s.Options()
	bad.SwapThreshold = -1
	if err := s.SetOptions(bad); err == nil {
		t.Fatal("SetOptions() accepted invalid options")
	}
	if s.Options().SwapThreshold == -1 {
		t.Error("rejected options were installed anyway")
	}

	good := s.Options()
	good.Disabled = true
	if err := s.SetOptions(good); err != nil {
		t.Fatalf("SetOptions() error = %v", err)
	}
	if !s.Options().Disabled {
		t.Error("accepted options not installed")
	}
}

func TestSortableDestroy(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 2)
	id := s.ID()

	s.Destroy()
	if e.Sortable(id) != nil {
		t.Error("destroyed sortable still registered")
	}

	e.PointerDown(mouse, Point{X: 50, Y: 5})
	e.PointerUp(mouse, Point{X: 50, Y: 5})
	if got, want := s.ToArray(), []string{"a0", "a1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("destroyed zone reacted to input: %v", got)
	}
}

func TestKeyboardThroughFacade(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 3)
	k := s.Keyboard("kb")

	if err := k.Handle(CmdGrab); err != nil {
		t.Fatalf("grab error = %v", err)
	}
	if err := k.Handle(CmdFocusNext); err != nil {
		t.Fatalf("advance error = %v", err)
	}
	if err := k.Handle(CmdGrab); err != nil {
		t.Fatalf("drop error = %v", err)
	}

	want := []string{"a1", "a0", "a2"}
	if got := s.ToArray(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToArray() = %v, want %v", got, want)
	}
}

func TestAnnounceThroughFacade(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 3)

	var msgs []string
	a := s.Announce(func(m string) { msgs = append(msgs, m) })
	defer a.Detach()

	e.PointerDown(mouse, Point{X: 50, Y: 5})
	e.PointerMove(mouse, Point{X: 50, Y: 27})
	e.PointerMove(mouse, Point{X: 50, Y: 27})
	e.PointerUp(mouse, Point{X: 50, Y: 27})

	if len(msgs) == 0 {
		t.Fatal("no announcements for a full reorder")
	}
	if msgs[0] != "Lifted item at position 1." {
		t.Errorf("first announcement = %q", msgs[0])
	}
	last := msgs[len(msgs)-1]
	if last != "Dropped at position 3." {
		t.Errorf("last announcement = %q", last)
	}
}

func TestUsePlacementWithoutPlugins(t *testing.T) {
	e := newEngine(t)
	s := addSortable(t, e, DefaultOptions(), "a", 2)

	if err := s.UsePlacement("front"); !errors.Is(err, plugin.ErrUnknownPlugin) {
		t.Errorf("UsePlacement() error = %v, want %v", err, plugin.ErrUnknownPlugin)
	}
}

func TestLoadPluginsAndUsePlacement(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "front")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name": "front", "version": "1.0.0"}`
	script := `
		dragstorm.strategy("front", function(p)
			return 0
		end)
	`
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newEngine(t)
	defer e.Close()
	s := addSortable(t, e, DefaultOptions(), "a", 3)

	if err := e.LoadPlugins(context.Background(), root); err != nil {
		t.Fatalf("LoadPlugins() error = %v", err)
	}
	if e.Plugins() == nil {
		t.Fatal("Plugins() = nil after load")
	}
	if err := s.UsePlacement("front"); err != nil {
		t.Fatalf("UsePlacement() error = %v", err)
	}

	// The script forces every drop to the front regardless of the
	// candidate the engine computed.
	e.PointerDown(mouse, Point{X: 50, Y: 25})
	e.PointerMove(mouse, Point{X: 50, Y: 5})
	e.PointerMove(mouse, Point{X: 50, Y: 5})
	e.PointerUp(mouse, Point{X: 50, Y: 5})

	want := []string{"a2", "a0", "a1"}
	if got := s.ToArray(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToArray() = %v, want %v", got, want)
	}
}
