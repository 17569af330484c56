package dragstorm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/dragstorm/internal/a11y"
	"github.com/dshills/dragstorm/internal/config"
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/plugin"
	"github.com/dshills/dragstorm/internal/schedule"
	"github.com/dshills/dragstorm/internal/zone"
)

// ErrNilDocument is returned when an engine is created without a document.
var ErrNilDocument = errors.New("document is nil")

// Engine owns the document, the drag coordinator, and every sortable zone
// created through it. One engine per document.
type Engine struct {
	doc   *dom.Document
	coord *coordinator.Coordinator
	sched schedule.Scheduler
	log   zerolog.Logger

	mu        sync.Mutex
	sortables map[string]*Sortable
	origins   map[coordinator.InputID]*Sortable
	plugins   *plugin.Manager
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger shared by the engine and every
// controller it creates. The default discards.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithScheduler replaces the wall-clock scheduler, for deterministic
// animation and delay handling in tests.
func WithScheduler(s schedule.Scheduler) EngineOption {
	return func(e *Engine) { e.sched = s }
}

// NewEngine creates an engine over the document.
func NewEngine(doc *dom.Document, opts ...EngineOption) (*Engine, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	e := &Engine{
		doc:       doc,
		sched:     schedule.NewWall(),
		log:       zerolog.Nop(),
		sortables: make(map[string]*Sortable),
		origins:   make(map[coordinator.InputID]*Sortable),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.coord = coordinator.New(coordinator.WithScheduler(e.sched), coordinator.WithLogger(e.log))
	return e, nil
}

// New creates a sortable zone over container and registers it with the
// engine's coordinator. Options are validated up front and can be replaced
// later with SetOptions.
func (e *Engine) New(container *dom.Element, opts Options) (*Sortable, error) {
	s := &Sortable{engine: e, opts: opts}
	ctrl, err := zone.New(container, s.currentOptions, e.coord,
		zone.WithScheduler(e.sched), zone.WithLogger(e.log))
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl

	e.mu.Lock()
	e.sortables[ctrl.ID()] = s
	var hosts []*plugin.Host
	if e.plugins != nil {
		hosts = e.plugins.List()
	}
	e.mu.Unlock()

	for _, h := range hosts {
		if err := h.BindBus(ctrl.Bus()); err != nil {
			e.log.Warn().Str("plugin", h.Name()).Err(err).Msg("plugin bus binding failed")
		}
	}
	return s, nil
}

// Sortable returns the zone with the given id, or nil.
func (e *Engine) Sortable(id string) *Sortable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortables[id]
}

// Sortables returns every live zone, in no particular order.
func (e *Engine) Sortables() []*Sortable {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Sortable, 0, len(e.sortables))
	for _, s := range e.sortables {
		out = append(out, s)
	}
	return out
}

// Document returns the engine's document.
func (e *Engine) Document() *dom.Document { return e.doc }

// PointerDown routes a press to the zone under the point. Presses outside
// every zone are ignored.
func (e *Engine) PointerDown(input coordinator.InputID, p dom.Point) {
	z := e.coord.ZoneAt(p)
	if z == nil {
		return
	}
	e.mu.Lock()
	s := e.sortables[z.ID()]
	if s != nil {
		e.origins[input] = s
	}
	e.mu.Unlock()
	if s != nil {
		s.ctrl.PointerDown(input, p)
	}
}

// PointerMove routes movement to the zone where the input pressed down.
// The origin zone keeps the gesture even while hovering foreign zones.
func (e *Engine) PointerMove(input coordinator.InputID, p dom.Point) {
	if s := e.origin(input, false); s != nil {
		s.ctrl.PointerMove(input, p)
	}
}

// PointerUp completes or releases the gesture begun by PointerDown.
func (e *Engine) PointerUp(input coordinator.InputID, p dom.Point) {
	if s := e.origin(input, true); s != nil {
		s.ctrl.PointerUp(input, p)
	}
}

// Cancel aborts the input's gesture, restoring the trees.
func (e *Engine) Cancel(input coordinator.InputID) {
	if s := e.origin(input, true); s != nil {
		s.ctrl.CancelDrag(input)
	}
}

func (e *Engine) origin(input coordinator.InputID, clear bool) *Sortable {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.origins[input]
	if clear {
		delete(e.origins, input)
	}
	return s
}

// Dragging reports whether the input has an active drag session.
func (e *Engine) Dragging(input coordinator.InputID) bool {
	return e.coord.ActiveDrag(input) != nil
}

// DragItems returns the input's dragged elements, or nil while idle. The
// slice is the live session's; callers must not mutate it.
func (e *Engine) DragItems(input coordinator.InputID) []*dom.Element {
	s := e.coord.ActiveDrag(input)
	if s == nil {
		return nil
	}
	return s.Items
}

// LoadPlugins discovers and loads every Lua plugin under dir, then binds
// each one to the buses of the zones that already exist. Zones created
// afterwards are bound on creation.
func (e *Engine) LoadPlugins(ctx context.Context, dir string) error {
	m := plugin.NewManager(dir, plugin.WithManagerLogger(e.log))
	if err := m.LoadAll(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	e.plugins = m
	sortables := make([]*Sortable, 0, len(e.sortables))
	for _, s := range e.sortables {
		sortables = append(sortables, s)
	}
	e.mu.Unlock()

	for _, h := range m.List() {
		for _, s := range sortables {
			if err := h.BindBus(s.ctrl.Bus()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Plugins returns the plugin manager, or nil before LoadPlugins.
func (e *Engine) Plugins() *plugin.Manager {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plugins
}

// Close destroys every zone and unloads every plugin.
func (e *Engine) Close() {
	e.mu.Lock()
	sortables := make([]*Sortable, 0, len(e.sortables))
	for _, s := range e.sortables {
		sortables = append(sortables, s)
	}
	plugins := e.plugins
	e.plugins = nil
	e.mu.Unlock()

	for _, s := range sortables {
		s.Destroy()
	}
	if plugins != nil {
		plugins.Close()
	}
}

// Sortable is one drag-and-drop zone: a container whose direct children
// reorder by pointer or keyboard, exchange items with compatible zones,
// and report lifecycle events on a bus.
type Sortable struct {
	engine *Engine
	ctrl   *zone.Controller

	mu   sync.Mutex
	opts config.Options
}

func (s *Sortable) currentOptions() config.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// ID returns the zone's identifier.
func (s *Sortable) ID() string { return s.ctrl.ID() }

// Container returns the zone's container element.
func (s *Sortable) Container() *dom.Element { return s.ctrl.Container() }

// Options returns the zone's current options.
func (s *Sortable) Options() Options { return s.currentOptions() }

// SetOptions replaces the zone's options. Invalid options are rejected and
// the previous set stays in effect. Gestures already in flight keep the
// settings they started with where the controller snapshotted them.
func (s *Sortable) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	return nil
}

// Items returns the zone's draggable children in visual order, skipping
// hidden items and drag proxies.
func (s *Sortable) Items() []*dom.Element { return s.ctrl.Items() }

// RenderOffset returns the item's transient animation offset at now.
// Renderers add it to the item's layout position each frame.
func (s *Sortable) RenderOffset(item *dom.Element, now time.Time) dom.Point {
	return s.ctrl.Animator().RenderOffset(item, now)
}

// ToArray returns the item keys in visual order.
func (s *Sortable) ToArray() []string { return s.ctrl.ToArray() }

// Sort reorders the zone's items to match keys.
func (s *Sortable) Sort(keys []string) { s.ctrl.Sort(keys) }

// On subscribes to the zone's events and returns an unsubscribe func.
func (s *Sortable) On(t event.Type, fn func(event.Event)) func() {
	return s.ctrl.Bus().On(t, fn)
}

// Select adds an item to the multi-drag selection.
func (s *Sortable) Select(item *dom.Element) { s.ctrl.Select(item) }

// Deselect removes an item from the multi-drag selection.
func (s *Sortable) Deselect(item *dom.Element) { s.ctrl.Deselect(item) }

// ToggleSelect flips an item's selection state.
func (s *Sortable) ToggleSelect(item *dom.Element) { s.ctrl.ToggleSelect(item) }

// IsSelected reports whether the item is in the selection.
func (s *Sortable) IsSelected(item *dom.Element) bool { return s.ctrl.IsSelected(item) }

// SelectedItems returns the current selection.
func (s *Sortable) SelectedItems() []*dom.Element { return s.ctrl.SelectedItems() }

// ClearSelection empties the multi-drag selection.
func (s *Sortable) ClearSelection() { s.ctrl.ClearSelection() }

// SetPlacement replaces the zone's drop placement strategy. A nil strategy
// restores the default insert behavior.
func (s *Sortable) SetPlacement(p zone.PlacementStrategy) { s.ctrl.SetPlacementStrategy(p) }

// UsePlacement installs a placement strategy exported by a loaded plugin.
func (s *Sortable) UsePlacement(name string) error {
	m := s.engine.Plugins()
	if m == nil {
		return plugin.ErrUnknownPlugin
	}
	h, ok := m.Get(name)
	if !ok {
		return plugin.ErrUnknownPlugin
	}
	strat, err := h.Strategy()
	if err != nil {
		return err
	}
	s.ctrl.SetPlacementStrategy(strat)
	return nil
}

// Keyboard returns a keyboard driver for this zone bound to input.
func (s *Sortable) Keyboard(input coordinator.InputID) *a11y.Keyboard {
	return a11y.NewKeyboard(s.ctrl, s.engine.coord, input)
}

// Announce attaches a screen-reader announcer to the zone's bus. Call
// Detach on the returned announcer to silence it.
func (s *Sortable) Announce(out func(string)) *a11y.Announcer {
	a := a11y.NewAnnouncer(out)
	a.Attach(s.ctrl.Bus())
	return a
}

// Destroy cancels the zone's active sessions, removes its proxies, and
// unregisters it from the engine. The container and its items stay in the
// document.
func (s *Sortable) Destroy() {
	s.ctrl.Destroy()

	e := s.engine
	e.mu.Lock()
	delete(e.sortables, s.ctrl.ID())
	for input, origin := range e.origins {
		if origin == s {
			delete(e.origins, input)
		}
	}
	e.mu.Unlock()
}
