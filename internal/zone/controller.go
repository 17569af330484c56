package zone

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/dragstorm/internal/config"
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/flip"
	"github.com/dshills/dragstorm/internal/ghost"
	"github.com/dshills/dragstorm/internal/group"
	"github.com/dshills/dragstorm/internal/schedule"
)

// OptionsProvider returns the zone's current option snapshot. The
// controller calls it at every decision point, so live option changes take
// effect without re-creating the zone.
type OptionsProvider func() config.Options

// pending is the pre-session interaction state for one input id, covering
// the idle -> chosen -> dragging gate.
type pending struct {
	item  *dom.Element
	start dom.Point

	// ready turns true once the configured delay has elapsed (or no
	// delay is configured).
	ready bool

	// delayTask is the pending delay timer, cancelled when movement
	// exceeds the touch-start threshold first.
	delayTask schedule.Task
}

// Controller runs the drag state machine for one zone.
type Controller struct {
	id        string
	doc       *dom.Document
	container *dom.Element
	opts      OptionsProvider
	bus       *event.Bus
	coord     *coordinator.Coordinator
	anim      *flip.Animator
	sched     schedule.Scheduler
	log       zerolog.Logger
	placement PlacementStrategy

	pending map[coordinator.InputID]*pending
	states  map[coordinator.InputID]State

	// proxies holds one ghost manager per live input, so concurrent
	// sessions in the same zone never tear down each other's visuals.
	proxies map[coordinator.InputID]*ghost.Manager

	// selected is the multi-drag selection, in selection order.
	selected []*dom.Element
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the controller's task scheduler.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithPlacementStrategy sets the structural-move strategy.
func WithPlacementStrategy(p PlacementStrategy) Option {
	return func(c *Controller) {
		if p != nil {
			c.placement = p
		}
	}
}

// WithAnimator sets the FLIP animator. Without it one is created over the
// controller's scheduler.
func WithAnimator(a *flip.Animator) Option {
	return func(c *Controller) {
		c.anim = a
	}
}

// New creates a controller for the container, registers it with the
// coordinator, and returns it. Construction fails for a nil or detached
// container and for invalid options; these are the only fatal errors the
// engine raises.
func New(container *dom.Element, opts OptionsProvider, coord *coordinator.Coordinator, options ...Option) (*Controller, error) {
	if container == nil {
		return nil, ErrNilContainer
	}
	if container.Document() == nil {
		return nil, ErrDetachedContainer
	}
	if opts == nil {
		def := config.Default()
		opts = func() config.Options { return def }
	}
	if err := opts().Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		id:        uuid.NewString(),
		doc:       container.Document(),
		container: container,
		opts:      opts,
		bus:       event.NewBus(),
		coord:     coord,
		sched:     schedule.NewWall(),
		log:       zerolog.Nop(),
		placement: InsertPlacement{},
		pending:   make(map[coordinator.InputID]*pending),
		states:    make(map[coordinator.InputID]State),
		proxies:   make(map[coordinator.InputID]*ghost.Manager),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.anim == nil {
		c.anim = flip.New(flip.WithScheduler(c.sched), flip.WithLogger(c.log))
	}
	if err := coord.RegisterZone(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ID implements coordinator.Zone.
func (c *Controller) ID() string { return c.id }

// Container implements coordinator.Zone.
func (c *Controller) Container() *dom.Element { return c.container }

// Policy implements coordinator.Zone. It is a fresh snapshot on each call;
// in-flight sessions keep the policy they captured at start.
func (c *Controller) Policy() group.Policy { return c.opts().Group }

// Options implements coordinator.Zone.
func (c *Controller) Options() config.Options { return c.opts() }

// Bus implements coordinator.Zone.
func (c *Controller) Bus() *event.Bus { return c.bus }

// SessionEnded implements coordinator.Zone; it clears any per-input state
// left behind when a session is torn down through the coordinator.
func (c *Controller) SessionEnded(input coordinator.InputID) {
	c.clearPending(input)
	c.setState(input, StateIdle)
}

// StateOf returns the controller's lifecycle state for the input id.
func (c *Controller) StateOf(input coordinator.InputID) State {
	return c.states[input]
}

// Animator returns the controller's FLIP animator, for renderers that
// interpolate offsets.
func (c *Controller) Animator() *flip.Animator { return c.anim }

// Destroy cancels any session originating here, removes proxies, clears
// subscriptions, and unregisters the zone. The container itself is left in
// place; its items stop being draggable.
func (c *Controller) Destroy() {
	for input := range c.pending {
		c.clearPending(input)
	}
	for input, s := range c.activeSessions() {
		if s.OriginZone == c.id {
			c.CancelDrag(input)
		}
	}
	for input, px := range c.proxies {
		px.Destroy()
		delete(c.proxies, input)
	}
	c.anim.CancelAll()
	c.bus.Clear()
	c.coord.UnregisterZone(c.id)
}

// Items returns the zone's current items in presentation order, excluding
// drag proxies.
func (c *Controller) Items() []*dom.Element {
	return c.visibleItems(nil)
}

// ToArray returns the zone's item order as external keys read from the
// configured data-id attribute. Elements without the attribute report
// their generated element id. The order is derived purely from the
// presentation tree.
func (c *Controller) ToArray() []string {
	attr := c.opts().DataIDAttr
	items := c.Items()
	out := make([]string, len(items))
	for i, it := range items {
		if v := it.Attr(attr); v != "" {
			out[i] = v
		} else {
			out[i] = it.ID()
		}
	}
	return out
}

// Sort reorders the zone to match the given external keys, animated.
// Unknown keys are ignored; items not named keep their relative order
// after the named ones.
func (c *Controller) Sort(keys []string) {
	attr := c.opts().DataIDAttr
	byKey := make(map[string]*dom.Element)
	items := c.Items()
	for _, it := range items {
		key := it.Attr(attr)
		if key == "" {
			key = it.ID()
		}
		byKey[key] = it
	}

	c.withAnimation(items, func() {
		for _, key := range keys {
			if it, ok := byKey[key]; ok {
				c.container.AppendChild(it)
				delete(byKey, key)
			}
		}
		for _, it := range items {
			key := it.Attr(attr)
			if key == "" {
				key = it.ID()
			}
			if _, unplaced := byKey[key]; unplaced {
				c.container.AppendChild(it)
			}
		}
	})
	c.emitSort(-1, -1)
}

// SetPlacementStrategy swaps the structural-move strategy. Passing nil
// restores the default insert behavior.
func (c *Controller) SetPlacementStrategy(p PlacementStrategy) {
	if p == nil {
		p = InsertPlacement{}
	}
	c.placement = p
}

// PlacementStrategy returns the current structural-move strategy.
func (c *Controller) PlacementStrategy() PlacementStrategy {
	return c.placement
}

// visibleItems returns the container's flow children that count as items:
// hidden elements, drag proxies, and anything in exclude are skipped.
func (c *Controller) visibleItems(exclude map[*dom.Element]bool) []*dom.Element {
	return c.visibleItemsOf(c.container, exclude)
}

// visibleItemsOf is visibleItems generalized to a foreign container, used
// when this controller's session hovers another zone. Placeholders are
// recognized by their marker attribute, whichever session owns them.
func (c *Controller) visibleItemsOf(container *dom.Element, exclude map[*dom.Element]bool) []*dom.Element {
	var out []*dom.Element
	for _, child := range container.Children() {
		if child.Style.Hidden || child.Attr(ghost.PlaceholderAttr) != "" {
			continue
		}
		if exclude != nil && exclude[child] {
			continue
		}
		out = append(out, child)
	}
	return out
}

// proxiesFor returns the input's ghost manager, creating it on first use.
func (c *Controller) proxiesFor(input coordinator.InputID) *ghost.Manager {
	px, ok := c.proxies[input]
	if !ok {
		px = ghost.NewManager(c.doc)
		c.proxies[input] = px
	}
	return px
}

// destroyProxies removes the input's ghost and placeholder synchronously.
func (c *Controller) destroyProxies(input coordinator.InputID) {
	if px, ok := c.proxies[input]; ok {
		px.Destroy()
		delete(c.proxies, input)
	}
}

func (c *Controller) setState(input coordinator.InputID, s State) {
	prev := c.states[input]
	if prev == s {
		return
	}
	if s == StateIdle {
		delete(c.states, input)
	} else {
		c.states[input] = s
	}
	c.log.Debug().
		Str("zone", c.id).
		Str("input", string(input)).
		Str("from", prev.String()).
		Str("to", s.String()).
		Msg("drag state transition")
}

func (c *Controller) clearPending(input coordinator.InputID) {
	p, ok := c.pending[input]
	if !ok {
		return
	}
	if p.delayTask != nil {
		p.delayTask.Cancel()
	}
	p.item.RemoveClass(c.opts().ChosenClass)
	delete(c.pending, input)
}

// withAnimation runs mutate inside the animator's measured callback with
// the duration and easing from the current option snapshot.
func (c *Controller) withAnimation(elements []*dom.Element, mutate func()) {
	opts := c.opts()
	c.anim.SetDuration(opts.Animation)
	if opts.AnimationEasing != "" {
		c.anim.SetEasing(opts.AnimationEasing)
	}
	c.anim.AnimateReorder(elements, mutate)
}

func (c *Controller) emitSort(oldIndex, newIndex int) {
	c.bus.Emit(event.Event{
		Type:     event.Sort,
		Zone:     c.id,
		From:     c.id,
		To:       c.id,
		OldIndex: oldIndex,
		NewIndex: newIndex,
	})
}

// activeSessions lists sessions touching this zone, keyed by input.
func (c *Controller) activeSessions() map[coordinator.InputID]*coordinator.Session {
	out := make(map[coordinator.InputID]*coordinator.Session)
	for input := range c.states {
		if s := c.coord.ActiveDrag(input); s != nil {
			out[input] = s
		}
	}
	return out
}
