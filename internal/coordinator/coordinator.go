// Package coordinator tracks drag sessions across every zone in a process.
//
// Zones are created independently and never hold references to each other;
// the coordinator is the one shared registry they interoperate through. It
// keys sessions by input identifier (one logical drag per pointer), answers
// cross-zone compatibility questions with the policy captured at drag
// start, and owns the zone registry with an explicit register/unregister
// lifecycle.
package coordinator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/dragstorm/internal/config"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/group"
	"github.com/dshills/dragstorm/internal/schedule"
)

// Errors surfaced by the registry.
var (
	// ErrDragActive is returned when StartDrag is called for an input id
	// that already has a session. This is a listener double-fire bug in
	// the caller, not a runtime condition to handle.
	ErrDragActive = errors.New("drag already active for input")

	// ErrNoItems is returned when StartDrag is called with nothing to drag.
	ErrNoItems = errors.New("no items to drag")

	// ErrZoneRegistered is returned when a zone id is registered twice.
	ErrZoneRegistered = errors.New("zone already registered")
)

// InputID identifies one logical input pointer ("mouse", "touch:2", ...).
// Sessions for distinct input ids are fully independent.
type InputID string

// Zone is the narrow contract zones interoperate through. Controllers
// never hold each other; a drop into a foreign zone reaches that zone only
// through this interface. Policy and Options are read-at-decision-time
// snapshots, so implementations must return current values on each call.
type Zone interface {
	// ID returns the zone's generated identifier.
	ID() string

	// Container returns the zone's container element.
	Container() *dom.Element

	// Policy returns the zone's current group policy.
	Policy() group.Policy

	// Options returns the zone's current option snapshot.
	Options() config.Options

	// Bus returns the zone's lifecycle event bus.
	Bus() *event.Bus

	// SessionEnded tells the zone that a session it originated was torn
	// down through the coordinator.
	SessionEnded(input InputID)
}

// Session is one active drag for one input id.
type Session struct {
	// ID is the session's generated identifier.
	ID string

	// Input is the pointer this session belongs to.
	Input InputID

	// OriginZone is the id of the zone the drag started in.
	OriginZone string

	// Items are the dragged elements, in origin order. Multi-drag sessions
	// carry more than one.
	Items []*dom.Element

	// OriginIndices are the items' positions in the origin zone at drag
	// start, aligned with Items.
	OriginIndices []int

	// GroupName is the origin group name captured at StartDrag. Kept
	// separately from the policy so event payloads need no policy access.
	GroupName string

	// PullMode is move or clone, fixed for the session's lifetime.
	PullMode group.PullMode

	// TargetZone and TargetIndex track the current candidate placement;
	// TargetZone is "" and TargetIndex -1 while no valid target is
	// hovered.
	TargetZone  string
	TargetIndex int

	// Tasks owns every timer scheduled on behalf of this session; they
	// are cancelled as a unit when the session ends.
	Tasks *schedule.Group

	// policy is the origin policy captured at StartDrag. Compatibility
	// checks use this snapshot for the whole session, so reconfiguring
	// the origin zone mid-drag cannot retroactively change an in-flight
	// session.
	policy group.Policy
}

// Policy returns the origin group policy captured at drag start.
func (s *Session) Policy() group.Policy {
	return s.policy
}

// Coordinator is the process-wide drag registry. The zero value is not
// usable; create one with New.
type Coordinator struct {
	mu       sync.Mutex
	log      zerolog.Logger
	sched    schedule.Scheduler
	sessions map[InputID]*Session
	zones    map[string]Zone
	order    []string // zone ids in registration order
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.log = log
	}
}

// WithScheduler sets the scheduler used for session task groups.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.sched = s
		}
	}
}

// New creates an empty coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		log:      zerolog.Nop(),
		sched:    schedule.NewWall(),
		sessions: make(map[InputID]*Session),
		zones:    make(map[string]Zone),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterZone adds a zone to the registry. Zones must unregister when
// destroyed; the registry holds them until then.
func (c *Coordinator) RegisterZone(z Zone) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := z.ID()
	if _, ok := c.zones[id]; ok {
		return fmt.Errorf("%w: %s", ErrZoneRegistered, id)
	}
	c.zones[id] = z
	c.order = append(c.order, id)
	return nil
}

// UnregisterZone removes a zone. Unknown ids are a no-op so destruction
// paths can run more than once.
func (c *Coordinator) UnregisterZone(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.zones, id)
	for i, zid := range c.order {
		if zid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Zone returns the registered zone with the given id, or nil.
func (c *Coordinator) Zone(id string) Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zones[id]
}

// Zones returns the registered zones in registration order.
func (c *Coordinator) Zones() []Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Zone, 0, len(c.order))
	for _, id := range c.order {
		if z, ok := c.zones[id]; ok {
			out = append(out, z)
		}
	}
	return out
}

// ZoneAt returns the zone whose container bounds contain the point,
// preferring the most recently registered, or nil.
func (c *Coordinator) ZoneAt(p dom.Point) Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.order) - 1; i >= 0; i-- {
		z, ok := c.zones[c.order[i]]
		if !ok {
			continue
		}
		if z.Container().BoundingRect().Contains(p) {
			return z
		}
	}
	return nil
}

// StartDrag creates the session for an input id. It fails with
// ErrDragActive when a session already exists for the id: callers must end
// the previous session first, and a double start indicates a listener bug.
func (c *Coordinator) StartDrag(input InputID, originZone string, items []*dom.Element, policy group.Policy, mode group.PullMode) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sessions[input]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDragActive, input)
	}

	indices := make([]int, len(items))
	for i, it := range items {
		indices[i] = it.Index()
	}
	s := &Session{
		ID:            uuid.NewString(),
		Input:         input,
		OriginZone:    originZone,
		Items:         items,
		OriginIndices: indices,
		GroupName:     policy.Name,
		PullMode:      mode,
		TargetZone:    "",
		TargetIndex:   -1,
		Tasks:         schedule.NewGroup(c.sched),
		policy:        policy,
	}
	c.sessions[input] = s
	c.log.Debug().
		Str("session", s.ID).
		Str("input", string(input)).
		Str("zone", originZone).
		Int("items", len(items)).
		Str("mode", mode.String()).
		Msg("drag session started")
	return s, nil
}

// ActiveDrag returns the session for an input id, or nil.
func (c *Coordinator) ActiveDrag(input InputID) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[input]
}

// CanAcceptDrop reports whether the input's session may drop into a zone
// with the given policy. It uses the policy captured at StartDrag, never
// the origin zone's current configuration. Without a session it is false.
func (c *Coordinator) CanAcceptDrop(input InputID, target group.Policy) bool {
	c.mu.Lock()
	s := c.sessions[input]
	c.mu.Unlock()
	if s == nil {
		return false
	}
	return group.Compatible(s.policy, target)
}

// EndDrag destroys the session for an input id, cancelling its scheduled
// tasks. Unknown ids are a no-op: cleanup paths legitimately run more than
// once (a drop followed by a drag-end, for example).
func (c *Coordinator) EndDrag(input InputID) {
	c.mu.Lock()
	s, ok := c.sessions[input]
	if ok {
		delete(c.sessions, input)
	}
	origin := Zone(nil)
	if ok {
		origin = c.zones[s.OriginZone]
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	s.Tasks.CancelAll()
	if origin != nil {
		origin.SessionEnded(input)
	}
	c.log.Debug().
		Str("session", s.ID).
		Str("input", string(input)).
		Msg("drag session ended")
}

// ActiveCount returns the number of live sessions.
func (c *Coordinator) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
