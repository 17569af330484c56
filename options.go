package dragstorm

import (
	"github.com/dshills/dragstorm/internal/a11y"
	"github.com/dshills/dragstorm/internal/config"
	"github.com/dshills/dragstorm/internal/coordinator"
	"github.com/dshills/dragstorm/internal/dom"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/ghost"
	"github.com/dshills/dragstorm/internal/group"
	"github.com/dshills/dragstorm/internal/zone"
)

// Aliases lift the engine's working types into the public API so
// integrations never import internal packages directly.
type (
	// Options configures one sortable zone.
	Options = config.Options
	// Easing names a FLIP timing curve.
	Easing = config.Easing

	// Document is the headless element tree zones live in.
	Document = dom.Document
	// Element is one node of the tree.
	Element = dom.Element
	// Point is a document coordinate.
	Point = dom.Point
	// Rect is an axis-aligned box in document coordinates.
	Rect = dom.Rect

	// Event is one drag lifecycle notification.
	Event = event.Event
	// EventType discriminates Event payloads.
	EventType = event.Type

	// GroupPolicy controls which zones exchange items.
	GroupPolicy = group.Policy
	// PullRule is the outbound half of a GroupPolicy.
	PullRule = group.PullRule
	// PutRule is the inbound half of a GroupPolicy.
	PutRule = group.PutRule

	// InputID distinguishes concurrent input devices.
	InputID = coordinator.InputID

	// PlacementStrategy decides where dropped items land.
	PlacementStrategy = zone.PlacementStrategy
	// Placement is the context handed to a PlacementStrategy.
	Placement = zone.Placement
	// InsertPlacement is the default insert-at-candidate strategy.
	InsertPlacement = zone.InsertPlacement
	// SwapPlacement exchanges the dragged item with the occupant.
	SwapPlacement = zone.SwapPlacement

	// Command is one discrete keyboard action.
	Command = a11y.Command
	// Keyboard drives one zone from discrete commands.
	Keyboard = a11y.Keyboard
	// Announcer narrates drag lifecycle events for assistive output.
	Announcer = a11y.Announcer
)

// PlaceholderAttr marks the drop-slot proxy element. Renderers draw it as
// an empty slot; order queries skip it.
const PlaceholderAttr = ghost.PlaceholderAttr

// Easing curves.
const (
	EaseLinear = config.EaseLinear
	EaseOut    = config.EaseOut
	EaseIn     = config.EaseIn
	EaseInOut  = config.EaseInOut
)

// Event types, in lifecycle order.
const (
	EventChoose   = event.Choose
	EventUnchoose = event.Unchoose
	EventStart    = event.Start
	EventMove     = event.Move
	EventSort     = event.Sort
	EventUpdate   = event.Update
	EventAdd      = event.Add
	EventRemove   = event.Remove
	EventEnd      = event.End
	EventClone    = event.Clone
	EventFilter   = event.Filter
	EventSelect   = event.Select
	EventDeselect = event.Deselect
)

// Group pull kinds.
const (
	PullDefault = group.PullDefault
	PullAlways  = group.PullAlways
	PullNever   = group.PullNever
	PullClone   = group.PullClone
	PullAllow   = group.PullAllow
)

// Group put kinds.
const (
	PutAlways = group.PutAlways
	PutNever  = group.PutNever
	PutAllow  = group.PutAllow
)

// Keyboard commands.
const (
	CmdFocusNext = a11y.CmdFocusNext
	CmdFocusPrev = a11y.CmdFocusPrev
	CmdGrab      = a11y.CmdGrab
	CmdCancel    = a11y.CmdCancel
	CmdZoneNext  = a11y.CmdZoneNext
	CmdZonePrev  = a11y.CmdZonePrev
)

// DefaultOptions returns the baseline options for a new zone.
func DefaultOptions() Options { return config.Default() }

// Group returns a policy that freely exchanges items with zones sharing
// the same name.
func Group(name string) GroupPolicy { return group.Named(name) }

// NewDocument creates an empty document of the given size.
func NewDocument(width, height float64) *Document { return dom.NewDocument(width, height) }

// NewElement creates a detached element of the given size.
func NewElement(width, height float64) *Element { return dom.NewElement(width, height) }
