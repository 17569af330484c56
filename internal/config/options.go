// Package config provides the declarative option surface for sortable zones.
//
// The engine treats options as a read-only snapshot fetched at each decision
// point, so most options can change between drags without re-creating the
// zone. Profiles can be loaded from TOML files and watched for live reload.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/dragstorm/internal/group"
)

// Validation errors.
var (
	// ErrBadThreshold is returned when a threshold is outside its range.
	ErrBadThreshold = errors.New("threshold out of range")

	// ErrBadDuration is returned for negative durations.
	ErrBadDuration = errors.New("duration must not be negative")

	// ErrBadEasing is returned for an unknown easing name.
	ErrBadEasing = errors.New("unknown easing")

	// ErrBadPull is returned when a pull value cannot be interpreted.
	ErrBadPull = errors.New("invalid pull value")

	// ErrBadPut is returned when a put value cannot be interpreted.
	ErrBadPut = errors.New("invalid put value")
)

// Easing names the animation timing curve.
type Easing string

const (
	// EaseLinear is constant velocity.
	EaseLinear Easing = "linear"
	// EaseOut decelerates toward the end.
	EaseOut Easing = "ease-out"
	// EaseIn accelerates from rest.
	EaseIn Easing = "ease-in"
	// EaseInOut accelerates then decelerates.
	EaseInOut Easing = "ease-in-out"
)

// Valid returns true for a known easing name.
func (e Easing) Valid() bool {
	switch e {
	case EaseLinear, EaseOut, EaseIn, EaseInOut:
		return true
	}
	return false
}

// Options configures one sortable zone.
type Options struct {
	// Group is the zone's compatibility policy.
	Group group.Policy

	// Sort enables reordering within the zone itself.
	Sort bool

	// Disabled suspends all drag interaction for the zone.
	Disabled bool

	// Handle, when set, restricts drag starts to elements matching the
	// selector inside an item.
	Handle string

	// Filter, when set, makes matching items ineligible for dragging.
	Filter string

	// Delay defers the chosen state after pointer down.
	Delay time.Duration

	// TouchStartThreshold cancels a pending delayed drag when the pointer
	// moves farther than this many units before the delay elapses.
	TouchStartThreshold float64

	// DragThreshold is the movement distance that promotes a chosen item
	// to a real drag.
	DragThreshold float64

	// SwapThreshold is the overlap fraction, in (0, 1], at which hovering
	// an item counts as targeting it for swap-style collision.
	SwapThreshold float64

	// InvertSwap flips the swap-threshold test to the item's outer bands.
	InvertSwap bool

	// Animation is the FLIP duration. Zero disables animation entirely.
	Animation time.Duration

	// AnimationEasing is the timing curve for FLIP transitions.
	AnimationEasing Easing

	// Style marker class names.
	GhostClass    string
	ChosenClass   string
	DragClass     string
	SelectedClass string

	// DataIDAttr names the attribute used for external order queries.
	DataIDAttr string

	// MultiDrag enables multi-item selection and block dragging.
	MultiDrag bool
}

// Default returns the baseline options for a new zone.
func Default() Options {
	return Options{
		Sort:            true,
		DragThreshold:   1,
		SwapThreshold:   1,
		Animation:       150 * time.Millisecond,
		AnimationEasing: EaseOut,
		GhostClass:      "sortable-ghost",
		ChosenClass:     "sortable-chosen",
		DragClass:       "sortable-drag",
		SelectedClass:   "sortable-selected",
		DataIDAttr:      "data-id",
	}
}

// Validate reports the first invalid option, if any.
func (o Options) Validate() error {
	if o.SwapThreshold <= 0 || o.SwapThreshold > 1 {
		return fmt.Errorf("%w: swapThreshold %v not in (0, 1]", ErrBadThreshold, o.SwapThreshold)
	}
	if o.TouchStartThreshold < 0 {
		return fmt.Errorf("%w: touchStartThreshold %v", ErrBadThreshold, o.TouchStartThreshold)
	}
	if o.DragThreshold < 0 {
		return fmt.Errorf("%w: dragThreshold %v", ErrBadThreshold, o.DragThreshold)
	}
	if o.Delay < 0 {
		return fmt.Errorf("%w: delay %v", ErrBadDuration, o.Delay)
	}
	if o.Animation < 0 {
		return fmt.Errorf("%w: animation %v", ErrBadDuration, o.Animation)
	}
	if o.AnimationEasing != "" && !o.AnimationEasing.Valid() {
		return fmt.Errorf("%w: %q", ErrBadEasing, o.AnimationEasing)
	}
	return nil
}
