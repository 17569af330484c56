package zone

import "errors"

// Errors surfaced by the controller.
var (
	// ErrNilContainer is returned when a controller is constructed
	// without a container element.
	ErrNilContainer = errors.New("zone container must not be nil")

	// ErrDetachedContainer is returned when the container is not part of
	// a document.
	ErrDetachedContainer = errors.New("zone container must be attached to a document")

	// ErrNotItem is returned by programmatic operations addressing an
	// element that is not an item of this zone.
	ErrNotItem = errors.New("element is not an item of this zone")

	// ErrNoSession is returned by programmatic operations that need an
	// active drag session for the input id.
	ErrNoSession = errors.New("no active drag session for input")

	// ErrDisabled is returned when an operation targets a disabled zone.
	ErrDisabled = errors.New("zone is disabled")

	// ErrUnknownZone is returned when a candidate zone id is not
	// registered with the coordinator.
	ErrUnknownZone = errors.New("unknown zone id")
)
