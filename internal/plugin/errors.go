package plugin

import "errors"

// Errors surfaced by the plugin system.
var (
	// ErrNilManifest is returned when a host is constructed without a
	// manifest.
	ErrNilManifest = errors.New("plugin: manifest must not be nil")

	// ErrNotLoaded is returned by calls that need a running interpreter.
	ErrNotLoaded = errors.New("plugin: not loaded")

	// ErrAlreadyLoaded is returned by a second Load on the same host.
	ErrAlreadyLoaded = errors.New("plugin: already loaded")

	// ErrClosed is returned by any call after the host was closed.
	ErrClosed = errors.New("plugin: host closed")

	// ErrUnknownPlugin is returned when a manager is asked for a plugin
	// it has not discovered.
	ErrUnknownPlugin = errors.New("plugin: unknown plugin")

	// ErrNoStrategy is returned when a strategy is requested from a
	// plugin whose script never registered one.
	ErrNoStrategy = errors.New("plugin: script registered no strategy")

	// ErrUnknownEvent is returned when a script subscribes to an event
	// name the engine does not emit.
	ErrUnknownEvent = errors.New("plugin: unknown event name")
)
