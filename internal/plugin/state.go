package plugin

// State is a host's lifecycle phase.
type State uint8

const (
	// StateUnloaded means the interpreter has not run the entry script.
	StateUnloaded State = iota
	// StateLoaded means the entry script ran without error.
	StateLoaded
	// StateError means loading or a later call failed; Err holds why.
	StateError
	// StateClosed means the interpreter was shut down.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unloaded"
	}
}
