package zone

// State is the controller's drag lifecycle phase for one input id.
type State uint8

const (
	// StateIdle means no interaction is in progress.
	StateIdle State = iota
	// StateChosen means an eligible item is picked but not yet dragging.
	StateChosen
	// StateDragging means a session is registered and proxies exist.
	StateDragging
	// StateHovering means the session has a valid candidate placement.
	StateHovering
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateChosen:
		return "chosen"
	case StateDragging:
		return "dragging"
	case StateHovering:
		return "hovering"
	default:
		return "idle"
	}
}
