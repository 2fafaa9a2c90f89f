package lifecycle

// State is the position of an instance in its lifecycle.
type State int

// Lifecycle states, in order.
const (
	Created State = iota
	PrologueApplied
	CodeLoaded
	Executed
	Closed
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case PrologueApplied:
		return "PrologueApplied"
	case CodeLoaded:
		return "CodeLoaded"
	case Executed:
		return "Executed"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Phase names one lifecycle operation.
type Phase string

// Lifecycle phases.
const (
	PhasePrologue Phase = "prologue"
	PhaseLoad     Phase = "load"
	PhaseBuild    Phase = "build"
	PhaseExecute  Phase = "execute"
	PhaseClose    Phase = "close"
)
