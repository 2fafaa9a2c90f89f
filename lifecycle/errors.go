package lifecycle

import "fmt"

// NoExecutableError is returned by Execute when the build step has not
// associated an executable with the instance.
type NoExecutableError struct {
	Instance string
}

func (e *NoExecutableError) Error() string {
	return fmt.Sprintf("%s: no executable currently defined", e.Instance)
}

// InvalidLifecycleStateError is returned when a phase is invoked out of
// order, or again after a phase of the same instance failed.
type InvalidLifecycleStateError struct {
	Instance string
	Phase    Phase
	State    State
	Failed   bool
}

func (e *InvalidLifecycleStateError) Error() string {
	if e.Failed {
		return fmt.Sprintf("%s: cannot run %s after a failed phase (state %s), only close is allowed",
			e.Instance, e.Phase, e.State)
	}
	return fmt.Sprintf("%s: cannot run %s in state %s", e.Instance, e.Phase, e.State)
}
