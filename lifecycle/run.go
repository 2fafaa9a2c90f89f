package lifecycle

import (
	"fmt"

	"github.com/specs-feup/clava-benchmarks/host"
)

// BuildFunc compiles the code of a loaded instance and associates the result
// through SetExecutable.
type BuildFunc func(inst *Instance) error

// PhaseError records which phase of Run failed.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Build runs build between Load and Execute.
func (i *Instance) Build(build BuildFunc) error {
	return i.phase(PhaseBuild, CodeLoaded, CodeLoaded, func() error {
		return build(i)
	})
}

// Run takes inst through every phase and always closes it. A nil build skips
// the build step, which is only useful when the executable was set up front.
func Run(inst *Instance, build BuildFunc) (host.Executor, error) {
	defer inst.Close()

	if err := inst.Prologue(); err != nil {
		return nil, &PhaseError{Phase: PhasePrologue, Err: err}
	}

	if err := inst.Load(); err != nil {
		return nil, &PhaseError{Phase: PhaseLoad, Err: err}
	}

	if build != nil {
		if err := inst.Build(build); err != nil {
			return nil, &PhaseError{Phase: PhaseBuild, Err: err}
		}
	}

	executor, err := inst.Execute()
	if err != nil {
		return nil, &PhaseError{Phase: PhaseExecute, Err: err}
	}

	return executor, nil
}
