package lifecycle

import (
	"time"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosPhaseStart marks the moment a phase begins.
var HookPosPhaseStart = &sim.HookPos{Name: "PhaseStart"}

// HookPosPhaseEnd marks the moment a phase returns.
var HookPosPhaseEnd = &sim.HookPos{Name: "PhaseEnd"}

// PhaseEvent is the hook detail for both hook positions. Err and Duration
// are only set at PhaseEnd.
type PhaseEvent struct {
	Instance *Instance
	Phase    Phase
	From     State
	To       State
	Err      error
	Duration time.Duration
}

// HookFunc adapts a function to sim.Hook.
type HookFunc func(ctx sim.HookCtx)

// Func implements sim.Hook.
func (f HookFunc) Func(ctx sim.HookCtx) { f(ctx) }

// PhaseHook calls fn with the event of every PhaseEnd hook.
func PhaseHook(fn func(e PhaseEvent)) sim.Hook {
	return HookFunc(func(ctx sim.HookCtx) {
		if ctx.Pos != HookPosPhaseEnd {
			return
		}
		if e, ok := ctx.Detail.(PhaseEvent); ok {
			fn(e)
		}
	})
}
