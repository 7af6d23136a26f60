package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBound is reported by dispatches issued before Bind.
	ErrNotBound = errors.New("workflow: engine is not bound")
	// ErrTornDown is reported by operations on a torn down engine.
	ErrTornDown = errors.New("workflow: engine is torn down")
)

// PhaseError reports an operation attempted in the wrong phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("workflow: %s not allowed while %s", e.Op, e.Phase)
}

// ScriptError wraps a failed handler evaluation. The engine hands it to the
// notifier instead of returning it to the caller of Dispatch.
type ScriptError struct {
	Event string
	Err   error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("workflow: handler %q failed: %v", e.Event, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }
