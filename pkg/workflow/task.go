package workflow

// Task tracks one dispatch. Unhandled dispatches are finished on return.
type Task struct {
	event   string
	handled bool
	done    chan struct{}
	result  any
	err     error
}

func newTask(event string) *Task {
	return &Task{event: event, done: make(chan struct{})}
}

func (t *Task) finish(result any, err error) {
	t.result = result
	t.err = err
	close(t.done)
}

// Event returns the dispatched event name.
func (t *Task) Event() string { return t.event }

// Handled reports whether a script function was invoked.
func (t *Task) Handled() bool { return t.handled }

// Done is closed once the dispatch has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the dispatch finishes and returns the handler result.
// A failed handler yields a *ScriptError after it was already reported to
// the notifier.
func (t *Task) Wait() (any, error) {
	<-t.done
	return t.result, t.err
}

// Err returns the dispatch error once done, nil before.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
