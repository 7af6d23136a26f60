package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-uimodel/pkg/workflow"
)

// DefaultMaxDepth bounds nested calls.
const DefaultMaxDepth = 32

// FailError is raised by a fail step.
type FailError struct {
	Function string
	Message  string
}

func (e *FailError) Error() string { return e.Message }

// ErrUnknownFunction is returned when Evaluate or a call step names a
// function the program does not define.
var ErrUnknownFunction = errors.New("script: unknown function")

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for unparsable sources.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxDepth = depth
		}
	}
}

// Interpreter runs action scripts. Parsed programs are cached per source.
type Interpreter struct {
	logger   *slog.Logger
	maxDepth int
	programs sync.Map // source -> *Program
}

var _ workflow.Interpreter = (*Interpreter)(nil)

// New returns an interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{logger: slog.Default(), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Program returns the parsed, cached program for source.
func (i *Interpreter) Program(source string) (*Program, error) {
	if cached, ok := i.programs.Load(source); ok {
		return cached.(*Program), nil
	}
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}
	actual, _ := i.programs.LoadOrStore(source, program)
	return actual.(*Program), nil
}

// HasFunction reports whether source defines name. Unparsable sources
// define nothing.
func (i *Interpreter) HasFunction(source, name string) bool {
	program, err := i.Program(source)
	if err != nil {
		i.logger.Warn("script: invalid source", "error", err)
		return false
	}
	return program.Has(name)
}

// Evaluate runs function name with vars as its scope. The scope map is
// shared with the caller; writes land in the referenced data.
func (i *Interpreter) Evaluate(ctx context.Context, source string, vars map[string]any, name string) (any, error) {
	program, err := i.Program(source)
	if err != nil {
		return nil, err
	}
	run := &execution{
		ctx:      ctx,
		program:  program,
		scope:    Scope(vars),
		maxDepth: i.maxDepth,
		logger:   i.logger,
	}
	if run.scope == nil {
		run.scope = Scope{}
	}
	result, _, err := run.call(name, 0)
	return result, err
}

type execution struct {
	ctx      context.Context
	program  *Program
	scope    Scope
	maxDepth int
	logger   *slog.Logger
}

func (r *execution) call(name string, depth int) (any, bool, error) {
	if depth >= r.maxDepth {
		return nil, false, fmt.Errorf("script: call depth exceeded at %q", name)
	}
	steps, ok := r.program.functions[name]
	if !ok {
		return nil, false, fmt.Errorf("%w %q", ErrUnknownFunction, name)
	}
	return r.run(name, steps, depth)
}

// run executes steps and reports whether a return step ended the function.
func (r *execution) run(function string, steps []Step, depth int) (any, bool, error) {
	for idx, step := range steps {
		if err := r.ctx.Err(); err != nil {
			return nil, false, err
		}
		result, returned, err := r.step(function, step, depth)
		if err != nil {
			var fail *FailError
			if errors.As(err, &fail) {
				return nil, false, err
			}
			return nil, false, fmt.Errorf("%s step %d: %w", function, idx, err)
		}
		if returned {
			return result, true, nil
		}
	}
	return nil, false, nil
}

func (r *execution) step(function string, step Step, depth int) (any, bool, error) {
	switch {
	case step.Set != nil:
		value := step.Set.Value
		if step.Set.From != "" {
			value, _ = r.scope.Lookup(step.Set.From)
		}
		return nil, false, r.scope.Assign(step.Set.Path, value)
	case step.Copy != nil:
		value, _ := r.scope.Lookup(step.Copy.From)
		return nil, false, r.scope.Assign(step.Copy.To, value)
	case step.If != "":
		ok, err := step.cond.Eval(r.scope)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return r.run(function, step.Then, depth)
		}
		return r.run(function, step.Else, depth)
	case step.Call != "":
		_, _, err := r.call(step.Call, depth+1)
		return nil, false, err
	case step.Alert != "":
		message := r.interpolate(step.Alert)
		if !workflow.Notify(r.ctx, message) {
			r.logger.InfoContext(r.ctx, "script: alert", "function", function, "message", message)
		}
		return nil, false, nil
	case step.Fail != "":
		return nil, false, &FailError{Function: function, Message: r.interpolate(step.Fail)}
	case step.Return != nil:
		if step.Return.From != "" {
			value, _ := r.scope.Lookup(step.Return.From)
			return value, true, nil
		}
		return step.Return.Value, true, nil
	}
	return nil, false, errors.New("empty step")
}

var placeholder = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// interpolate replaces {{ ref }} placeholders with scope values.
func (r *execution) interpolate(message string) string {
	if !strings.Contains(message, "{{") {
		return message
	}
	return placeholder.ReplaceAllStringFunc(message, func(match string) string {
		ref := placeholder.FindStringSubmatch(match)[1]
		value, ok := r.scope.Lookup(ref)
		if !ok {
			return ""
		}
		return coerceString(value)
	})
}
