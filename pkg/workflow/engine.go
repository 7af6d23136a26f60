package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-uimodel/pkg/model"
)

const tracerName = "github.com/goliatone/go-uimodel/pkg/workflow"

// Keys seeded into the vars and the evaluation context.
const (
	VarUIModel     = "uiModel"
	VarDataModel   = "dataModel"
	VarRootUIModel = "rootUIModel"
	VarVars        = "vars"
)

// Phase is the lifecycle state of an Engine.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseVariablesResolved
	PhaseBound
	PhaseActive
	PhaseTornDown
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseVariablesResolved:
		return "variables-resolved"
	case PhaseBound:
		return "bound"
	case PhaseActive:
		return "active"
	case PhaseTornDown:
		return "torn-down"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Config is created per tree instantiation. Vars gains uiModel and
// dataModel on Bind and is released on Teardown.
type Config struct {
	Vars             map[string]any
	VariableResolver Resolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithScripts sets the script source handed to the interpreter.
func WithScripts(source string) Option {
	return func(e *Engine) {
		e.scripts = source
	}
}

// WithInterpreter sets the script capability. Without one every dispatch
// is a no-op.
func WithInterpreter(interpreter Interpreter) Option {
	return func(e *Engine) {
		e.interpreter = interpreter
	}
}

// WithNotifier sets where failed handlers are reported. The default logs a
// warning.
func WithNotifier(notifier Notifier) Option {
	return func(e *Engine) {
		if notifier != nil {
			e.notifier = notifier
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracerProvider sets the provider for workflow spans.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(e *Engine) {
		if provider != nil {
			e.tracer = provider.Tracer(tracerName)
		}
	}
}

// WithAppContext registers the engine under its root id once bound.
func WithAppContext(app *AppContext) Option {
	return func(e *Engine) {
		e.app = app
	}
}

// Engine drives one UI model tree instance.
type Engine struct {
	mu    sync.Mutex
	phase Phase
	vars  map[string]any
	ui    *model.UIModel
	data  any

	resolver    Resolver
	scripts     string
	interpreter Interpreter
	notifier    Notifier
	logger      *slog.Logger
	tracer      trace.Tracer
	app         *AppContext

	inflight sync.WaitGroup
}

// New creates an engine for ui bound to data. The data model is never copied.
func New(cfg Config, ui *model.UIModel, data any, opts ...Option) *Engine {
	e := &Engine{
		phase:    PhaseUninitialized,
		vars:     make(map[string]any, len(cfg.Vars)+2),
		ui:       ui,
		data:     data,
		resolver: cfg.VariableResolver,
		logger:   slog.Default(),
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
	}
	for key, value := range cfg.Vars {
		e.vars[key] = value
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.notifier == nil {
		e.notifier = logNotifier{logger: e.logger}
	}
	return e
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// UIModel returns the current, possibly resolved, tree.
func (e *Engine) UIModel() *model.UIModel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ui
}

// DataModel returns the shared data model.
func (e *Engine) DataModel() any {
	return e.data
}

// Vars returns a copy of the current vars; nil after teardown.
func (e *Engine) Vars() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.vars == nil {
		return nil
	}
	out := make(map[string]any, len(e.vars))
	for key, value := range e.vars {
		out[key] = value
	}
	return out
}

// ResolveVariables passes the tree through the configured resolver and
// replaces it with the result. It runs once; later calls are no-ops.
func (e *Engine) ResolveVariables(ctx context.Context) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseUninitialized:
	case PhaseTornDown:
		return ErrTornDown
	default:
		return nil
	}

	if e.resolver == nil {
		e.phase = PhaseVariablesResolved
		return nil
	}

	ctx, span := e.tracer.Start(ctx, "workflow.ResolveVariables")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	resolved, err := e.resolver.Resolve(ctx, e.ui)
	if err != nil {
		return fmt.Errorf("workflow: resolve variables: %w", err)
	}
	if resolved == nil {
		return errors.New("workflow: resolve variables: resolver returned no model")
	}
	e.ui = resolved
	e.phase = PhaseVariablesResolved
	return nil
}

// Bind seeds vars with the tree and the data model. ResolveVariables must
// have run.
func (e *Engine) Bind() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseVariablesResolved:
	case PhaseBound, PhaseActive:
		return nil
	case PhaseTornDown:
		return ErrTornDown
	default:
		return &PhaseError{Op: "bind", Phase: e.phase}
	}

	e.vars[VarUIModel] = e.ui
	e.vars[VarDataModel] = e.data
	e.phase = PhaseBound

	if e.app != nil && e.ui != nil && e.ui.ID != "" {
		e.app.register(e.ui.ID, e)
	}
	return nil
}

// Start resolves variables and binds.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.ResolveVariables(ctx); err != nil {
		return err
	}
	return e.Bind()
}

// Dispatch routes eventName to the script function of the same name. Events
// without a function complete immediately as unhandled. Handled events run
// on their own goroutine against the shared data model; failures are sent
// to the notifier and recorded on the task, never panicking the caller.
// Cancelling ctx does not stop a running evaluation.
func (e *Engine) Dispatch(ctx context.Context, eventName string, params map[string]any) *Task {
	task := newTask(eventName)

	e.mu.Lock()
	switch e.phase {
	case PhaseBound, PhaseActive:
	case PhaseTornDown:
		e.mu.Unlock()
		task.finish(nil, ErrTornDown)
		return task
	default:
		e.mu.Unlock()
		task.finish(nil, ErrNotBound)
		return task
	}

	if e.interpreter == nil || !e.interpreter.HasFunction(e.scripts, eventName) {
		e.mu.Unlock()
		task.finish(nil, nil)
		return task
	}

	scope := make(map[string]any, len(params)+3)
	scope[VarVars] = copyVars(e.vars)
	scope[VarRootUIModel] = e.ui
	scope[VarDataModel] = e.data
	for key, value := range params {
		scope[key] = value
	}
	e.phase = PhaseActive
	e.inflight.Add(1)
	e.mu.Unlock()

	task.handled = true
	go e.evaluate(context.WithoutCancel(ctx), task, scope)
	return task
}

// DispatchEvent dispatches a component event.
func (e *Engine) DispatchEvent(ctx context.Context, event model.ComponentEvent) *Task {
	return e.Dispatch(ctx, event.EventName, event.Parameters)
}

func (e *Engine) evaluate(ctx context.Context, task *Task, scope map[string]any) {
	defer e.inflight.Done()

	ctx, span := e.tracer.Start(ctx, "workflow.Dispatch", trace.WithAttributes(
		attribute.String("workflow.event", task.event),
	))
	defer span.End()

	ctx = WithNotifierContext(ctx, e.notifier)
	result, err := e.safeEvaluate(ctx, task.event, scope)
	if err != nil {
		scriptErr := &ScriptError{Event: task.event, Err: err}
		span.RecordError(scriptErr)
		span.SetStatus(codes.Error, scriptErr.Error())
		e.logger.ErrorContext(ctx, "workflow: handler failed", "event", task.event, "error", err)
		e.notifier.Notify(ctx, err.Error())
		task.finish(nil, scriptErr)
		return
	}
	task.finish(result, nil)
}

func (e *Engine) safeEvaluate(ctx context.Context, name string, scope map[string]any) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return e.interpreter.Evaluate(ctx, e.scripts, scope, name)
}

// Wait blocks until every dispatched evaluation has finished.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// Teardown releases the vars and unregisters the engine. Evaluations still
// running finish against the snapshot they started with. The data model is
// left untouched.
func (e *Engine) Teardown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseTornDown {
		return
	}
	if e.app != nil && e.ui != nil && e.ui.ID != "" {
		e.app.unregister(e.ui.ID, e)
	}
	e.vars = nil
	e.phase = PhaseTornDown
}

func copyVars(vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars))
	for key, value := range vars {
		out[key] = value
	}
	return out
}
