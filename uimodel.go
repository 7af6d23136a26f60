// Package uimodel assembles the registry, markup parser, script interpreter
// and workflow engine into a ready runtime.
package uimodel

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-uimodel/pkg/components"
	"github.com/goliatone/go-uimodel/pkg/markup"
	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/registry"
	"github.com/goliatone/go-uimodel/pkg/script"
	"github.com/goliatone/go-uimodel/pkg/variables"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

// Option customises the runtime.
type Option func(*Runtime)

// WithRegistry replaces the default registry seeded with the core components.
func WithRegistry(reg *registry.Registry) Option {
	return func(r *Runtime) {
		r.registry = reg
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracerProvider sets the tracer provider used by the parser and engines.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Runtime) {
		if provider != nil {
			r.tracerProvider = provider
		}
	}
}

// WithInterpreter replaces the built-in script interpreter.
func WithInterpreter(interpreter workflow.Interpreter) Option {
	return func(r *Runtime) {
		r.interpreter = interpreter
	}
}

// WithNotifier sets the notifier handed to every engine.
func WithNotifier(notifier workflow.Notifier) Option {
	return func(r *Runtime) {
		r.notifier = notifier
	}
}

// WithAppContext sets the app context engines register with.
func WithAppContext(app *workflow.AppContext) Option {
	return func(r *Runtime) {
		r.app = app
	}
}

// WithEnv fixes the env values visible to property templates.
func WithEnv(env map[string]string) Option {
	return func(r *Runtime) {
		r.env = env
	}
}

// WithTemplateFS sets where property templates resolve include and extends.
func WithTemplateFS(files fs.FS) Option {
	return func(r *Runtime) {
		r.templates = files
	}
}

// Runtime bundles the collaborators needed to turn markup into running UI
// models.
type Runtime struct {
	registry       *registry.Registry
	parser         *markup.Parser
	interpreter    workflow.Interpreter
	notifier       workflow.Notifier
	app            *workflow.AppContext
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	env            map[string]string
	templates      fs.FS
}

// New constructs a Runtime, filling missing collaborators with the built-in
// implementations.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.registry == nil {
		r.registry = components.NewRegistry(registry.WithLogger(r.logger))
	}
	if r.interpreter == nil {
		r.interpreter = script.New(script.WithLogger(r.logger))
	}
	if r.app == nil {
		r.app = workflow.NewAppContext()
	}
	r.parser = markup.New(r.registry,
		markup.WithLogger(r.logger),
		markup.WithTracerProvider(r.tracerProvider),
	)
	return r
}

// Registry returns the component registry.
func (r *Runtime) Registry() *registry.Registry { return r.registry }

// Parser returns the markup parser bound to the registry.
func (r *Runtime) Parser() *markup.Parser { return r.parser }

// AppContext returns the app context engines register with.
func (r *Runtime) AppContext() *workflow.AppContext { return r.app }

// Parse converts markup into a UI model, or nil when the markup is invalid.
func (r *Runtime) Parse(ctx context.Context, doc string) *model.UIModel {
	return r.parser.Parse(ctx, doc)
}

// Load reads a UI model from markup (input starting with '<') or from its
// JSON/YAML object form.
func (r *Runtime) Load(ctx context.Context, data []byte) (*model.UIModel, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return r.parser.ParseStrict(ctx, string(trimmed))
	}
	ui, err := model.Decode(trimmed)
	if err != nil {
		return nil, fmt.Errorf("uimodel: decode model: %w", err)
	}
	if err := r.registry.Validate(ui); err != nil {
		return nil, fmt.Errorf("uimodel: %w", err)
	}
	return ui, nil
}

// Instantiate validates ui, builds an engine over ui and data, and starts it.
// Without a VariableResolver in cfg, property templates are rendered with
// cfg.Vars. opts are applied after the runtime defaults.
func (r *Runtime) Instantiate(ctx context.Context, cfg workflow.Config, ui *model.UIModel, data any, opts ...workflow.Option) (*workflow.Engine, error) {
	if err := r.registry.Validate(ui); err != nil {
		return nil, fmt.Errorf("uimodel: %w", err)
	}
	if cfg.VariableResolver == nil {
		resolverOpts := []variables.Option{variables.WithVars(cfg.Vars), variables.WithLogger(r.logger)}
		if r.env != nil {
			resolverOpts = append(resolverOpts, variables.WithEnv(r.env))
		}
		if r.templates != nil {
			resolverOpts = append(resolverOpts, variables.WithFS(r.templates))
		}
		cfg.VariableResolver = variables.NewTemplateResolver(resolverOpts...)
	}

	engineOpts := []workflow.Option{
		workflow.WithInterpreter(r.interpreter),
		workflow.WithLogger(r.logger),
		workflow.WithTracerProvider(r.tracerProvider),
		workflow.WithAppContext(r.app),
	}
	if r.notifier != nil {
		engineOpts = append(engineOpts, workflow.WithNotifier(r.notifier))
	}
	engine := workflow.New(cfg, ui, data, append(engineOpts, opts...)...)
	if err := engine.Start(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}
