package variables

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

const (
	ContextEnv  = "env"
	ContextVars = "vars"
)

// Option configures a TemplateResolver.
type Option func(*config)

type config struct {
	env       map[string]string
	vars      map[string]any
	templates fs.FS
	logger    *slog.Logger
}

// WithEnv replaces the environment snapshot taken at construction.
func WithEnv(env map[string]string) Option {
	return func(cfg *config) {
		cfg.env = make(map[string]string, len(env))
		for key, value := range env {
			cfg.env[key] = value
		}
	}
}

// WithVars seeds the vars context value.
func WithVars(vars map[string]any) Option {
	return func(cfg *config) {
		if len(vars) == 0 {
			return
		}
		if cfg.vars == nil {
			cfg.vars = make(map[string]any, len(vars))
		}
		for key, value := range vars {
			cfg.vars[strings.TrimSpace(key)] = value
		}
	}
}

// WithFS makes templates in files available to {% include %}.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// TemplateResolver renders templated property strings.
type TemplateResolver struct {
	set    *pongo2.TemplateSet
	ctx    pongo2.Context
	logger *slog.Logger

	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

var _ workflow.Resolver = (*TemplateResolver)(nil)

// NewTemplateResolver builds a resolver. Without WithEnv the process
// environment is captured once here.
func NewTemplateResolver(opts ...Option) *TemplateResolver {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.env == nil {
		cfg.env = environ()
	}
	if cfg.vars == nil {
		cfg.vars = map[string]any{}
	}

	files := cfg.templates
	if files == nil {
		files = emptyFS{}
	}
	set := pongo2.NewSet("uimodel-variables", pongo2.NewFSLoader(files))
	_ = set.BanTag("ssi")

	return &TemplateResolver{
		set:       set,
		ctx:       pongo2.Context{ContextEnv: cfg.env, ContextVars: cfg.vars},
		logger:    cfg.logger,
		templates: make(map[string]*pongo2.Template),
	}
}

// Resolve returns a copy of ui with every templated property rendered. ui
// itself is left untouched.
func (r *TemplateResolver) Resolve(ctx context.Context, ui *model.UIModel) (*model.UIModel, error) {
	if ui == nil {
		return nil, errors.New("variables: nil ui model")
	}
	out := ui.Clone()
	rendered := 0
	err := out.Walk(func(node, _ *model.UIModel, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, bag := range []model.AttributesMap{node.ContainerProperties, node.ItemProperties} {
			for key, value := range bag {
				next, n, err := r.renderValue(value)
				if err != nil {
					return fmt.Errorf("variables: %s property %q: %w", describe(node), key, err)
				}
				if n > 0 {
					bag[key] = next
					rendered += n
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.DebugContext(ctx, "variables: resolved", "templates", rendered)
	return out, nil
}

// Render expands a single template string.
func (r *TemplateResolver) Render(text string) (string, error) {
	if !IsTemplate(text) {
		return text, nil
	}
	tmpl, err := r.template(text)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(r.ctx)
	if err != nil {
		return "", fmt.Errorf("variables: execute: %w", err)
	}
	return out, nil
}

// IsTemplate reports whether text contains template markup.
func IsTemplate(text string) bool {
	return strings.Contains(text, "{{") || strings.Contains(text, "{%")
}

func (r *TemplateResolver) renderValue(value any) (any, int, error) {
	switch v := value.(type) {
	case string:
		if !IsTemplate(v) {
			return v, 0, nil
		}
		out, err := r.Render(v)
		return out, 1, err
	case []any:
		total := 0
		for idx, item := range v {
			next, n, err := r.renderValue(item)
			if err != nil {
				return nil, 0, err
			}
			v[idx] = next
			total += n
		}
		return v, total, nil
	case map[string]any:
		total := 0
		for key, item := range v {
			next, n, err := r.renderValue(item)
			if err != nil {
				return nil, 0, err
			}
			v[key] = next
			total += n
		}
		return v, total, nil
	default:
		return value, 0, nil
	}
}

func (r *TemplateResolver) template(text string) (*pongo2.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[text]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	// Property values are plain text, not HTML.
	tmpl, err := r.set.FromString("{% autoescape off %}" + text + "{% endautoescape %}")
	if err != nil {
		return nil, fmt.Errorf("variables: parse template: %w", err)
	}
	r.mu.Lock()
	r.templates[text] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func describe(node *model.UIModel) string {
	if node.ID != "" {
		return node.Type + "#" + node.ID
	}
	return node.Type
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if ok && key != "" {
			env[key] = value
		}
	}
	return env
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
