package workflow

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-uimodel/pkg/model"
)

// Resolver rewrites a tree before binding, for example substituting
// environment specific placeholders.
type Resolver interface {
	Resolve(ctx context.Context, ui *model.UIModel) (*model.UIModel, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(ctx context.Context, ui *model.UIModel) (*model.UIModel, error)

// Resolve delegates to the underlying function.
func (fn ResolverFunc) Resolve(ctx context.Context, ui *model.UIModel) (*model.UIModel, error) {
	return fn(ctx, ui)
}

// Interpreter is the script capability the engine drives. HasFunction must
// be cheap; Evaluate may block.
type Interpreter interface {
	HasFunction(source, name string) bool
	Evaluate(ctx context.Context, source string, vars map[string]any, name string) (any, error)
}

// Notifier surfaces user visible messages, such as a failed handler.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, message string)

// Notify delegates to the underlying function.
func (fn NotifierFunc) Notify(ctx context.Context, message string) {
	fn(ctx, message)
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(ctx context.Context, message string) {
	n.logger.WarnContext(ctx, "workflow: notification", "message", message)
}

type notifierKey struct{}

// WithNotifierContext stores a notifier for interpreters that raise
// messages of their own while a handler runs.
func WithNotifierContext(ctx context.Context, notifier Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, notifier)
}

// Notify sends message to the notifier of the dispatch running in ctx. It
// reports false when ctx carries none.
func Notify(ctx context.Context, message string) bool {
	notifier, ok := ctx.Value(notifierKey{}).(Notifier)
	if !ok || notifier == nil {
		return false
	}
	notifier.Notify(ctx, message)
	return true
}
