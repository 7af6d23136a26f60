package markup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/properties"
	"github.com/goliatone/go-uimodel/pkg/registry"
)

const tracerName = "github.com/goliatone/go-uimodel/pkg/markup"

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving swallowed parse failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracerProvider sets the provider used for parse spans. The global
// provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(p *Parser) {
		if provider != nil {
			p.tracer = provider.Tracer(tracerName)
		}
	}
}

// Parser builds UI models from markup using a registry to resolve types and
// parse hooks. It holds no mutable state and is safe for concurrent use.
type Parser struct {
	registry *registry.Registry
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a parser over reg.
func New(reg *registry.Registry, opts ...Option) *Parser {
	p := &Parser{
		registry: reg,
		logger:   slog.Default(),
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse translates doc into a tree. Failures are logged and reported as a
// nil model.
func (p *Parser) Parse(ctx context.Context, doc string) *model.UIModel {
	node, err := p.ParseStrict(ctx, doc)
	if err != nil {
		p.logger.ErrorContext(ctx, "markup: invalid model", "error", err)
		return nil
	}
	return node
}

// ParseStrict translates doc into a tree and returns the first failure.
func (p *Parser) ParseStrict(ctx context.Context, doc string) (node *model.UIModel, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := p.tracer.Start(ctx, "markup.Parse", trace.WithAttributes(
		attribute.Int("markup.bytes", len(doc)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("markup.nodes", node.Count()))
		}
		span.End()
	}()

	if p.registry == nil {
		return nil, &ParseError{Err: errors.New("registry is required")}
	}

	raw, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	return p.Build(raw)
}

// Build converts an already decoded element tree.
func (p *Parser) Build(el *model.RawElement) (*model.UIModel, error) {
	if el == nil {
		return nil, &ParseError{Err: errors.New("element is nil")}
	}
	return p.build(el, el.Type)
}

func (p *Parser) build(el *model.RawElement, path string) (*model.UIModel, error) {
	container, item := Partition(el.Attrs)
	node := &model.UIModel{
		Type:                el.Type,
		ContainerProperties: container,
		ItemProperties:      item,
	}

	descriptor, err := p.registry.Resolve(el.Type)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	childrenHandled := false
	if descriptor.Parse != nil {
		result, err := descriptor.Parse(el)
		if err != nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("parse hook %q: %w", descriptor.Key(), err)}
		}
		for key, value := range result.ItemProperties {
			node.ItemProperties[key] = value
		}
		if result.Children != nil {
			node.Children = result.Children
			childrenHandled = true
		}
		if result.ConsumedChildren {
			childrenHandled = true
		}
	}

	if id, ok := el.Attr("id"); ok && id != "" {
		node.ID = id
	}

	if !childrenHandled && len(el.Children) > 0 {
		node.Children = make([]*model.UIModel, 0, len(el.Children))
		for idx, child := range el.Children {
			built, err := p.build(child, path+"/"+strconv.Itoa(idx))
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, built)
		}
	}

	if err := checkChildren(descriptor, node); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return node, nil
}

func checkChildren(descriptor registry.Descriptor, node *model.UIModel) error {
	switch descriptor.Children.Mode {
	case registry.ChildrenNone:
		if len(node.Children) > 0 {
			return fmt.Errorf("%q does not accept children", node.Type)
		}
	case registry.ChildrenTagged:
		for _, child := range node.Children {
			if child.Type != descriptor.Children.Tag {
				return fmt.Errorf("%q only accepts <%s> children, got <%s>", node.Type, descriptor.Children.Tag, child.Type)
			}
		}
	}
	return nil
}

// Partition splits attributes into container and item property bags. The
// split depends only on the attribute name.
func Partition(attrs map[string]string) (container, item model.AttributesMap) {
	container = model.AttributesMap{}
	item = model.AttributesMap{}
	for name, value := range attrs {
		if properties.IsContainerDirective(name) {
			container[name] = value
			continue
		}
		item[name] = value
	}
	return container, item
}
