package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-uimodel/pkg/jsonpath"
	"github.com/goliatone/go-uimodel/pkg/model"
)

// DefaultTextareaThreshold is the maxLength from which strings get a
// textarea instead of an input.
const DefaultTextareaThreshold = 256

// ErrOperationNotFound is returned when Build names an unknown operation.
var ErrOperationNotFound = errors.New("scaffold: operation not found")

// ErrNoRequestSchema is returned for operations without a request body schema.
var ErrNoRequestSchema = errors.New("scaffold: operation has no request schema")

var textareaFormats = map[string]bool{"textarea": true, "markdown": true, "html": true}

var inputTypes = map[string]string{
	"email":     "email",
	"date":      "date",
	"date-time": "datetime-local",
	"time":      "time",
	"password":  "password",
	"uri":       "url",
	"url":       "url",
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTextareaThreshold overrides DefaultTextareaThreshold.
func WithTextareaThreshold(maxLength uint64) Option {
	return func(b *Builder) {
		if maxLength > 0 {
			b.textareaThreshold = maxLength
		}
	}
}

// WithSubmitLabel sets the label of the generated submit button.
func WithSubmitLabel(label string) Option {
	return func(b *Builder) {
		if strings.TrimSpace(label) != "" {
			b.submitLabel = label
		}
	}
}

// WithExternalRefs allows $ref to point outside the document.
func WithExternalRefs(allowed bool) Option {
	return func(b *Builder) {
		b.externalRefs = allowed
	}
}

// WithFS makes Load resolve locations inside files.
func WithFS(files fs.FS) Option {
	return func(b *Builder) {
		b.files = files
	}
}

// WithHTTPClient enables http(s) locations in Load.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Builder) {
		b.http = client
	}
}

// Builder converts OpenAPI request schemas into UI models.
type Builder struct {
	logger            *slog.Logger
	textareaThreshold uint64
	submitLabel       string
	externalRefs      bool
	files             fs.FS
	http              *http.Client
}

// New returns a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger:            slog.Default(),
		textareaThreshold: DefaultTextareaThreshold,
		submitLabel:       "Submit",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Operation summarises one operation of a document.
type Operation struct {
	ID         string
	Method     string
	Path       string
	Summary    string
	HasRequest bool
}

// Result is a generated UI model and the data model seeded from schema
// defaults.
type Result struct {
	UIModel   *model.UIModel
	DataModel map[string]any
}

// Operations lists the operations of raw, sorted by id. Operations without
// an operationId are keyed "method:path".
func (b *Builder) Operations(ctx context.Context, raw []byte) ([]Operation, error) {
	doc, err := b.document(ctx, raw)
	if err != nil {
		return nil, err
	}
	var out []Operation
	for _, entry := range collect(doc) {
		out = append(out, Operation{
			ID:         entry.id,
			Method:     entry.method,
			Path:       entry.path,
			Summary:    entry.op.Summary,
			HasRequest: requestSchema(entry.op) != nil,
		})
	}
	return out, nil
}

// Build generates the form for operationID.
func (b *Builder) Build(ctx context.Context, raw []byte, operationID string) (Result, error) {
	doc, err := b.document(ctx, raw)
	if err != nil {
		return Result{}, err
	}
	for _, entry := range collect(doc) {
		if entry.id != operationID {
			continue
		}
		schema := requestSchema(entry.op)
		if schema == nil {
			return Result{}, fmt.Errorf("%w: %s", ErrNoRequestSchema, operationID)
		}
		title := entry.op.Summary
		if title == "" {
			title = schema.Title
		}
		return b.FromSchema(operationID, title, schema), nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
}

// FromSchema generates a form with id formID for an object schema.
func (b *Builder) FromSchema(formID, title string, schema *openapi3.Schema) Result {
	data := map[string]any{}
	form := withID(model.New("form"), formID).
		WithItem("fxLayout", "column").
		WithItem("onSubmit", "submit")

	var children []*model.UIModel
	if title != "" {
		children = append(children, model.New("text").WithItem("text", title))
	}
	children = append(children, b.fields(jsonpath.Root, schema, data)...)
	children = append(children, model.New("button").
		WithItem("label", b.submitLabel).
		WithItem("type", "submit").
		WithItem("btnClass", "btn-primary"))

	return Result{UIModel: form.WithChildren(children...), DataModel: data}
}

func (b *Builder) fields(base string, schema *openapi3.Schema, data map[string]any) []*model.UIModel {
	if schema == nil {
		return nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*model.UIModel
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if node := b.field(name, jsonpath.Join(base, name), ref.Value, required[name], data); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (b *Builder) field(name, path string, schema *openapi3.Schema, required bool, data map[string]any) *model.UIModel {
	id := fieldID(path)
	label := schema.Title
	if label == "" {
		label = humanize(name)
	}

	if isObject(schema) {
		section := withID(model.New("section"), id).WithItem("fxLayout", "column")
		children := append([]*model.UIModel{model.New("text").WithItem("text", label)}, b.fields(path, schema, data)...)
		return section.WithChildren(children...)
	}

	if schema.Default != nil {
		jsonpath.SetValue(data, path, schema.Default)
	}

	var control *model.UIModel
	switch {
	case len(schema.Enum) > 0:
		options := make([]any, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			options = append(options, map[string]any{"label": fmt.Sprint(value), "value": value})
		}
		control = model.New("select").WithItem("itemsSource", options)
	case schema.Type.Is(openapi3.TypeBoolean):
		return withID(model.New("checkbox"), id).
			WithItem("binding", path).
			WithItem("label", label)
	case schema.Type.Is(openapi3.TypeArray):
		b.logger.Debug("scaffold: skipping array property", "path", path)
		return nil
	case schema.Type.Is(openapi3.TypeString) && b.isLongText(schema):
		control = model.New("textarea").WithItem("rows", "5")
	default:
		control = model.New("input").WithItem("type", inputType(schema))
		if schema.Description != "" {
			control.WithItem("placeholder", schema.Description)
		}
	}

	withID(control, id).WithItem("binding", path)
	if required {
		control.WithItem("required", true)
	}
	if schema.ReadOnly {
		control.WithItem("readonly", true)
	}
	if schema.MinLength > 0 {
		control.WithItem("minlength", int(schema.MinLength))
	}
	if schema.MaxLength != nil {
		control.WithItem("maxlength", int(*schema.MaxLength))
	}
	if schema.Pattern != "" {
		control.WithItem("pattern", schema.Pattern)
	}

	return model.New("div").WithItem("fxLayout", "column").WithItem("class", "field").WithChildren(
		model.New("label").WithItem("label", label).WithItem("for", id),
		control,
	)
}

func (b *Builder) isLongText(schema *openapi3.Schema) bool {
	if textareaFormats[schema.Format] {
		return true
	}
	return schema.MaxLength != nil && *schema.MaxLength >= b.textareaThreshold
}

func (b *Builder) document(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, errors.New("scaffold: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: b.externalRefs,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("scaffold: load document: %w", err)
	}
	return doc, nil
}

type operationEntry struct {
	id     string
	method string
	path   string
	op     *openapi3.Operation
}

func collect(doc *openapi3.T) []operationEntry {
	if doc.Paths == nil {
		return nil
	}
	var out []operationEntry
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out = append(out, operationEntry{id: id, method: method, path: path, op: op})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func isObject(schema *openapi3.Schema) bool {
	return schema.Type.Is(openapi3.TypeObject) || (schema.Type == nil && len(schema.Properties) > 0)
}

func inputType(schema *openapi3.Schema) string {
	if schema.Type.Is(openapi3.TypeInteger) || schema.Type.Is(openapi3.TypeNumber) {
		return "number"
	}
	if typ, ok := inputTypes[schema.Format]; ok {
		return typ
	}
	return "text"
}

func withID(node *model.UIModel, id string) *model.UIModel {
	node.ID = id
	return node.WithItem("id", id)
}

// fieldID turns "$.address.city" into "address-city".
func fieldID(path string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(path, jsonpath.Root), ".")
	return strings.ReplaceAll(trimmed, ".", "-")
}

// humanize turns "firstName" or "first_name" into "First name".
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && len(current) > 0:
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	phrase := strings.Join(words, " ")
	runes := []rune(phrase)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
