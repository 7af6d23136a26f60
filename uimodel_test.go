package uimodel_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-uimodel"
	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/registry"
	"github.com/goliatone/go-uimodel/pkg/testsupport"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

type notes struct {
	mu       sync.Mutex
	messages []string
}

func (n *notes) Notify(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

const greetingForm = `
<form id="greeting" onSubmit="greet">
  <text>Hello {{ vars.who|upper }}</text>
  <input binding="$.name"/>
</form>`

const greetingScripts = `
greet:
  - set: {path: $.greeted, from: $.name}
  - alert: "Hi {{ $.name }}"
`

func TestRuntime_DefaultsAreWired(t *testing.T) {
	rt := uimodel.New()
	if rt.Registry() == nil || rt.Parser() == nil || rt.AppContext() == nil {
		t.Fatalf("runtime collaborators missing")
	}
	if !rt.Registry().Has("select") {
		t.Fatalf("core components not registered")
	}
}

func TestRuntime_ParseAndInstantiate(t *testing.T) {
	received := &notes{}
	rt := uimodel.New(uimodel.WithNotifier(received))

	ui := rt.Parse(testsupport.Context(), greetingForm)
	if ui == nil {
		t.Fatalf("markup did not parse")
	}
	data := map[string]any{"name": "Ada"}

	engine, err := rt.Instantiate(testsupport.Context(),
		workflow.Config{Vars: map[string]any{"who": "world"}}, ui, data,
		workflow.WithScripts(greetingScripts),
	)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer engine.Teardown()

	if engine.Phase() != workflow.PhaseBound {
		t.Fatalf("phase = %v", engine.Phase())
	}
	if got := engine.UIModel().Children[0].ItemProperties["text"]; got != "Hello WORLD" {
		t.Fatalf("text = %v", got)
	}
	if got := ui.Children[0].ItemProperties["text"]; got != "Hello {{ vars.who|upper }}" {
		t.Fatalf("parsed model mutated: %v", got)
	}

	bound, ok := rt.AppContext().Engine("greeting")
	if !ok || bound != engine {
		t.Fatalf("engine not registered in app context")
	}

	event, ok := model.HandlerFor(engine.UIModel(), "onSubmit", nil)
	if !ok {
		t.Fatalf("form declares no onSubmit")
	}
	if _, err := engine.DispatchEvent(testsupport.Context(), event).Wait(); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if data["greeted"] != "Ada" {
		t.Fatalf("data model = %v", data)
	}
	if diff := cmp.Diff([]string{"Hi Ada"}, received.messages); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntime_InstantiateRejectsInvalidModels(t *testing.T) {
	rt := uimodel.New()
	_, err := rt.Instantiate(testsupport.Context(), workflow.Config{}, model.New("ghost"), map[string]any{})
	var invalid *registry.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRuntime_ExplicitResolverWins(t *testing.T) {
	rt := uimodel.New()
	called := false
	cfg := workflow.Config{
		Vars: map[string]any{"who": "ignored"},
		VariableResolver: workflow.ResolverFunc(func(_ context.Context, ui *model.UIModel) (*model.UIModel, error) {
			called = true
			return ui, nil
		}),
	}
	ui := rt.Parse(testsupport.Context(), greetingForm)
	engine, err := rt.Instantiate(testsupport.Context(), cfg, ui, map[string]any{})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if !called {
		t.Fatalf("configured resolver not used")
	}
	if got := engine.UIModel().Children[0].ItemProperties["text"]; !strings.Contains(got.(string), "{{") {
		t.Fatalf("default resolver ran anyway: %v", got)
	}
}

func TestRuntime_EnvIsVisibleToTemplates(t *testing.T) {
	rt := uimodel.New(uimodel.WithEnv(map[string]string{"REGION": "eu"}))
	ui := rt.Parse(testsupport.Context(), `<text>{{ env.REGION }}</text>`)
	engine, err := rt.Instantiate(testsupport.Context(), workflow.Config{}, ui, map[string]any{})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if got := engine.UIModel().ItemProperties["text"]; got != "eu" {
		t.Fatalf("text = %v", got)
	}
}

func TestRuntime_Load(t *testing.T) {
	rt := uimodel.New()

	fromMarkup, err := rt.Load(testsupport.Context(), []byte(`  <input binding="$.name"/>`))
	if err != nil {
		t.Fatalf("load markup: %v", err)
	}
	fromObject, err := rt.Load(testsupport.Context(), []byte("type: input\nitemProperties:\n  binding: $.name\n"))
	if err != nil {
		t.Fatalf("load object: %v", err)
	}
	if diff := cmp.Diff(fromObject, fromMarkup, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("load mismatch (-object +markup):\n%s", diff)
	}

	var invalid *registry.ValidationError
	if _, err := rt.Load(testsupport.Context(), []byte(`{"type": "ghost"}`)); !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := rt.Load(testsupport.Context(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestRuntime_TracerProviderReachesParser(t *testing.T) {
	provider, recorder := testsupport.Tracing(t)
	rt := uimodel.New(uimodel.WithTracerProvider(provider))
	rt.Parse(testsupport.Context(), `<text>a</text>`)
	if names := testsupport.SpanNames(recorder); len(names) != 1 || names[0] != "markup.Parse" {
		t.Fatalf("spans = %v", names)
	}
}
