package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uimodel/pkg/jsonpath"
	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/testsupport"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

type handler func(ctx context.Context, vars map[string]any) (any, error)

// fakeInterpreter treats the script source as a key into a handler table.
type fakeInterpreter struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []string
	scopes   []map[string]any
}

func newFake(handlers map[string]handler) *fakeInterpreter {
	return &fakeInterpreter{handlers: handlers}
}

func (f *fakeInterpreter) HasFunction(_ string, name string) bool {
	_, ok := f.handlers[name]
	return ok
}

func (f *fakeInterpreter) Evaluate(ctx context.Context, _ string, vars map[string]any, name string) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.scopes = append(f.scopes, vars)
	f.mu.Unlock()
	return f.handlers[name](ctx, vars)
}

func start(t *testing.T, engine *workflow.Engine) {
	t.Helper()
	if err := engine.Start(testsupport.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	ui := model.New("section")
	data := map[string]any{}
	engine := workflow.New(workflow.Config{Vars: map[string]any{"locale": "en"}}, ui, data)

	if engine.Phase() != workflow.PhaseUninitialized {
		t.Fatalf("phase = %s", engine.Phase())
	}
	var phaseErr *workflow.PhaseError
	if err := engine.Bind(); !errors.As(err, &phaseErr) {
		t.Fatalf("bind before resolve error = %v", err)
	}

	if err := engine.ResolveVariables(testsupport.Context()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if engine.Phase() != workflow.PhaseVariablesResolved {
		t.Fatalf("phase = %s", engine.Phase())
	}
	if err := engine.Bind(); err != nil {
		t.Fatalf("bind: %v", err)
	}

	vars := engine.Vars()
	if vars["locale"] != "en" || vars[workflow.VarUIModel] != ui {
		t.Fatalf("vars not seeded: %#v", vars)
	}
	if _, ok := vars[workflow.VarDataModel].(map[string]any); !ok {
		t.Fatalf("dataModel missing from vars")
	}

	engine.Teardown()
	if engine.Phase() != workflow.PhaseTornDown || engine.Vars() != nil {
		t.Fatalf("teardown did not release vars")
	}
	if diff := cmp.Diff(map[string]any{}, data); diff != "" {
		t.Fatalf("teardown touched data model (-want +got):\n%s", diff)
	}
	if err := engine.ResolveVariables(testsupport.Context()); !errors.Is(err, workflow.ErrTornDown) {
		t.Fatalf("resolve after teardown error = %v", err)
	}
}

func TestEngine_ResolverRunsOnceBeforeBind(t *testing.T) {
	calls := 0
	resolver := workflow.ResolverFunc(func(_ context.Context, ui *model.UIModel) (*model.UIModel, error) {
		calls++
		resolved := ui.Clone()
		resolved.ItemProperties["title"] = "resolved"
		return resolved, nil
	})

	original := model.New("section").WithItem("title", "{{ title }}")
	engine := workflow.New(workflow.Config{VariableResolver: resolver}, original, map[string]any{})
	start(t, engine)
	if err := engine.ResolveVariables(testsupport.Context()); err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if calls != 1 {
		t.Fatalf("resolver called %d times", calls)
	}
	bound := engine.Vars()[workflow.VarUIModel].(*model.UIModel)
	if bound.ItemProperties["title"] != "resolved" || engine.UIModel() != bound {
		t.Fatalf("bind did not use the resolved tree")
	}
	if original.ItemProperties["title"] != "{{ title }}" {
		t.Fatalf("original tree mutated")
	}
}

func TestEngine_ResolverFailure(t *testing.T) {
	boom := errors.New("boom")
	engine := workflow.New(workflow.Config{
		VariableResolver: workflow.ResolverFunc(func(context.Context, *model.UIModel) (*model.UIModel, error) {
			return nil, boom
		}),
	}, model.New("section"), nil)

	if err := engine.Start(testsupport.Context()); !errors.Is(err, boom) {
		t.Fatalf("start error = %v, want boom", err)
	}
	if engine.Phase() != workflow.PhaseUninitialized {
		t.Fatalf("phase = %s", engine.Phase())
	}
}

func TestEngine_DispatchWithoutFunctionIsNoop(t *testing.T) {
	data := map[string]any{"country": "uk"}
	fake := newFake(map[string]handler{})
	engine := workflow.New(workflow.Config{}, model.New("select"), data, workflow.WithInterpreter(fake))
	start(t, engine)

	task := engine.Dispatch(testsupport.Context(), "onSelect", map[string]any{"value": "ua"})
	result, err := task.Wait()
	if err != nil || result != nil || task.Handled() {
		t.Fatalf("expected silent no-op, got result=%v err=%v handled=%v", result, err, task.Handled())
	}
	if engine.Phase() != workflow.PhaseBound {
		t.Fatalf("no-op dispatch changed phase to %s", engine.Phase())
	}
	if diff := cmp.Diff(map[string]any{"country": "uk"}, data); diff != "" {
		t.Fatalf("data changed (-want +got):\n%s", diff)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("interpreter called: %v", fake.calls)
	}
}

func TestEngine_DispatchBuildsScope(t *testing.T) {
	ui := model.New("section")
	data := map[string]any{}
	fake := newFake(map[string]handler{
		"onSelect": func(_ context.Context, vars map[string]any) (any, error) {
			return vars["item"], nil
		},
	})
	engine := workflow.New(workflow.Config{Vars: map[string]any{"locale": "en"}}, ui, data, workflow.WithInterpreter(fake))
	start(t, engine)

	node := model.New("select")
	event, _ := model.NewEvent(node, "onSelect(item)", "ua")
	task := engine.DispatchEvent(testsupport.Context(), event)
	result, err := task.Wait()
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result != "ua" || !task.Handled() {
		t.Fatalf("result = %v handled = %v", result, task.Handled())
	}
	if engine.Phase() != workflow.PhaseActive {
		t.Fatalf("phase = %s", engine.Phase())
	}

	scope := fake.scopes[0]
	if scope[workflow.VarRootUIModel] != ui || scope[model.ParamUIModel] != node {
		t.Fatalf("scope does not carry tree and raising node: %#v", scope)
	}
	if _, ok := scope[workflow.VarDataModel].(map[string]any); !ok {
		t.Fatalf("scope lacks data model")
	}
	if scope[workflow.VarVars].(map[string]any)["locale"] != "en" {
		t.Fatalf("scope lacks vars")
	}
}

func TestEngine_DispatchBeforeBindAndAfterTeardown(t *testing.T) {
	fake := newFake(map[string]handler{"go": func(context.Context, map[string]any) (any, error) { return nil, nil }})
	engine := workflow.New(workflow.Config{}, model.New("section"), map[string]any{}, workflow.WithInterpreter(fake))

	if _, err := engine.Dispatch(testsupport.Context(), "go", nil).Wait(); !errors.Is(err, workflow.ErrNotBound) {
		t.Fatalf("dispatch before bind error = %v", err)
	}
	start(t, engine)
	engine.Teardown()
	if _, err := engine.Dispatch(testsupport.Context(), "go", nil).Wait(); !errors.Is(err, workflow.ErrTornDown) {
		t.Fatalf("dispatch after teardown error = %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("interpreter called: %v", fake.calls)
	}
}

func TestEngine_FailureIsNotified(t *testing.T) {
	var (
		mu       sync.Mutex
		messages []string
	)
	notifier := workflow.NotifierFunc(func(_ context.Context, message string) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, message)
	})
	fake := newFake(map[string]handler{
		"broken": func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("name 'x' is not defined")
		},
		"panics": func(context.Context, map[string]any) (any, error) {
			panic("kaboom")
		},
	})
	logger, logs := testsupport.CaptureLogger()
	engine := workflow.New(workflow.Config{}, model.New("section"), map[string]any{},
		workflow.WithInterpreter(fake), workflow.WithNotifier(notifier), workflow.WithLogger(logger))
	start(t, engine)

	_, err := engine.Dispatch(testsupport.Context(), "broken", nil).Wait()
	var scriptErr *workflow.ScriptError
	if !errors.As(err, &scriptErr) || scriptErr.Event != "broken" {
		t.Fatalf("expected ScriptError, got %v", err)
	}
	if _, err := engine.Dispatch(testsupport.Context(), "panics", nil).Wait(); !errors.As(err, &scriptErr) {
		t.Fatalf("expected ScriptError for panic, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"name 'x' is not defined", "panic: kaboom"}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "handler failed") {
		t.Fatalf("failure not logged: %s", logs.String())
	}
}

func TestEngine_InterpreterCanNotify(t *testing.T) {
	got := make(chan string, 1)
	notifier := workflow.NotifierFunc(func(_ context.Context, message string) { got <- message })
	fake := newFake(map[string]handler{
		"hello": func(ctx context.Context, _ map[string]any) (any, error) {
			workflow.Notify(ctx, "hello there")
			return nil, nil
		},
	})
	engine := workflow.New(workflow.Config{}, model.New("section"), nil,
		workflow.WithInterpreter(fake), workflow.WithNotifier(notifier))
	start(t, engine)
	engine.Dispatch(testsupport.Context(), "hello", nil).Wait()

	select {
	case message := <-got:
		if message != "hello there" {
			t.Fatalf("message = %q", message)
		}
	default:
		t.Fatalf("notifier not reached from interpreter")
	}
	if workflow.Notify(context.Background(), "nobody") {
		t.Fatalf("Notify without notifier should report false")
	}
}

func TestEngine_SharedDataModel(t *testing.T) {
	data := map[string]any{}
	fake := newFake(map[string]handler{
		"setCity": func(_ context.Context, vars map[string]any) (any, error) {
			jsonpath.SetValue(vars[workflow.VarDataModel], "$.city", "Lviv")
			return nil, nil
		},
	})

	a := workflow.New(workflow.Config{}, model.New("section"), data, workflow.WithInterpreter(fake))
	b := workflow.New(workflow.Config{}, model.New("section"), data, workflow.WithInterpreter(fake))
	start(t, a)
	start(t, b)

	if _, err := a.Dispatch(testsupport.Context(), "setCity", nil).Wait(); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	got, ok := jsonpath.Find(b.DataModel(), "$.city")
	if !ok || got != "Lviv" {
		t.Fatalf("engine b sees %v (ok=%v)", got, ok)
	}
}

func TestEngine_ConcurrentDispatchesAreNotSerialised(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 2)
	fake := newFake(map[string]handler{
		"slow": func(context.Context, map[string]any) (any, error) {
			entered <- struct{}{}
			<-release
			return nil, nil
		},
	})
	engine := workflow.New(workflow.Config{}, model.New("section"), map[string]any{}, workflow.WithInterpreter(fake))
	start(t, engine)

	first := engine.Dispatch(testsupport.Context(), "slow", nil)
	second := engine.Dispatch(testsupport.Context(), "slow", nil)

	for i := 0; i < 2; i++ {
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			t.Fatalf("dispatch %d did not start while another was running", i)
		}
	}
	if first.Err() != nil {
		t.Fatalf("unfinished task reports error")
	}
	close(release)
	engine.Wait()

	for _, task := range []*workflow.Task{first, second} {
		select {
		case <-task.Done():
		default:
			t.Fatalf("task not done after Wait")
		}
	}
}

func TestEngine_CancelledContextDoesNotAbort(t *testing.T) {
	fake := newFake(map[string]handler{
		"work": func(ctx context.Context, _ map[string]any) (any, error) {
			return nil, ctx.Err()
		},
	})
	engine := workflow.New(workflow.Config{}, model.New("section"), nil, workflow.WithInterpreter(fake))
	start(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Dispatch(ctx, "work", nil).Wait(); err != nil {
		t.Fatalf("evaluation saw cancellation: %v", err)
	}
}

func TestEngine_Tracing(t *testing.T) {
	provider, recorder := testsupport.Tracing(t)
	fake := newFake(map[string]handler{"go": func(context.Context, map[string]any) (any, error) { return nil, nil }})
	engine := workflow.New(workflow.Config{
		VariableResolver: workflow.ResolverFunc(func(_ context.Context, ui *model.UIModel) (*model.UIModel, error) { return ui, nil }),
	}, model.New("section"), nil, workflow.WithInterpreter(fake), workflow.WithTracerProvider(provider))
	start(t, engine)
	engine.Dispatch(testsupport.Context(), "go", nil).Wait()
	engine.Wait()

	want := []string{"workflow.ResolveVariables", "workflow.Dispatch"}
	if diff := cmp.Diff(want, testsupport.SpanNames(recorder)); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestAppContext(t *testing.T) {
	app := workflow.NewAppContext()
	ui := model.New("section")
	ui.ID = "profile"
	engine := workflow.New(workflow.Config{}, ui, nil, workflow.WithAppContext(app))
	start(t, engine)

	got, ok := app.Engine("profile")
	if !ok || got != engine {
		t.Fatalf("engine not registered")
	}
	if diff := cmp.Diff([]string{"profile"}, app.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	engine.Teardown()
	if _, ok := app.Engine("profile"); ok {
		t.Fatalf("engine still registered after teardown")
	}
}
