package registry_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/properties"
	"github.com/goliatone/go-uimodel/pkg/registry"
)

func TestRegistry_KeyAndResolve(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(
		registry.Descriptor{Name: "text-input", PackageName: registry.CorePackage, Category: "Basic"},
		registry.Descriptor{Name: "container", PackageName: "bootstrap", Category: "Layout"},
	)

	if _, err := reg.Resolve("text-input"); err != nil {
		t.Fatalf("resolve core component: %v", err)
	}
	descriptor, err := reg.Resolve("bootstrap:container")
	if err != nil {
		t.Fatalf("resolve package component: %v", err)
	}
	if descriptor.Key() != "bootstrap:container" {
		t.Fatalf("Key() = %q", descriptor.Key())
	}
	if reg.Has("container") {
		t.Fatalf("package components must not resolve by bare name")
	}

	pkg, name := registry.SplitKey("bootstrap:container")
	if pkg != "bootstrap" || name != "container" {
		t.Fatalf("SplitKey = (%q, %q)", pkg, name)
	}
}

func TestRegistry_NotRegistered(t *testing.T) {
	reg := registry.New()

	_, err := reg.Resolve("missing")
	if !errors.Is(err, registry.ErrNotRegistered) {
		t.Fatalf("Resolve error = %v, want ErrNotRegistered", err)
	}
	var notRegistered *registry.NotRegisteredError
	if !errors.As(err, &notRegistered) || notRegistered.Type != "missing" {
		t.Fatalf("expected NotRegisteredError for missing, got %v", err)
	}

	if _, err := reg.PropertiesOf("missing"); !errors.Is(err, registry.ErrNotRegistered) {
		t.Fatalf("PropertiesOf error = %v, want ErrNotRegistered", err)
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	reg := registry.New()
	cases := []registry.Descriptor{
		{Name: ""},
		{Name: "bad:name"},
		{Name: "list", Children: registry.ChildPolicy{Mode: registry.ChildrenTagged}},
		{Name: "ext", PropertyExtensions: []properties.Schema{{Label: "no name"}}},
	}
	for _, descriptor := range cases {
		if err := reg.Register(descriptor); err == nil {
			t.Errorf("Register(%+v) expected error", descriptor)
		}
	}
}

func TestRegistry_OverwriteKeepsOrder(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(
		registry.Descriptor{Name: "a", Label: "first"},
		registry.Descriptor{Name: "b"},
		registry.Descriptor{Name: "a", Label: "second"},
	)

	var keys []string
	for _, descriptor := range reg.List() {
		keys = append(keys, descriptor.Key())
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	got, _ := reg.Resolve("a")
	if got.Label != "second" {
		t.Fatalf("overwrite not applied, label = %q", got.Label)
	}
}

func TestRegistry_ResolveReturnsCopy(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Descriptor{
		Name:         "text",
		DefaultModel: model.New("text").WithItem("text", "hello"),
	})

	first, _ := reg.Resolve("text")
	first.DefaultModel.ItemProperties["text"] = "mutated"

	second, _ := reg.Resolve("text")
	if got := second.DefaultModel.ItemProperties["text"]; got != "hello" {
		t.Fatalf("descriptor mutated through Resolve, text = %v", got)
	}
}

func TestRegistry_PropertyExtensions(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Descriptor{
		Name:        "select",
		PackageName: "material",
		ItemProperties: []properties.Schema{
			{Name: "width"},
			{Name: "multiple", Label: "Multiple"},
		},
		PropertyExtensions: []properties.Schema{
			{Name: "width", Label: "Dropdown width", Category: properties.CategoryMain},
		},
	})

	if _, ok := reg.Catalog().Get("material:select:width"); !ok {
		t.Fatalf("extension not merged into catalog")
	}

	got, err := reg.PropertiesOf("material:select")
	if err != nil {
		t.Fatalf("PropertiesOf: %v", err)
	}
	want := []properties.Schema{
		{Name: "width", Label: "Dropdown width", Category: properties.CategoryMain},
		{Name: "multiple", Label: "Multiple", Category: properties.CategoryCommon},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}

	// the shared width entry is untouched for other components
	reg.MustRegister(registry.Descriptor{Name: "input", ItemProperties: []properties.Schema{{Name: "width"}}})
	shared, _ := reg.PropertiesOf("input")
	if shared[0].Label != "Width" || shared[0].Category != properties.CategoryLayout {
		t.Fatalf("shared width schema = %#v", shared[0])
	}
}

func TestRegistry_Categories(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(
		registry.Descriptor{Name: "section", Category: "Layout"},
		registry.Descriptor{Name: "input", Category: "Basic"},
		registry.Descriptor{Name: "div", Category: "Layout"},
		registry.Descriptor{Name: "misc"},
	)

	got := make(map[string][]string)
	var order []string
	for _, group := range reg.Categories() {
		order = append(order, group.Name)
		for _, descriptor := range group.Descriptors {
			got[group.Name] = append(got[group.Name], descriptor.Name)
		}
	}
	if diff := cmp.Diff([]string{"Layout", "Basic", "Other"}, order); diff != "" {
		t.Fatalf("category order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"section", "div"}, got["Layout"]); diff != "" {
		t.Fatalf("layout group mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_CloneIsIsolated(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.Descriptor{Name: "a"})

	cloned := reg.Clone()
	cloned.MustRegister(registry.Descriptor{Name: "b", PropertyExtensions: []properties.Schema{{Name: "x"}}})

	if reg.Has("b") {
		t.Fatalf("clone registration leaked into original")
	}
	if _, ok := reg.Catalog().Get("core:b:x"); ok {
		t.Fatalf("clone catalog leaked into original")
	}
	if !cloned.Has("a") {
		t.Fatalf("clone lost original entries")
	}
}

func TestRegistry_Validate(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(
		registry.Descriptor{Name: "section"},
		registry.Descriptor{Name: "textarea", Children: registry.ChildPolicy{Mode: registry.ChildrenNone}},
		registry.Descriptor{Name: "tabs", Children: registry.ChildPolicy{Mode: registry.ChildrenTagged, Tag: "tab"}},
		registry.Descriptor{Name: "tab"},
	)

	valid := model.New("section").WithChildren(
		model.New("textarea"),
		model.New("tabs").WithChildren(model.New("tab")),
	)
	if err := reg.Validate(valid); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	shared := model.New("tab")
	tests := []struct {
		name    string
		root    *model.UIModel
		problem string
	}{
		{name: "unknown type", root: model.New("section").WithChildren(model.New("ghost")), problem: "not registered"},
		{name: "childless component", root: model.New("textarea").WithChildren(model.New("section")), problem: "does not accept children"},
		{name: "tagged children", root: model.New("tabs").WithChildren(model.New("section")), problem: `only accepts "tab"`},
		{name: "shared subtree", root: model.New("section").WithChildren(shared, shared), problem: "already appears"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Validate(tt.root)
			var validation *registry.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(strings.Join(validation.Problems, "\n"), tt.problem) {
				t.Fatalf("problems %v do not mention %q", validation.Problems, tt.problem)
			}
		})
	}

	cyclic := model.New("section")
	cyclic.Children = []*model.UIModel{cyclic}
	if err := reg.Validate(cyclic); err == nil {
		t.Fatalf("cycle not detected")
	}
}
