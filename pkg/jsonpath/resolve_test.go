package jsonpath_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uimodel/pkg/jsonpath"
)

func TestFind(t *testing.T) {
	root := map[string]any{
		"country": "uk",
		"address": map[string]any{"city": "Leeds", "zip": nil},
		"items": []any{
			map[string]any{"name": "first"},
			"second",
		},
		"typed": map[string]string{"k": "v"},
	}

	tests := []struct {
		name   string
		expr   string
		want   any
		wantOK bool
	}{
		{name: "root", expr: "$", want: root, wantOK: true},
		{name: "top level", expr: "$.country", want: "uk", wantOK: true},
		{name: "nested", expr: "$.address.city", want: "Leeds", wantOK: true},
		{name: "explicit nil", expr: "$.address.zip", want: nil, wantOK: true},
		{name: "index then key", expr: "$.items[0].name", want: "first", wantOK: true},
		{name: "index scalar", expr: "$.items[1]", want: "second", wantOK: true},
		{name: "typed map", expr: "$.typed.k", want: "v", wantOK: true},
		{name: "missing key", expr: "$.missing", wantOK: false},
		{name: "missing intermediate", expr: "$.missing.deeper", wantOK: false},
		{name: "index out of range", expr: "$.items[5]", wantOK: false},
		{name: "key on scalar", expr: "$.country.code", wantOK: false},
		{name: "index on map", expr: "$.address[0]", wantOK: false},
		{name: "malformed", expr: "$..country", wantOK: false},
		{name: "no root marker", expr: "country", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := jsonpath.Find(root, tt.expr)
			if ok != tt.wantOK {
				t.Fatalf("Find(%q) ok = %v, want %v", tt.expr, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Find(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestFind_SequenceRootIsAbsent(t *testing.T) {
	root := []any{map[string]any{"a": 1}}
	if _, ok := jsonpath.Find(root, "$[0].a"); ok {
		t.Fatalf("sequence roots must not be walked")
	}
	if jsonpath.SetValue(root, "$[0].a", 2) {
		t.Fatalf("sequence roots must not be written")
	}
}

func TestFind_NilRoot(t *testing.T) {
	if _, ok := jsonpath.Find(nil, "$.a"); ok {
		t.Fatalf("nil root should report absence")
	}
}

func TestSetValue_AutoVivifies(t *testing.T) {
	root := map[string]any{}
	if !jsonpath.SetValue(root, "$.country", "uk") {
		t.Fatalf("expected write")
	}
	if diff := cmp.Diff(map[string]any{"country": "uk"}, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}

	if !jsonpath.SetValue(root, "$.address.city", "Leeds") {
		t.Fatalf("expected nested write")
	}
	want := map[string]any{
		"country": "uk",
		"address": map[string]any{"city": "Leeds"},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}

	withNilMap := map[string]any{"address": map[string]any(nil)}
	if !jsonpath.SetValue(withNilMap, "$.address.city", "Kyiv") {
		t.Fatalf("nil map intermediate should be replaced")
	}
	if diff := cmp.Diff(map[string]any{"address": map[string]any{"city": "Kyiv"}}, withNilMap); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_ReplacesScalarIntermediate(t *testing.T) {
	root := map[string]any{"a": 5, "b": nil}
	jsonpath.SetValue(root, "$.a.x", 1)
	jsonpath.SetValue(root, "$.b.y", 2)
	want := map[string]any{
		"a": map[string]any{"x": 1},
		"b": map[string]any{"y": 2},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_Arrays(t *testing.T) {
	root := map[string]any{
		"items": []any{map[string]any{"name": "a"}, nil},
	}

	if !jsonpath.SetValue(root, "$.items[0].name", "b") {
		t.Fatalf("existing index should be writable")
	}
	if !jsonpath.SetValue(root, "$.items[1].name", "c") {
		t.Fatalf("nil element reached by index should vivify")
	}
	if jsonpath.SetValue(root, "$.items[2]", "d") {
		t.Fatalf("missing index must be a no-op")
	}
	if jsonpath.SetValue(root, "$.items[7].name", "e") {
		t.Fatalf("writing through a missing index must be a no-op")
	}
	if jsonpath.SetValue(root, "$.list[0]", "f") {
		t.Fatalf("sequences are never created")
	}
	if jsonpath.SetValue(root, "$.items.name", "g") {
		t.Fatalf("key on a sequence must be a no-op")
	}

	want := map[string]any{
		"items": []any{map[string]any{"name": "b"}, map[string]any{"name": "c"}},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_RootAndMalformed(t *testing.T) {
	root := map[string]any{"a": 1}
	if jsonpath.SetValue(root, "$", 2) {
		t.Fatalf("root path must not be assignable")
	}
	if jsonpath.SetValue(root, "$.a[", 2) {
		t.Fatalf("malformed path must not write")
	}
	if jsonpath.SetValue(map[string]any(nil), "$.a", 2) {
		t.Fatalf("nil map root must not be written")
	}
	if diff := cmp.Diff(map[string]any{"a": 1}, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_TypedMap(t *testing.T) {
	root := map[string]any{"labels": map[string]string{}}
	if !jsonpath.SetValue(root, "$.labels.env", "prod") {
		t.Fatalf("expected write into typed map")
	}
	if jsonpath.SetValue(root, "$.labels.count", 3) {
		t.Fatalf("incompatible value must not be written")
	}
	if diff := cmp.Diff(map[string]string{"env": "prod"}, root["labels"]); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestNilContainers(t *testing.T) {
	var nilMap map[string]any
	var nilList []any
	var nilLabels map[string]string
	var nilPtr *map[string]any

	tests := []struct {
		name      string
		root      func() any
		path      string
		wantFound bool
		wantWrite bool
		want      any
	}{
		{name: "untyped nil root", root: func() any { return nil }, path: "$.a"},
		{name: "nil map root", root: func() any { return nilMap }, path: "$.a.b"},
		{name: "nil list root", root: func() any { return nilList }, path: "$[0]"},
		{name: "nil pointer root", root: func() any { return nilPtr }, path: "$.a"},
		{
			name:      "nil map intermediate",
			root:      func() any { return map[string]any{"a": map[string]any(nil)} },
			path:      "$.a.b",
			wantWrite: true,
			want:      map[string]any{"a": map[string]any{"b": 1}},
		},
		{
			name:      "nil typed map intermediate",
			root:      func() any { return map[string]any{"a": nilLabels} },
			path:      "$.a.b",
			wantWrite: true,
			want:      map[string]any{"a": map[string]any{"b": 1}},
		},
		{
			name:      "nil map leaf container",
			root:      func() any { return map[string]any{"a": map[string]any{"b": map[string]any(nil)}} },
			path:      "$.a.b.c",
			wantWrite: true,
			want:      map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}},
		},
		{
			name: "nil list intermediate",
			root: func() any { return map[string]any{"a": nilList} },
			path: "$.a[0]",
			want: map[string]any{"a": nilList},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if value, ok := jsonpath.Find(tt.root(), tt.path); ok != tt.wantFound || value != nil {
				t.Fatalf("Find = (%v, %v), want absence", value, ok)
			}

			root := tt.root()
			if got := jsonpath.SetValue(root, tt.path, 1); got != tt.wantWrite {
				t.Fatalf("SetValue = %v, want %v", got, tt.wantWrite)
			}
			if tt.want != nil {
				if diff := cmp.Diff(tt.want, root); diff != "" {
					t.Fatalf("root mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestRoundTripAndIdempotence(t *testing.T) {
	paths := []string{"$.a", "$.a.b", "$.x.y.z", "$.list[0]", "$.list[1].k"}
	values := []any{"v", 42.0, true, nil, map[string]any{"n": 1.0}}

	for _, expr := range paths {
		for _, value := range values {
			root := map[string]any{"list": []any{"first", map[string]any{}}}
			if !jsonpath.SetValue(root, expr, value) {
				t.Fatalf("SetValue(%q) reported no write", expr)
			}
			got, ok := jsonpath.Find(root, expr)
			if !ok {
				t.Fatalf("Find(%q) after SetValue reported absence", expr)
			}
			if diff := cmp.Diff(value, got); diff != "" {
				t.Fatalf("round trip %q mismatch (-want +got):\n%s", expr, diff)
			}

			snapshot := cloneJSON(root)
			jsonpath.SetValue(root, expr, value)
			if diff := cmp.Diff(snapshot, root); diff != "" {
				t.Fatalf("second SetValue(%q) changed root (-want +got):\n%s", expr, diff)
			}
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := []string{"", "a.b", "$.", "$.a.", "$[", "$[-1]", "$[x]", "$[+1]", "$a", "$.a]"}
	for _, expr := range cases {
		_, err := jsonpath.Compile(expr)
		var malformed *jsonpath.MalformedPathError
		if !errors.As(err, &malformed) {
			t.Errorf("Compile(%q) error = %v, want MalformedPathError", expr, err)
		}
	}
}

func TestCompile_Accessors(t *testing.T) {
	path := jsonpath.MustCompile("$.list[2].name")
	want := []jsonpath.Accessor{
		{Key: "list"},
		{Index: 2, IsIndex: true},
		{Key: "name"},
	}
	if diff := cmp.Diff(want, path.Accessors()); diff != "" {
		t.Fatalf("accessors mismatch (-want +got):\n%s", diff)
	}
	if path.String() != "$.list[2].name" {
		t.Fatalf("String() = %q", path.String())
	}
	if jsonpath.Join("$.a", "b", "c") != "$.a.b.c" {
		t.Fatalf("Join mismatch: %q", jsonpath.Join("$.a", "b", "c"))
	}
}

func cloneJSON(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneJSON(item)
		}
		return out
	default:
		return value
	}
}
