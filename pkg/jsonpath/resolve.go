package jsonpath

import "reflect"

// Find returns the value addressed by expr inside root. ok is false when any
// step is absent or not traversable, when expr is malformed, or when root is
// a sequence.
func Find(root any, expr string) (any, bool) {
	path, err := Compile(expr)
	if err != nil {
		return nil, false
	}
	return path.Find(root)
}

// Find walks the compiled path over root.
func (p Path) Find(root any) (any, bool) {
	if isSequence(root) {
		return nil, false
	}
	current := root
	for _, step := range p.accessors {
		next, ok := get(current, step)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// SetValue assigns value at expr inside root and reports whether the write
// happened. Missing intermediate mappings are created, nil or scalar
// intermediates reached by a key are replaced with mappings. Sequences are
// never created or grown: a missing index makes the call a no-op. A sequence
// root, the bare "$" path and malformed expressions are no-ops too.
func SetValue(root any, expr string, value any) bool {
	path, err := Compile(expr)
	if err != nil {
		return false
	}
	return path.SetValue(root, value)
}

// SetValue writes through the compiled path.
func (p Path) SetValue(root any, value any) bool {
	if len(p.accessors) == 0 || isSequence(root) {
		return false
	}
	current := root
	last := len(p.accessors) - 1
	for idx, step := range p.accessors[:last] {
		next, ok := get(current, step)
		if ok && traversable(next) {
			current = next
			continue
		}
		if step.IsIndex {
			// existing index holding a scalar or nil: replace it when the
			// next step is a key
			if !ok || p.accessors[idx+1].IsIndex {
				return false
			}
		}
		if p.accessors[idx+1].IsIndex {
			return false
		}
		created := map[string]any{}
		if !put(current, step, created) {
			return false
		}
		current = created
	}
	return put(current, p.accessors[last], value)
}

func get(container any, step Accessor) (any, bool) {
	if container == nil {
		return nil, false
	}
	if step.IsIndex {
		switch typed := container.(type) {
		case []any:
			if step.Index >= len(typed) {
				return nil, false
			}
			return typed[step.Index], true
		case map[string]any:
			return nil, false
		}
		rv := reflect.ValueOf(container)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, false
		}
		if step.Index >= rv.Len() {
			return nil, false
		}
		return rv.Index(step.Index).Interface(), true
	}

	switch typed := container.(type) {
	case map[string]any:
		value, ok := typed[step.Key]
		return value, ok
	case []any:
		return nil, false
	}
	rv := reflect.ValueOf(container)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	value := rv.MapIndex(reflect.ValueOf(step.Key).Convert(rv.Type().Key()))
	if !value.IsValid() {
		return nil, false
	}
	return value.Interface(), true
}

func put(container any, step Accessor, value any) bool {
	if container == nil {
		return false
	}
	if step.IsIndex {
		if typed, ok := container.([]any); ok {
			if step.Index >= len(typed) {
				return false
			}
			typed[step.Index] = value
			return true
		}
		rv := reflect.ValueOf(container)
		if rv.Kind() != reflect.Slice || step.Index >= rv.Len() {
			return false
		}
		return assign(rv.Index(step.Index), value)
	}

	if typed, ok := container.(map[string]any); ok {
		if typed == nil {
			return false
		}
		typed[step.Key] = value
		return true
	}
	rv := reflect.ValueOf(container)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return false
	}
	elem := reflect.New(rv.Type().Elem()).Elem()
	if !assign(elem, value) {
		return false
	}
	rv.SetMapIndex(reflect.ValueOf(step.Key).Convert(rv.Type().Key()), elem)
	return true
}

func assign(target reflect.Value, value any) bool {
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return true
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(target.Type()) {
		return false
	}
	target.Set(rv)
	return true
}

func traversable(value any) bool {
	switch typed := value.(type) {
	case map[string]any:
		return typed != nil
	case []any:
		return true
	case nil:
		return false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String && !rv.IsNil()
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func isSequence(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]any); ok {
		return true
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}
