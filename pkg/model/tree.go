package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrStop ends a Walk early without reporting an error.
var ErrStop = errors.New("model: stop walk")

// Clone returns a deep copy of the subtree rooted at m.
func (m *UIModel) Clone() *UIModel {
	if m == nil {
		return nil
	}
	out := &UIModel{
		Type:                m.Type,
		ID:                  m.ID,
		ContainerProperties: m.ContainerProperties.Clone(),
		ItemProperties:      m.ItemProperties.Clone(),
	}
	if m.Children != nil {
		out.Children = make([]*UIModel, len(m.Children))
		for idx, child := range m.Children {
			out.Children[idx] = child.Clone()
		}
	}
	return out
}

// WalkFunc is invoked for every node in depth-first, document order. parent
// is nil for the root.
type WalkFunc func(node, parent *UIModel, depth int) error

// Walk visits the subtree rooted at m. Returning ErrStop from fn ends the
// walk and Walk returns nil.
func (m *UIModel) Walk(fn WalkFunc) error {
	if m == nil || fn == nil {
		return nil
	}
	err := walk(m, nil, 0, fn)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func walk(node, parent *UIModel, depth int, fn WalkFunc) error {
	if node == nil {
		return nil
	}
	if err := fn(node, parent, depth); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := walk(child, node, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// FindByID returns the first node in document order whose ID matches.
func (m *UIModel) FindByID(id string) *UIModel {
	if id == "" {
		return nil
	}
	var found *UIModel
	_ = m.Walk(func(node, _ *UIModel, _ int) error {
		if node.ID == id {
			found = node
			return ErrStop
		}
		return nil
	})
	return found
}

// Count returns the number of nodes in the subtree.
func (m *UIModel) Count() int {
	total := 0
	_ = m.Walk(func(*UIModel, *UIModel, int) error {
		total++
		return nil
	})
	return total
}

// Decode reads a UI model from JSON or YAML. YAML documents are normalised
// through JSON so both encodings share the same children semantics.
func Decode(data []byte) (*UIModel, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("model: empty document")
	}

	var node UIModel
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("model: decode json: %w", err)
		}
		return &node, nil
	}

	payload, err := yamlToJSON(trimmed)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &node); err != nil {
		return nil, fmt.Errorf("model: decode yaml: %w", err)
	}
	return &node, nil
}

// DecodeData reads an arbitrary JSON or YAML value, typically a data model.
// Numbers decode as float64 and mappings as map[string]any.
func DecodeData(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	var out any
	if err := json.Unmarshal(trimmed, &out); err == nil {
		return out, nil
	}
	payload, err := yamlToJSON(trimmed)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("model: decode data: %w", err)
	}
	return out, nil
}

// Encode writes the model as indented JSON.
func Encode(m *UIModel) ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(m, "", "  ")
}

func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("model: parse yaml: %w", err)
	}
	payload, err := json.Marshal(normaliseYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("model: convert yaml: %w", err)
	}
	return payload, nil
}

// yaml.v3 yields map[string]any for string keyed mappings but falls back to
// map[any]any for others.
func normaliseYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = normaliseYAML(item)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normaliseYAML(item)
		}
		return out
	case []any:
		for idx, item := range typed {
			typed[idx] = normaliseYAML(item)
		}
		return typed
	default:
		return value
	}
}
