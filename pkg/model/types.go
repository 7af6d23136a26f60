package model

import (
	"encoding/json"
)

// AttributesMap maps a property name to a JSON-compatible value.
type AttributesMap map[string]any

// Clone returns a deep copy of the map. Nested maps and slices are copied,
// other values are shared.
func (m AttributesMap) Clone() AttributesMap {
	if m == nil {
		return nil
	}
	out := make(AttributesMap, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

// String returns the value under key when it is a string.
func (m AttributesMap) String(key string) (string, bool) {
	value, ok := m[key]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// Has reports whether key is present, including explicit nil values.
func (m AttributesMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// UIModel is one node of a UI model tree. The tree is strict: a node is
// owned by exactly one parent and never appears twice.
type UIModel struct {
	Type                string        `json:"type" yaml:"type"`
	ID                  string        `json:"id,omitempty" yaml:"id,omitempty"`
	ContainerProperties AttributesMap `json:"containerProperties" yaml:"containerProperties"`
	ItemProperties      AttributesMap `json:"itemProperties" yaml:"itemProperties"`
	// Children is nil when the node has no child list and empty when the
	// list is present but holds nothing.
	Children []*UIModel `json:"children,omitempty" yaml:"children,omitempty"`
}

// New returns a node of the given type with empty property bags.
func New(typ string) *UIModel {
	return &UIModel{
		Type:                typ,
		ContainerProperties: AttributesMap{},
		ItemProperties:      AttributesMap{},
	}
}

// WithItem sets an item property and returns the node for chaining.
func (m *UIModel) WithItem(key string, value any) *UIModel {
	if m.ItemProperties == nil {
		m.ItemProperties = AttributesMap{}
	}
	m.ItemProperties[key] = value
	return m
}

// WithContainer sets a container property and returns the node.
func (m *UIModel) WithContainer(key string, value any) *UIModel {
	if m.ContainerProperties == nil {
		m.ContainerProperties = AttributesMap{}
	}
	m.ContainerProperties[key] = value
	return m
}

// WithChildren replaces the child list. Passing no children yields an
// explicitly empty list.
func (m *UIModel) WithChildren(children ...*UIModel) *UIModel {
	m.Children = append([]*UIModel{}, children...)
	return m
}

type uiModelWire struct {
	Type                string        `json:"type"`
	ID                  string        `json:"id,omitempty"`
	ContainerProperties AttributesMap `json:"containerProperties"`
	ItemProperties      AttributesMap `json:"itemProperties"`
	Children            *[]*UIModel   `json:"children,omitempty"`
}

// MarshalJSON emits both property bags (empty when nil) and the children
// field only when the child list is non-nil.
func (m UIModel) MarshalJSON() ([]byte, error) {
	wire := uiModelWire{
		Type:                m.Type,
		ID:                  m.ID,
		ContainerProperties: m.ContainerProperties,
		ItemProperties:      m.ItemProperties,
	}
	if wire.ContainerProperties == nil {
		wire.ContainerProperties = AttributesMap{}
	}
	if wire.ItemProperties == nil {
		wire.ItemProperties = AttributesMap{}
	}
	if m.Children != nil {
		children := m.Children
		wire.Children = &children
	}
	return json.Marshal(wire)
}

// UnmarshalJSON keeps an explicit empty children array distinct from an
// absent one and normalises missing property bags to empty maps.
func (m *UIModel) UnmarshalJSON(data []byte) error {
	var wire uiModelWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = UIModel{
		Type:                wire.Type,
		ID:                  wire.ID,
		ContainerProperties: wire.ContainerProperties,
		ItemProperties:      wire.ItemProperties,
	}
	if m.ContainerProperties == nil {
		m.ContainerProperties = AttributesMap{}
	}
	if m.ItemProperties == nil {
		m.ItemProperties = AttributesMap{}
	}
	if wire.Children != nil {
		m.Children = *wire.Children
		if m.Children == nil {
			m.Children = []*UIModel{}
		}
	}
	return nil
}

// RawElement is the parser's view of one markup element before it becomes a
// node: tag, string attributes, child elements in document order and the
// trimmed text content.
type RawElement struct {
	Type     string
	Attrs    map[string]string
	Children []*RawElement
	Content  string
}

// Attr returns an attribute value.
func (e *RawElement) Attr(name string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	value, ok := e.Attrs[name]
	return value, ok
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneValue(item)
		}
		return out
	case AttributesMap:
		return typed.Clone()
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneValue(item).(map[string]any)
		}
		return out
	default:
		return value
	}
}
