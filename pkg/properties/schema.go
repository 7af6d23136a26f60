package properties

import (
	"sort"
	"strings"
	"sync"
)

// Category groups related properties in design-time tooling.
type Category string

const (
	CategoryMain       Category = "Main"
	CategoryCommon     Category = "Common"
	CategoryLayout     Category = "Layout"
	CategoryAppearance Category = "Appearance"
	CategoryValidation Category = "Validation"
	CategoryData       Category = "Data"
	CategoryEvents     Category = "Events"
	CategoryContainer  Category = "Container"
)

// Schema describes a single property a component accepts. Values lists the
// allowed scalar choices; Combo lists grouped choices where each group is
// edited as a separate selector (for example border side + border value).
type Schema struct {
	Name                string   `json:"name" yaml:"name"`
	Label               string   `json:"label,omitempty" yaml:"label,omitempty"`
	Category            Category `json:"category,omitempty" yaml:"category,omitempty"`
	Description         string   `json:"description,omitempty" yaml:"description,omitempty"`
	Example             string   `json:"example,omitempty" yaml:"example,omitempty"`
	Link                string   `json:"link,omitempty" yaml:"link,omitempty"`
	Values              []any    `json:"values,omitempty" yaml:"values,omitempty"`
	Combo               [][]any  `json:"combo,omitempty" yaml:"combo,omitempty"`
	IsContainerProperty bool     `json:"isContainerProperty,omitempty" yaml:"isContainerProperty,omitempty"`
}

// WithDefaults fills the label and category when the schema leaves them
// empty.
func (s Schema) WithDefaults() Schema {
	if strings.TrimSpace(s.Label) == "" {
		s.Label = s.Name
	}
	if s.Category == "" {
		s.Category = CategoryCommon
	}
	return s
}

// Merge overlays the non-empty fields of other onto s.
func (s Schema) Merge(other Schema) Schema {
	if other.Name != "" {
		s.Name = other.Name
	}
	if other.Label != "" {
		s.Label = other.Label
	}
	if other.Category != "" {
		s.Category = other.Category
	}
	if other.Description != "" {
		s.Description = other.Description
	}
	if other.Example != "" {
		s.Example = other.Example
	}
	if other.Link != "" {
		s.Link = other.Link
	}
	if len(other.Values) > 0 {
		s.Values = append([]any(nil), other.Values...)
	}
	if len(other.Combo) > 0 {
		s.Combo = cloneCombo(other.Combo)
	}
	if other.IsContainerProperty {
		s.IsContainerProperty = true
	}
	return s
}

func (s Schema) clone() Schema {
	out := s
	if len(s.Values) > 0 {
		out.Values = append([]any(nil), s.Values...)
	}
	if len(s.Combo) > 0 {
		out.Combo = cloneCombo(s.Combo)
	}
	return out
}

func cloneCombo(src [][]any) [][]any {
	out := make([][]any, len(src))
	for idx, group := range src {
		out[idx] = append([]any(nil), group...)
	}
	return out
}

// Catalog is a shared table of property schemas keyed either by the bare
// property name (properties any component may use) or by
// "package:component:property" for component specific extensions.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Schema
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Schema)}
}

// DefaultCatalog returns a catalog seeded with the general control
// properties and the container layout properties.
func DefaultCatalog() *Catalog {
	catalog := NewCatalog()
	for _, schema := range controlProperties() {
		catalog.Set(schema.Name, schema)
	}
	for _, schema := range containerProperties() {
		catalog.Set(schema.Name, schema)
	}
	return catalog
}

// ExtensionKey builds the catalog key used for component specific property
// extensions.
func ExtensionKey(packageName, component, property string) string {
	return packageName + ":" + component + ":" + property
}

// Set inserts or replaces the schema stored under key.
func (c *Catalog) Set(key string, schema Schema) {
	if c == nil {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if schema.Name == "" {
		schema.Name = key
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = schema.clone()
}

// Get returns the schema stored under key.
func (c *Catalog) Get(key string) (Schema, bool) {
	if c == nil {
		return Schema{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	schema, ok := c.entries[key]
	if !ok {
		return Schema{}, false
	}
	return schema.clone(), true
}

// Lookup resolves a property for a component, preferring the component
// specific extension over the shared entry.
func (c *Catalog) Lookup(packageName, component, property string) (Schema, bool) {
	if schema, ok := c.Get(ExtensionKey(packageName, component, property)); ok {
		return schema, true
	}
	return c.Get(property)
}

// Keys returns the sorted catalog keys.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	cloned := NewCatalog()
	if c == nil {
		return cloned
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for key, schema := range c.entries {
		cloned.entries[key] = schema.clone()
	}
	return cloned
}
