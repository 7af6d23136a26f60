package registry

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-uimodel/pkg/properties"
)

// Option configures a Registry.
type Option func(*Registry)

// WithCatalog shares a property catalog between registries. The default is
// properties.DefaultCatalog().
func WithCatalog(catalog *properties.Catalog) Option {
	return func(r *Registry) {
		if catalog != nil {
			r.catalog = catalog
		}
	}
}

// WithLogger sets the logger used to report overwritten registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry stores component descriptors keyed by Descriptor.Key. Entries are
// added or overwritten, never removed.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
	order       []string
	catalog     *properties.Catalog
	logger      *slog.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		descriptors: make(map[string]Descriptor),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.catalog == nil {
		r.catalog = properties.DefaultCatalog()
	}
	return r
}

// Register inserts or replaces the descriptor under its key and merges its
// property extensions into the catalog.
func (r *Registry) Register(descriptor Descriptor) error {
	descriptor.Name = strings.TrimSpace(descriptor.Name)
	descriptor.PackageName = strings.TrimSpace(descriptor.PackageName)
	if descriptor.Name == "" {
		return fmt.Errorf("registry: component name is required")
	}
	if strings.ContainsAny(descriptor.Name, ": \t\n") {
		return fmt.Errorf("registry: invalid component name %q", descriptor.Name)
	}
	if descriptor.PackageName == "" {
		descriptor.PackageName = CorePackage
	}
	if descriptor.Children.Mode == ChildrenTagged && strings.TrimSpace(descriptor.Children.Tag) == "" {
		return fmt.Errorf("registry: component %q declares tagged children without a tag", descriptor.Name)
	}
	key := descriptor.Key()

	for _, ext := range descriptor.PropertyExtensions {
		if strings.TrimSpace(ext.Name) == "" {
			return fmt.Errorf("registry: component %q has a property extension without a name", key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[key]; exists {
		r.logger.Debug("registry: overwriting component", "key", key)
	} else {
		r.order = append(r.order, key)
	}
	r.descriptors[key] = cloneDescriptor(descriptor)

	for _, ext := range descriptor.PropertyExtensions {
		r.catalog.Set(properties.ExtensionKey(descriptor.PackageName, descriptor.Name, ext.Name), ext)
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(descriptors ...Descriptor) {
	for _, descriptor := range descriptors {
		if err := r.Register(descriptor); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the descriptor registered under typ.
func (r *Registry) Resolve(typ string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptor, ok := r.descriptors[typ]
	if !ok {
		return Descriptor{}, &NotRegisteredError{Type: typ}
	}
	return cloneDescriptor(descriptor), nil
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[typ]
	return ok
}

// List returns every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneDescriptor(r.descriptors[key]))
	}
	return out
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// PropertiesOf returns the item property schemas of typ. Catalog entries for
// the same property fill whatever the descriptor leaves empty; component
// extensions take precedence over shared entries.
func (r *Registry) PropertiesOf(typ string) ([]properties.Schema, error) {
	descriptor, err := r.Resolve(typ)
	if err != nil {
		return nil, err
	}

	out := make([]properties.Schema, 0, len(descriptor.ItemProperties))
	for _, schema := range descriptor.ItemProperties {
		if base, ok := r.catalog.Lookup(descriptor.PackageName, descriptor.Name, schema.Name); ok {
			schema = base.Merge(schema)
		}
		out = append(out, schema.WithDefaults())
	}
	return out, nil
}

// Catalog returns the shared property catalog.
func (r *Registry) Catalog() *properties.Catalog {
	return r.catalog
}

// CategoryGroup lists the descriptors sharing a category.
type CategoryGroup struct {
	Name        string
	Descriptors []Descriptor
}

// Categories groups descriptors by category in order of first registration.
// Descriptors without a category land in "Other".
func (r *Registry) Categories() []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, descriptor := range r.List() {
		name := descriptor.Category
		if name == "" {
			name = "Other"
		}
		pos, ok := index[name]
		if !ok {
			pos = len(groups)
			index[name] = pos
			groups = append(groups, CategoryGroup{Name: name})
		}
		groups[pos].Descriptors = append(groups[pos].Descriptors, descriptor)
	}
	return groups
}

// Clone returns an independent registry with the same entries and a copy of
// the catalog.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New(WithCatalog(r.catalog.Clone()), WithLogger(r.logger))
	for _, key := range r.order {
		cloned.descriptors[key] = cloneDescriptor(r.descriptors[key])
	}
	cloned.order = append([]string(nil), r.order...)
	return cloned
}
