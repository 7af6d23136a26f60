package registry

import (
	"strings"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/properties"
)

// CorePackage names the built-in component set whose keys carry no prefix.
const CorePackage = "core"

// ParseResult is what a parse hook contributes to a node. ItemProperties are
// merged over the partitioned attributes. A non-nil Children slice replaces
// generic child parsing; ConsumedChildren suppresses it without producing
// children, as the select hook does when it turns options into itemsSource.
type ParseResult struct {
	ItemProperties   model.AttributesMap
	Children         []*model.UIModel
	ConsumedChildren bool
}

// ParseHook customises how a component turns its raw element into a node.
type ParseHook func(el *model.RawElement) (ParseResult, error)

// ChildMode constrains the children a component accepts.
type ChildMode int

const (
	// ChildrenAny accepts any registered component as a child.
	ChildrenAny ChildMode = iota
	// ChildrenNone forbids children.
	ChildrenNone
	// ChildrenTagged accepts only children of one type.
	ChildrenTagged
)

func (m ChildMode) String() string {
	switch m {
	case ChildrenNone:
		return "none"
	case ChildrenTagged:
		return "tagged"
	default:
		return "any"
	}
}

// ChildPolicy describes the children a component accepts. Properties lists
// schemas editable on each child, used by tagged containers.
type ChildPolicy struct {
	Mode       ChildMode
	Tag        string
	Properties []properties.Schema
}

// Example bundles a runnable sample for a component: markup, the data model
// it binds to and the scripts its events call.
type Example struct {
	Title     string
	UIModel   string
	DataModel any
	Scripts   string
}

// Descriptor is the registry entry for one component type.
type Descriptor struct {
	Name        string
	PackageName string
	Label       string
	Description string
	Category    string

	// ItemProperties documents the item level properties the component
	// understands.
	ItemProperties []properties.Schema

	// Component is the host's render capability; the registry never calls it.
	Component any

	Parse         ParseHook
	DefaultModel  *model.UIModel
	DefaultMarkup string

	// PropertyExtensions are merged into the shared catalog under
	// "package:name:property".
	PropertyExtensions []properties.Schema

	Children ChildPolicy
	Example  *Example
}

// Key returns the registry key for the descriptor.
func (d Descriptor) Key() string {
	return Key(d.PackageName, d.Name)
}

// Key builds a registry key from a package and component name.
func Key(packageName, name string) string {
	packageName = strings.TrimSpace(packageName)
	name = strings.TrimSpace(name)
	if packageName == "" || packageName == CorePackage {
		return name
	}
	return packageName + ":" + name
}

// SplitKey reverses Key.
func SplitKey(key string) (packageName, name string) {
	if idx := strings.IndexByte(key, ':'); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return CorePackage, key
}

func cloneDescriptor(d Descriptor) Descriptor {
	out := d
	if d.ItemProperties != nil {
		out.ItemProperties = append([]properties.Schema(nil), d.ItemProperties...)
	}
	if d.PropertyExtensions != nil {
		out.PropertyExtensions = append([]properties.Schema(nil), d.PropertyExtensions...)
	}
	if d.Children.Properties != nil {
		out.Children.Properties = append([]properties.Schema(nil), d.Children.Properties...)
	}
	out.DefaultModel = d.DefaultModel.Clone()
	if d.Example != nil {
		example := *d.Example
		out.Example = &example
	}
	return out
}
