// Package inspector exposes the editable properties of a node grouped by
// category, and writes edited values back.
package inspector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/properties"
	"github.com/goliatone/go-uimodel/pkg/registry"
)

// Property is one editable property and its current value. Text is the
// editable rendering: strings verbatim, anything else JSON encoded, and ""
// when unset.
type Property struct {
	properties.Schema
	Value any
	Text  string
	Set   bool
}

// Group lists the properties of one category.
type Group struct {
	Category   properties.Category
	Properties []Property
}

// Sheet is the inspector view of a node.
type Sheet struct {
	Type   string
	Label  string
	Groups []Group
}

// Property returns the entry for name.
func (s Sheet) Property(name string) (Property, bool) {
	for _, group := range s.Groups {
		for _, prop := range group.Properties {
			if prop.Name == name {
				return prop, true
			}
		}
	}
	return Property{}, false
}

// Inspect builds the sheet for node. Container properties come first, then
// the item properties declared by the node's component; groups keep the
// order in which their category first appears.
func Inspect(reg *registry.Registry, node *model.UIModel) (Sheet, error) {
	if reg == nil || node == nil {
		return Sheet{}, errors.New("inspector: registry and node are required")
	}
	descriptor, err := reg.Resolve(node.Type)
	if err != nil {
		return Sheet{}, fmt.Errorf("inspector: %w", err)
	}
	schemas, err := reg.PropertiesOf(node.Type)
	if err != nil {
		return Sheet{}, fmt.Errorf("inspector: %w", err)
	}

	sheet := Sheet{Type: node.Type, Label: descriptor.Label}
	if sheet.Label == "" {
		sheet.Label = descriptor.Name
	}

	var all []Property
	for _, schema := range properties.ContainerProperties() {
		all = append(all, describe(schema.WithDefaults(), node.ContainerProperties))
	}
	for _, schema := range schemas {
		all = append(all, describe(schema, node.ItemProperties))
	}

	index := make(map[properties.Category]int)
	for _, prop := range all {
		pos, ok := index[prop.Category]
		if !ok {
			pos = len(sheet.Groups)
			index[prop.Category] = pos
			sheet.Groups = append(sheet.Groups, Group{Category: prop.Category})
		}
		sheet.Groups[pos].Properties = append(sheet.Groups[pos].Properties, prop)
	}
	return sheet, nil
}

func describe(schema properties.Schema, bag model.AttributesMap) Property {
	value, ok := bag[schema.Name]
	return Property{Schema: schema, Value: value, Text: Format(value), Set: ok}
}

// Format renders a property value for editing.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	out, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(out)
}

// ParseValue reads edited text as JSON when it is valid JSON and as a plain
// string otherwise. Integral numbers decode as int.
func ParseValue(text string) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil || decoder.More() {
		return text
	}
	return normalise(value)
}

func normalise(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for key, item := range v {
			v[key] = normalise(item)
		}
		return v
	case []any:
		for idx, item := range v {
			v[idx] = normalise(item)
		}
		return v
	default:
		return value
	}
}

// Edit is a pending change to one property. An empty Text removes the
// property.
type Edit struct {
	Name      string
	Container bool
	Text      string
}

// Apply validates every edit and then writes them to node. Container edits
// must name a container property and item edits must not name a container
// directive.
func Apply(node *model.UIModel, edits ...Edit) error {
	if node == nil {
		return errors.New("inspector: node is required")
	}
	for _, edit := range edits {
		name := strings.TrimSpace(edit.Name)
		switch {
		case name == "":
			return errors.New("inspector: edit without a property name")
		case edit.Container && !isContainerProperty(name):
			return fmt.Errorf("inspector: %q is not a container property", name)
		case !edit.Container && properties.IsContainerDirective(name):
			return fmt.Errorf("inspector: %q is a container property", name)
		}
	}

	if node.ItemProperties == nil {
		node.ItemProperties = model.AttributesMap{}
	}
	if node.ContainerProperties == nil {
		node.ContainerProperties = model.AttributesMap{}
	}
	for _, edit := range edits {
		bag := node.ItemProperties
		if edit.Container {
			bag = node.ContainerProperties
		}
		name := strings.TrimSpace(edit.Name)
		if strings.TrimSpace(edit.Text) == "" {
			delete(bag, name)
			if name == "id" && !edit.Container {
				node.ID = ""
			}
			continue
		}
		bag[name] = ParseValue(edit.Text)
		if name == "id" && !edit.Container {
			node.ID, _ = bag[name].(string)
		}
	}
	return nil
}

func isContainerProperty(name string) bool {
	for _, schema := range properties.ContainerProperties() {
		if schema.Name == name {
			return true
		}
	}
	return false
}
