package model

import (
	"github.com/goliatone/go-uimodel/pkg/jsonpath"
)

// Item properties consulted when resolving a node's bound value.
const (
	PropDataSource = "dataSource"
	PropBinding    = "binding"
	PropValue      = "value"
)

// BoundValue resolves the value a node presents. A dataSource property wins:
// structured values are returned as is, a string names a top level key of
// the data model. Otherwise the binding path is resolved against the data
// model, unless the data model is a sequence. The literal value property is
// the last fallback.
func BoundValue(node *UIModel, data any) (any, bool) {
	if node == nil {
		return nil, false
	}
	props := node.ItemProperties

	if source, ok := props[PropDataSource]; ok {
		switch typed := source.(type) {
		case map[string]any, []any, AttributesMap:
			return typed, true
		case string:
			if root, isMap := data.(map[string]any); isMap {
				if value, exists := root[typed]; exists {
					return value, true
				}
			}
		}
	}

	if path, ok := props.String(PropBinding); ok && !isList(data) {
		if value, found := jsonpath.Find(data, path); found {
			return value, true
		}
		return nil, false
	}

	if value, ok := props[PropValue]; ok {
		return value, true
	}
	return nil, false
}

// SetBoundValue writes value through the node's binding path and reports
// whether the data model changed.
func SetBoundValue(node *UIModel, data any, value any) bool {
	if node == nil {
		return false
	}
	path, ok := node.ItemProperties.String(PropBinding)
	if !ok {
		return false
	}
	return jsonpath.SetValue(data, path, value)
}

func isList(data any) bool {
	_, ok := data.([]any)
	return ok
}
