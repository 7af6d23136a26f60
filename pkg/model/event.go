package model

import "strings"

// ParamUIModel is the parameter key that always carries the raising node.
const ParamUIModel = "uiModel"

// DefaultParam names the event payload when a handler signature declares no
// parameter of its own.
const DefaultParam = "value"

// ComponentEvent is raised by a rendered component and consumed once by the
// workflow engine or a host listener.
type ComponentEvent struct {
	EventName  string         `json:"eventName"`
	Parameters map[string]any `json:"parameters"`
}

// UIModel returns the raising node carried in the parameters.
func (e ComponentEvent) UIModel() *UIModel {
	node, _ := e.Parameters[ParamUIModel].(*UIModel)
	return node
}

// ParseHandler splits a handler signature such as "onSelect(item)" into the
// event name and the parameter name. A signature without parentheses yields
// an empty parameter.
func ParseHandler(signature string) (name, param string) {
	signature = strings.TrimSpace(signature)
	open := strings.IndexByte(signature, '(')
	if open < 0 {
		return signature, ""
	}
	name = strings.TrimSpace(signature[:open])
	rest := signature[open+1:]
	if end := strings.IndexByte(rest, ')'); end >= 0 {
		rest = rest[:end]
	}
	return name, strings.TrimSpace(rest)
}

// NewEvent builds the event a node raises for the handler signature stored
// in one of its item properties. The payload is stored under the declared
// parameter name, or DefaultParam. A parameter named after ParamUIModel also
// falls back to DefaultParam so the raising node is never replaced. ok is
// false when the signature is empty.
func NewEvent(node *UIModel, signature string, payload any) (ComponentEvent, bool) {
	name, param := ParseHandler(signature)
	if name == "" {
		return ComponentEvent{}, false
	}
	if param == "" || param == ParamUIModel {
		param = DefaultParam
	}
	params := map[string]any{ParamUIModel: node}
	if payload != nil {
		params[param] = payload
	}
	return ComponentEvent{EventName: name, Parameters: params}, true
}

// HandlerFor returns the event raised by node for the handler property prop
// (for example "onClick"), when the node declares one.
func HandlerFor(node *UIModel, prop string, payload any) (ComponentEvent, bool) {
	if node == nil {
		return ComponentEvent{}, false
	}
	signature, ok := node.ItemProperties.String(prop)
	if !ok {
		return ComponentEvent{}, false
	}
	return NewEvent(node, signature, payload)
}
