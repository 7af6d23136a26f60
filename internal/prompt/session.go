package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-uimodel/pkg/jsonpath"
	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

// Handler properties fired after a control is edited, in lookup order.
var handlerProps = []string{"onChange", "onSelect", "onClick", "onSubmit"}

const (
	choiceShowData = "Show data model"
	choiceQuit     = "Quit"
)

// Session runs an interactive loop over a started engine.
type Session struct {
	driver Driver
	engine *workflow.Engine
}

// NewSession pairs a driver with an engine that has been started.
func NewSession(driver Driver, engine *workflow.Engine) *Session {
	return &Session{driver: driver, engine: engine}
}

// Control is an interactive node of the model.
type Control struct {
	Node    *model.UIModel
	Handler string
}

// Label describes the control in menus.
func (c Control) Label() string {
	name := c.Node.Type
	if c.Node.ID != "" {
		name += "#" + c.Node.ID
	}
	if binding, ok := c.Node.ItemProperties.String(model.PropBinding); ok {
		name += " " + binding
	}
	if label, ok := c.Node.ItemProperties.String("label"); ok {
		name += " (" + label + ")"
	}
	return name
}

// Controls lists nodes that are bound or raise an event, in document order.
func Controls(root *model.UIModel) []Control {
	var out []Control
	_ = root.Walk(func(node, _ *model.UIModel, _ int) error {
		control := Control{Node: node}
		for _, prop := range handlerProps {
			if _, ok := node.ItemProperties.String(prop); ok {
				control.Handler = prop
				break
			}
		}
		_, bound := node.ItemProperties.String(model.PropBinding)
		if bound || control.Handler != "" {
			out = append(out, control)
		}
		return nil
	})
	return out
}

// Run loops until the user quits or aborts. Aborting ends the session
// without error.
func (s *Session) Run(ctx context.Context) error {
	for {
		controls := Controls(s.engine.UIModel())
		options := make([]string, 0, len(controls)+2)
		for _, control := range controls {
			options = append(options, control.Label())
		}
		options = append(options, choiceShowData, choiceQuit)

		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Control", Options: options, PageSize: 15})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
		switch {
		case idx < 0 || idx >= len(options):
			continue
		case options[idx] == choiceQuit:
			return nil
		case options[idx] == choiceShowData:
			if err := s.showData(ctx); err != nil {
				return err
			}
		default:
			if err := s.interact(ctx, controls[idx]); err != nil {
				if errors.Is(err, ErrAborted) {
					return nil
				}
				return err
			}
		}
	}
}

func (s *Session) interact(ctx context.Context, control Control) error {
	node := control.Node
	data := s.engine.DataModel()

	var payload any
	if _, bound := node.ItemProperties.String(model.PropBinding); bound {
		value, err := s.edit(ctx, node, data)
		if err != nil {
			return err
		}
		if !model.SetBoundValue(node, data, value) {
			_ = s.driver.Info(ctx, fmt.Sprintf("Cannot write %s", control.Label()))
		}
		payload = value
	}

	if control.Handler == "" {
		return nil
	}
	event, ok := model.HandlerFor(node, control.Handler, payload)
	if !ok {
		return nil
	}
	task := s.engine.DispatchEvent(ctx, event)
	if _, err := task.Wait(); err != nil {
		return s.driver.Info(ctx, fmt.Sprintf("%s failed: %v", event.EventName, err))
	}
	if !task.Handled() {
		return s.driver.Info(ctx, fmt.Sprintf("No handler named %s", event.EventName))
	}
	return nil
}

func (s *Session) edit(ctx context.Context, node *model.UIModel, data any) (any, error) {
	current, _ := model.BoundValue(node, data)
	message := Control{Node: node}.Label()

	switch node.Type {
	case "checkbox":
		checked, _ := current.(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked})
	case "select", "radio-group":
		items := itemsOf(node, data)
		if len(items) == 0 {
			break
		}
		labels := make([]string, len(items))
		selected := -1
		for idx, item := range items {
			labels[idx] = fmt.Sprint(item["label"])
			if current != nil && fmt.Sprint(item["value"]) == fmt.Sprint(current) {
				selected = idx
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: selected})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(items) {
			return current, nil
		}
		return items[idx]["value"], nil
	case "textarea":
		return s.driver.TextArea(ctx, InputConfig{Message: message, Default: display(current)})
	}

	text, err := s.driver.Input(ctx, InputConfig{Message: message, Default: display(current)})
	if err != nil {
		return nil, err
	}
	if typ, _ := node.ItemProperties.String("type"); typ == "number" {
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return n, nil
		}
	}
	return text, nil
}

// itemsOf resolves a literal or bound itemsSource into option maps.
func itemsOf(node *model.UIModel, data any) []map[string]any {
	source := node.ItemProperties["itemsSource"]
	if path, ok := source.(string); ok {
		source, _ = jsonpath.Find(data, path)
	}
	list, _ := source.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		switch item := entry.(type) {
		case map[string]any:
			out = append(out, item)
		default:
			out = append(out, map[string]any{"label": item, "value": item})
		}
	}
	return out
}

func display(value any) string {
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

func (s *Session) showData(ctx context.Context) error {
	out, err := json.MarshalIndent(s.engine.DataModel(), "", "  ")
	if err != nil {
		return fmt.Errorf("prompt: encode data model: %w", err)
	}
	return s.driver.Info(ctx, string(out))
}
