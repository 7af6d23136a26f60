package components

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/registry"
)

// contentAs stores the element's text content under prop.
func contentAs(prop string) registry.ParseHook {
	return func(el *model.RawElement) (registry.ParseResult, error) {
		result := registry.ParseResult{ItemProperties: model.AttributesMap{}}
		if text := SanitizeText(el.Content); text != "" {
			result.ItemProperties[prop] = text
		}
		return result, nil
	}
}

// parseSelect turns <option> children into itemsSource. An itemsSource
// attribute wins; the options are still consumed so they never become nodes.
func parseSelect(el *model.RawElement) (registry.ParseResult, error) {
	return parseOptions(el, "option")
}

func parseOptions(el *model.RawElement, tag string) (registry.ParseResult, error) {
	if len(el.Children) == 0 {
		return registry.ParseResult{}, nil
	}

	items := make([]any, 0, len(el.Children))
	for _, option := range el.Children {
		if option.Type != tag {
			return registry.ParseResult{}, fmt.Errorf("<%s> is not allowed here, only <%s>", option.Type, tag)
		}
		if len(option.Children) > 0 {
			return registry.ParseResult{}, fmt.Errorf("%s %q cannot contain elements", tag, option.Content)
		}
		label := SanitizeText(option.Content)
		var value any = label
		if raw, ok := option.Attr("value"); ok {
			value = raw
		}
		items = append(items, map[string]any{"label": label, "value": value})
	}

	result := registry.ParseResult{ConsumedChildren: true}
	if _, ok := el.Attr("itemsSource"); !ok {
		result.ItemProperties = model.AttributesMap{"itemsSource": items}
	}
	return result, nil
}

func parseTextarea(el *model.RawElement) (registry.ParseResult, error) {
	readonly, _ := el.Attr("readonly")
	props := model.AttributesMap{"readonly": readonly == "true"}
	if text := strings.TrimSpace(el.Content); text != "" {
		props["value"] = text
	}
	return registry.ParseResult{ItemProperties: props}, nil
}

func parseIcon(el *model.RawElement) (registry.ParseResult, error) {
	props := model.AttributesMap{}
	if svg, ok := el.Attr("svg"); ok {
		props["svg"] = SanitizeIcon(svg)
	}
	if name := SanitizeText(el.Content); name != "" {
		props["name"] = name
	}
	return registry.ParseResult{ItemProperties: props}, nil
}

// parseRadioGroup mirrors parseSelect for <radio> children.
func parseRadioGroup(el *model.RawElement) (registry.ParseResult, error) {
	result, err := parseOptions(el, "radio")
	if err != nil {
		return registry.ParseResult{}, fmt.Errorf("radio-group: %w", err)
	}
	return result, nil
}
