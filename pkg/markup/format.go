package markup

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/goliatone/go-uimodel/pkg/model"
)

// Format renders a tree back to markup, two-space indented. Attributes are
// sorted with container properties first. Non-string values are written as
// JSON, so only trees whose properties are strings survive a Parse round
// trip unchanged.
func Format(node *model.UIModel) (string, error) {
	if node == nil {
		return "", fmt.Errorf("markup: model is nil")
	}
	var b strings.Builder
	if err := format(&b, node, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func format(b *strings.Builder, node *model.UIModel, depth int) error {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(node.Type)

	attrs, err := attributes(node)
	if err != nil {
		return err
	}
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(attr[0])
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr[1]))
		b.WriteByte('"')
	}

	if len(node.Children) == 0 {
		b.WriteString("/>\n")
		return nil
	}
	b.WriteString(">\n")
	for _, child := range node.Children {
		if err := format(b, child, depth+1); err != nil {
			return err
		}
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(node.Type)
	b.WriteString(">\n")
	return nil
}

func attributes(node *model.UIModel) ([][2]string, error) {
	var out [][2]string
	seen := make(map[string]struct{})
	for _, bag := range []model.AttributesMap{node.ContainerProperties, node.ItemProperties} {
		keys := make([]string, 0, len(bag))
		for key := range bag {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			value, err := attributeValue(bag[key])
			if err != nil {
				return nil, fmt.Errorf("markup: attribute %q of <%s>: %w", key, node.Type, err)
			}
			out = append(out, [2]string{key, value})
		}
	}
	if node.ID != "" {
		if _, ok := seen["id"]; !ok {
			out = append(out, [2]string{"id", node.ID})
		}
	}
	return out, nil
}

func attributeValue(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case nil:
		return "", nil
	default:
		payload, err := json.Marshal(typed)
		if err != nil {
			return "", err
		}
		return string(payload), nil
	}
}
