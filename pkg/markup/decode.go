package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-uimodel/pkg/model"
)

// Decode reads the document into raw elements without consulting a
// registry. Exactly one root element is allowed; comments, processing
// instructions and whitespace around it are ignored. Tag and attribute names
// keep their case and prefix.
func Decode(doc string) (*model.RawElement, error) {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	decoder.Strict = true
	decoder.Entity = xml.HTMLEntity

	var (
		root  *model.RawElement
		stack []*model.RawElement
		text  []*strings.Builder
	)

	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch tok := token.(type) {
		case xml.StartElement:
			el := &model.RawElement{
				Type:  qualifiedName(tok.Name),
				Attrs: make(map[string]string, len(tok.Attr)),
			}
			for _, attr := range tok.Attr {
				if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
					continue
				}
				el.Attrs[qualifiedName(attr.Name)] = attr.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Err: fmt.Errorf("unexpected second root element <%s>", el.Type)}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			name := qualifiedName(tok.Name)
			if len(stack) == 0 {
				return nil, &ParseError{Err: fmt.Errorf("unexpected closing tag </%s>", name)}
			}
			current := stack[len(stack)-1]
			if current.Type != name {
				return nil, &ParseError{Err: fmt.Errorf("closing tag </%s> does not match <%s>", name, current.Type)}
			}
			current.Content = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(tok)) != "" {
					return nil, &ParseError{Err: errors.New("text outside the root element")}
				}
				continue
			}
			text[len(text)-1].Write(tok)
		}
	}

	if len(stack) > 0 {
		return nil, &ParseError{Err: fmt.Errorf("element <%s> is not closed", stack[len(stack)-1].Type)}
	}
	if root == nil {
		return nil, &ParseError{Err: errors.New("document has no root element")}
	}
	return root, nil
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
