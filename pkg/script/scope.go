package script

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-uimodel/pkg/jsonpath"
)

const dataModelKey = "dataModel"

// Scope holds the variables visible to a running function.
type Scope map[string]any

// Lookup resolves a reference such as "$.city", "dataModel.city" or
// "item.value".
func (s Scope) Lookup(ref string) (any, bool) {
	head, rest, err := splitRef(ref)
	if err != nil {
		return nil, false
	}
	root, ok := s[head]
	if !ok {
		return nil, false
	}
	if rest == "" {
		return root, true
	}
	return jsonpath.Find(root, jsonpath.Root+rest)
}

// Assign writes value at ref. The reference must point inside a scope
// variable holding a mapping.
func (s Scope) Assign(ref string, value any) error {
	head, rest, err := splitRef(ref)
	if err != nil {
		return err
	}
	if rest == "" {
		return fmt.Errorf("script: cannot replace %q, assign a path inside it", head)
	}
	root, ok := s[head]
	if !ok {
		return fmt.Errorf("script: unknown variable %q", head)
	}
	if !jsonpath.SetValue(root, jsonpath.Root+rest, value) {
		return fmt.Errorf("script: cannot assign %q", ref)
	}
	return nil
}

func splitRef(ref string) (head, rest string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("script: empty reference")
	}
	if strings.HasPrefix(ref, jsonpath.Root) {
		rest = ref[len(jsonpath.Root):]
		if rest != "" && rest[0] != '.' && rest[0] != '[' {
			return "", "", fmt.Errorf("script: invalid reference %q", ref)
		}
		return dataModelKey, rest, nil
	}
	end := strings.IndexAny(ref, ".[")
	if end < 0 {
		return ref, "", nil
	}
	if end == 0 {
		return "", "", fmt.Errorf("script: invalid reference %q", ref)
	}
	return ref[:end], ref[end:], nil
}
