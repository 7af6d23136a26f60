package registry

import (
	"fmt"

	"github.com/goliatone/go-uimodel/pkg/model"
)

// Validate checks a tree against the registry: every type resolves, nodes
// whose component forbids children have none, tagged containers only hold
// their tag, and no node appears twice (shared subtree or cycle).
func (r *Registry) Validate(root *model.UIModel) error {
	if root == nil {
		return &ValidationError{Problems: []string{"model is nil"}}
	}

	var problems []string
	seen := make(map[*model.UIModel]string)

	var visit func(node *model.UIModel, path string)
	visit = func(node *model.UIModel, path string) {
		if node == nil {
			problems = append(problems, fmt.Sprintf("%s: nil node", path))
			return
		}
		if first, ok := seen[node]; ok {
			problems = append(problems, fmt.Sprintf("%s: node already appears at %s", path, first))
			return
		}
		seen[node] = path

		descriptor, err := r.Resolve(node.Type)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", path, err))
		} else {
			switch descriptor.Children.Mode {
			case ChildrenNone:
				if len(node.Children) > 0 {
					problems = append(problems, fmt.Sprintf("%s: %q does not accept children", path, node.Type))
				}
			case ChildrenTagged:
				for idx, child := range node.Children {
					if child != nil && child.Type != descriptor.Children.Tag {
						problems = append(problems, fmt.Sprintf("%s/%d: %q only accepts %q children", path, idx, node.Type, descriptor.Children.Tag))
					}
				}
			}
		}

		for idx, child := range node.Children {
			visit(child, fmt.Sprintf("%s/%d", path, idx))
		}
	}
	visit(root, root.Type)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
