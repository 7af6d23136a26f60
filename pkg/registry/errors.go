package registry

import (
	"errors"
	"fmt"
)

// ErrNotRegistered matches every NotRegisteredError through errors.Is.
var ErrNotRegistered = errors.New("registry: component not registered")

// NotRegisteredError reports a type key with no registry entry.
type NotRegisteredError struct {
	Type string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("registry: component %q not registered", e.Type)
}

// Is lets errors.Is(err, ErrNotRegistered) match.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}

// ValidationError collects the problems Validate found in a tree.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "registry: invalid model: " + e.Problems[0]
	}
	return fmt.Sprintf("registry: invalid model: %d problems, first: %s", len(e.Problems), e.Problems[0])
}
