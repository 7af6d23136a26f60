package markup

import "fmt"

// ParseError reports why a document could not become a tree. Path locates
// the failing element as "root/1/select", child indices counted from zero.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("markup: %v", e.Err)
	}
	return fmt.Sprintf("markup: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
