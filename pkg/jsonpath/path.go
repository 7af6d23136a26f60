package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Root is the path addressing the root value itself.
const Root = "$"

// Accessor is one step of a compiled path: either a mapping key or a
// sequence index.
type Accessor struct {
	Key     string
	Index   int
	IsIndex bool
}

func (a Accessor) String() string {
	if a.IsIndex {
		return "[" + strconv.Itoa(a.Index) + "]"
	}
	return "." + a.Key
}

// Path is a compiled path expression.
type Path struct {
	expr      string
	accessors []Accessor
}

// Accessors returns a copy of the path steps.
func (p Path) Accessors() []Accessor {
	return append([]Accessor(nil), p.accessors...)
}

// IsRoot reports whether the path addresses the root value.
func (p Path) IsRoot() bool { return len(p.accessors) == 0 }

func (p Path) String() string { return p.expr }

// MalformedPathError describes an expression Compile could not parse.
type MalformedPathError struct {
	Expr   string
	Offset int
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("jsonpath: malformed path %q at offset %d: %s", e.Expr, e.Offset, e.Reason)
}

var cache sync.Map // string -> Path

// Compile parses expr. Compiled paths are cached process wide.
func Compile(expr string) (Path, error) {
	if cached, ok := cache.Load(expr); ok {
		return cached.(Path), nil
	}
	path, err := compile(expr)
	if err != nil {
		return Path{}, err
	}
	cache.Store(expr, path)
	return path, nil
}

// MustCompile is Compile for expressions known to be valid.
func MustCompile(expr string) Path {
	path, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return path
}

func compile(expr string) (Path, error) {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, Root) {
		return Path{}, &MalformedPathError{Expr: expr, Offset: 0, Reason: "path must start with $"}
	}

	var accessors []Accessor
	pos := 1
	for pos < len(trimmed) {
		switch trimmed[pos] {
		case '.':
			start := pos + 1
			end := start
			for end < len(trimmed) && trimmed[end] != '.' && trimmed[end] != '[' && trimmed[end] != ']' {
				end++
			}
			key := trimmed[start:end]
			if key == "" {
				return Path{}, &MalformedPathError{Expr: expr, Offset: pos, Reason: "empty segment"}
			}
			accessors = append(accessors, Accessor{Key: key})
			pos = end
		case '[':
			end := strings.IndexByte(trimmed[pos:], ']')
			if end < 0 {
				return Path{}, &MalformedPathError{Expr: expr, Offset: pos, Reason: "unterminated index"}
			}
			raw := strings.TrimSpace(trimmed[pos+1 : pos+end])
			index, err := strconv.Atoi(raw)
			if err != nil || index < 0 || raw == "" || raw[0] == '+' || raw[0] == '-' {
				return Path{}, &MalformedPathError{Expr: expr, Offset: pos + 1, Reason: "index must be a non-negative integer"}
			}
			accessors = append(accessors, Accessor{Index: index, IsIndex: true})
			pos += end + 1
		default:
			return Path{}, &MalformedPathError{Expr: expr, Offset: pos, Reason: fmt.Sprintf("unexpected %q", trimmed[pos])}
		}
	}
	return Path{expr: trimmed, accessors: accessors}, nil
}

// Join appends accessors for the given keys to a base path expression.
func Join(base string, keys ...string) string {
	var b strings.Builder
	if base == "" {
		base = Root
	}
	b.WriteString(base)
	for _, key := range keys {
		b.WriteByte('.')
		b.WriteString(key)
	}
	return b.String()
}
