package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Condition is a compiled boolean expression.
type Condition struct {
	source string
	root   exprNode
}

var conditionCache sync.Map // string -> *Condition

// CompileCondition parses rule. An empty rule is always true.
func CompileCondition(rule string) (*Condition, error) {
	trimmed := strings.TrimSpace(rule)
	if cached, ok := conditionCache.Load(trimmed); ok {
		return cached.(*Condition), nil
	}

	cond := &Condition{source: trimmed}
	if trimmed != "" {
		tokens, err := tokenize(trimmed)
		if err != nil {
			return nil, err
		}
		root, err := parseExpression(tokens)
		if err != nil {
			return nil, err
		}
		cond.root = root
	}
	conditionCache.Store(trimmed, cond)
	return cond, nil
}

func (c *Condition) String() string { return c.source }

// Eval evaluates the condition against scope.
func (c *Condition) Eval(scope Scope) (bool, error) {
	if c == nil || c.root == nil {
		return true, nil
	}
	return c.root.eval(scope)
}

type tokenKind int

const (
	tokenRef tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isOperator(ch byte) bool {
	switch ch {
	case '(', ')', '!', '=', '&', '|', '<', '>':
		return true
	}
	return false
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	emit := func(kind tokenKind, raw string) {
		tokens = append(tokens, token{kind: kind, raw: raw})
	}
	peek := func(i int) byte {
		if i < len(input) {
			return input[i]
		}
		return 0
	}

	for i := 0; i < len(input); {
		ch := input[i]
		switch {
		case isSpace(ch):
			i++
		case ch == '(':
			emit(tokenLParen, "(")
			i++
		case ch == ')':
			emit(tokenRParen, ")")
			i++
		case ch == '!':
			if peek(i+1) == '=' {
				emit(tokenNeq, "!=")
				i += 2
				continue
			}
			emit(tokenNot, "!")
			i++
		case ch == '=':
			if peek(i+1) != '=' {
				return nil, errors.New("script: unexpected '='; use '=='")
			}
			emit(tokenEq, "==")
			i += 2
		case ch == '<' || ch == '>':
			kind := map[byte]tokenKind{'<': tokenLt, '>': tokenGt}[ch]
			if peek(i+1) == '=' {
				emit(kind+1, string(ch)+"=")
				i += 2
				continue
			}
			emit(kind, string(ch))
			i++
		case ch == '&' || ch == '|':
			if peek(i+1) != ch {
				return nil, fmt.Errorf("script: unexpected %q; use %q", ch, string(ch)+string(ch))
			}
			if ch == '&' {
				emit(tokenAnd, "&&")
			} else {
				emit(tokenOr, "||")
			}
			i += 2
		case ch == '"' || ch == '\'':
			end := i + 1
			for end < len(input) && input[end] != ch {
				if input[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(input) {
				return nil, errors.New("script: unterminated string literal")
			}
			body := input[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(body, `"`, `\"`)
				body = strings.ReplaceAll(body, `\'`, `'`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("script: invalid string literal: %w", err)
			}
			emit(tokenString, value)
			i = end + 1
		default:
			start := i
			for i < len(input) && !isSpace(input[i]) && !isOperator(input[i]) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				emit(tokenBool, strings.ToLower(raw))
			case "null", "nil", "none":
				emit(tokenNull, "null")
			default:
				if _, err := strconv.ParseFloat(raw, 64); err == nil {
					emit(tokenNumber, raw)
				} else {
					emit(tokenRef, raw)
				}
			}
		}
	}
	return tokens, nil
}

type exprNode interface {
	eval(scope Scope) (bool, error)
}

type exprOr struct{ left, right exprNode }

func (n exprOr) eval(scope Scope) (bool, error) {
	ok, err := n.left.eval(scope)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(scope)
}

type exprAnd struct{ left, right exprNode }

func (n exprAnd) eval(scope Scope) (bool, error) {
	ok, err := n.left.eval(scope)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(scope)
}

type exprNot struct{ inner exprNode }

func (n exprNot) eval(scope Scope) (bool, error) {
	ok, err := n.inner.eval(scope)
	return !ok, err
}

// operand is either a reference into the scope or a literal value.
type operand struct {
	ref     string
	literal any
	isRef   bool
}

func (o operand) value(scope Scope) any {
	if !o.isRef {
		return o.literal
	}
	value, _ := scope.Lookup(o.ref)
	return value
}

type exprCompare struct {
	left  operand
	op    tokenKind
	right operand
}

func (n exprCompare) eval(scope Scope) (bool, error) {
	left := n.left.value(scope)
	right := n.right.value(scope)

	switch n.op {
	case tokenEq:
		return equal(left, right), nil
	case tokenNeq:
		return !equal(left, right), nil
	}

	l, lok := coerceNumber(left)
	r, rok := coerceNumber(right)
	if !lok || !rok {
		return false, nil
	}
	switch n.op {
	case tokenLt:
		return l < r, nil
	case tokenLte:
		return l <= r, nil
	case tokenGt:
		return l > r, nil
	case tokenGte:
		return l >= r, nil
	}
	return false, fmt.Errorf("script: unsupported operator")
}

type exprTruthy struct{ operand operand }

func (n exprTruthy) eval(scope Scope) (bool, error) {
	return truthy(n.operand.value(scope)), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("script: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("script: missing closing ')'")
		}
		return inner, nil
	}

	left, err := stream.operand()
	if err != nil {
		return nil, err
	}
	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte} {
		if stream.match(op) {
			right, err := stream.operand()
			if err != nil {
				return nil, err
			}
			return exprCompare{left: left, op: op, right: right}, nil
		}
	}
	return exprTruthy{operand: left}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) operand() (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("script: incomplete expression")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenRef:
		return operand{ref: tok.raw, isRef: true}, nil
	case tokenString:
		return operand{literal: tok.raw}, nil
	case tokenNumber:
		value, _ := strconv.ParseFloat(tok.raw, 64)
		return operand{literal: value}, nil
	case tokenBool:
		return operand{literal: tok.raw == "true"}, nil
	case tokenNull:
		return operand{}, nil
	default:
		return operand{}, fmt.Errorf("script: expected value, got %q", tok.raw)
	}
}

func equal(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if l, ok := coerceNumber(left); ok {
		if r, ok := coerceNumber(right); ok {
			return l == r
		}
	}
	if l, ok := left.(bool); ok {
		r, ok := coerceBool(right)
		return ok && l == r
	}
	if r, ok := right.(bool); ok {
		l, ok := coerceBool(left)
		return ok && l == r
	}
	return coerceString(left) == coerceString(right)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := coerceNumber(value); ok {
		return n != 0
	}
	return true
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return parsed, err == nil
	}
	return false, false
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}
