package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Assignment writes either a literal value or the value found at From.
type Assignment struct {
	Path  string `yaml:"path" json:"path"`
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
	From  string `yaml:"from,omitempty" json:"from,omitempty"`
}

// Transfer copies the value at From to To.
type Transfer struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Result names what a function returns.
type Result struct {
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
	From  string `yaml:"from,omitempty" json:"from,omitempty"`
}

// Step is one action of a function. Exactly one action field is set; Then
// and Else belong to If.
type Step struct {
	Set    *Assignment `yaml:"set,omitempty" json:"set,omitempty"`
	Copy   *Transfer   `yaml:"copy,omitempty" json:"copy,omitempty"`
	If     string      `yaml:"if,omitempty" json:"if,omitempty"`
	Then   []Step      `yaml:"then,omitempty" json:"then,omitempty"`
	Else   []Step      `yaml:"else,omitempty" json:"else,omitempty"`
	Call   string      `yaml:"call,omitempty" json:"call,omitempty"`
	Alert  string      `yaml:"alert,omitempty" json:"alert,omitempty"`
	Fail   string      `yaml:"fail,omitempty" json:"fail,omitempty"`
	Return *Result     `yaml:"return,omitempty" json:"return,omitempty"`

	cond *Condition
}

// Program is a parsed script source.
type Program struct {
	functions map[string][]Step
}

// Parse reads a YAML or JSON script source and validates every step.
func Parse(source string) (*Program, error) {
	program := &Program{functions: make(map[string][]Step)}
	if strings.TrimSpace(source) == "" {
		return program, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(source)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&program.functions); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("script: parse: %w", err)
	}

	for name, steps := range program.functions {
		if strings.TrimSpace(name) == "" {
			return nil, errors.New("script: function with empty name")
		}
		if err := prepare(name, steps); err != nil {
			return nil, err
		}
	}
	return program, nil
}

func prepare(function string, steps []Step) error {
	for idx := range steps {
		step := &steps[idx]
		if err := step.validate(); err != nil {
			return fmt.Errorf("script: %s step %d: %w", function, idx, err)
		}
		if step.If != "" {
			cond, err := CompileCondition(step.If)
			if err != nil {
				return fmt.Errorf("script: %s step %d: %w", function, idx, err)
			}
			step.cond = cond
			if err := prepare(function, step.Then); err != nil {
				return err
			}
			if err := prepare(function, step.Else); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Step) validate() error {
	actions := 0
	for _, set := range []bool{
		s.Set != nil, s.Copy != nil, s.If != "", s.Call != "",
		s.Alert != "", s.Fail != "", s.Return != nil,
	} {
		if set {
			actions++
		}
	}
	switch {
	case actions == 0:
		return errors.New("step has no action")
	case actions > 1:
		return errors.New("step has more than one action")
	case s.If == "" && (len(s.Then) > 0 || len(s.Else) > 0):
		return errors.New("then/else without if")
	case s.Set != nil && strings.TrimSpace(s.Set.Path) == "":
		return errors.New("set requires a path")
	case s.Copy != nil && (strings.TrimSpace(s.Copy.From) == "" || strings.TrimSpace(s.Copy.To) == ""):
		return errors.New("copy requires from and to")
	}
	return nil
}

// Has reports whether the program defines name.
func (p *Program) Has(name string) bool {
	_, ok := p.functions[name]
	return ok
}

// Functions returns the defined function names, sorted.
func (p *Program) Functions() []string {
	names := make([]string, 0, len(p.functions))
	for name := range p.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
