// Package query selects parts of a blueprint document with JSONPath.
package query

import (
	"fmt"

	"github.com/agentic-research/bpkit/internal/value"
	"github.com/ohler55/ojg/jp"
)

// Selector is a compiled JSONPath expression.
type Selector struct {
	text string
	expr jp.Expr
}

// Compile parses a JSONPath expression such as "$..entities[*].name".
func Compile(selector string) (*Selector, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return &Selector{text: selector, expr: x}, nil
}

func (s *Selector) String() string { return s.text }

// Query returns every node of root matched by the selector, in document
// order. Matched objects have their keys sorted, since the JSONPath engine
// works on plain maps.
func (s *Selector) Query(root *value.Value) ([]value.Value, error) {
	if root == nil {
		return nil, nil
	}
	results := s.expr.Get(root.Interface())

	matches := make([]value.Value, len(results))
	for i, r := range results {
		v, err := value.FromInterface(r)
		if err != nil {
			return nil, fmt.Errorf("match %d of '%s': %w", i, s.text, err)
		}
		matches[i] = v
	}
	return matches, nil
}

// Query compiles selector and runs it against root.
func Query(root *value.Value, selector string) ([]value.Value, error) {
	s, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return s.Query(root)
}
