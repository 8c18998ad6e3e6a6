// Package walk traverses a value.Value depth first.
package walk

import "github.com/agentic-research/bpkit/internal/value"

// Action tells Walk whether to descend into the node just visited.
type Action int

const (
	// Enter visits the node's children.
	Enter Action = iota
	// Break skips the node's subtree. Siblings are still visited.
	Break
)

// Element is the path segment contributed by an array element.
const Element = "[]"

// VisitFunc is called once per node. path holds the keys and Element
// markers from the root to node; it is only valid during the call.
type VisitFunc func(path []string, node *value.Value) Action

// Walk visits root and its descendants in pre-order. Children are read
// after visit returns, so rewrites made by visit are traversed.
func Walk(root *value.Value, visit VisitFunc) {
	path := make([]string, 0, 16)
	walk(path, root, visit)
}

func walk(path []string, node *value.Value, visit VisitFunc) {
	if visit(path, node) == Break {
		return
	}
	switch node.Kind() {
	case value.KindObject:
		for key, child := range node.Fields() {
			walk(append(path, key), child, visit)
		}
	case value.KindArray:
		for _, child := range node.Items() {
			walk(append(path, Element), child, visit)
		}
	}
}

// HasSuffix reports whether path ends with the given segments.
func HasSuffix(path []string, suffix ...string) bool {
	if len(suffix) > len(path) {
		return false
	}
	off := len(path) - len(suffix)
	for i, s := range suffix {
		if path[off+i] != s {
			return false
		}
	}
	return true
}
