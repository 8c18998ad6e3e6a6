// Package blueprint interprets decoded blueprint documents: it classifies
// entries by kind, derives their display names and implements the
// document rewrites offered by the CLI.
package blueprint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/bpkit/internal/value"
)

// Kind is the top-level key that identifies an entry's type.
type Kind string

const (
	KindBlueprint             Kind = "blueprint"
	KindBook                  Kind = "blueprint_book"
	KindUpgradePlanner        Kind = "upgrade_planner"
	KindDeconstructionPlanner Kind = "deconstruction_planner"
)

// Kinds lists every entry kind in lookup order.
var Kinds = []Kind{KindBlueprint, KindBook, KindUpgradePlanner, KindDeconstructionPlanner}

var (
	// ErrNotEntry is returned for documents that carry no kind key or
	// whose payload is not an object.
	ErrNotEntry = errors.New("not a blueprint entry")

	// ErrAmbiguousKind is returned when a document carries more than one
	// kind key.
	ErrAmbiguousKind = errors.New("blueprint entry has several kinds")
)

// Entry is a classified blueprint document. Root is the object holding
// the kind key (and, inside a book, the entry's index); Payload is the
// object stored under the kind key. Both point into the caller's tree.
type Entry struct {
	Kind    Kind
	Root    *value.Value
	Payload *value.Value
}

// Classify determines the kind of the entry rooted at root.
func Classify(root *value.Value) (Entry, error) {
	if root.Kind() != value.KindObject {
		return Entry{}, fmt.Errorf("%w: document is %s, not an object", ErrNotEntry, root.Kind())
	}

	var found []Kind
	for _, k := range Kinds {
		if root.Get(string(k)) != nil {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("%w: keys [%s]", ErrNotEntry, strings.Join(root.Keys(), ", "))
	case 1:
	default:
		return Entry{}, fmt.Errorf("%w: %v", ErrAmbiguousKind, found)
	}

	payload := root.Get(string(found[0]))
	if payload.Kind() != value.KindObject {
		return Entry{}, fmt.Errorf("%w: %s payload is %s", ErrNotEntry, found[0], payload.Kind())
	}
	return Entry{Kind: found[0], Root: root, Payload: payload}, nil
}

// Label returns the payload's label when it is a string.
func (e Entry) Label() (string, bool) {
	return e.Payload.Get("label").AsString()
}

// Index returns the entry's top-level index field, or nil.
func (e Entry) Index() *value.Value {
	return e.Root.Get("index")
}

// Children returns the book's blueprints array, or nil for other kinds
// and books without one.
func (e Entry) Children() *value.Value {
	if e.Kind != KindBook {
		return nil
	}
	children := e.Payload.Get("blueprints")
	if children == nil || children.Kind() != value.KindArray {
		return nil
	}
	return children
}

// SetTagInDescription writes "tag: val" into the payload's description.
// A line already starting with "tag:" is replaced; otherwise the tag is
// appended on a new line.
func (e Entry) SetTagInDescription(tag, val string) error {
	desc := e.Payload.Get("description")
	current := ""
	if desc != nil {
		s, ok := desc.AsString()
		if !ok {
			return fmt.Errorf("description is %s, not a string", desc.Kind())
		}
		current = s
	}
	e.Payload.Set("description", value.NewString(setTag(current, tag, val)))
	return nil
}

func setTag(desc, tag, val string) string {
	line := tag + ": " + val

	start := -1
	if strings.HasPrefix(desc, tag+":") {
		start = 0
	} else if i := strings.Index(desc, "\n"+tag+":"); i >= 0 {
		start = i + 1
	}

	if start < 0 {
		if desc == "" {
			return line
		}
		return desc + "\n" + line
	}

	rest := ""
	if end := strings.IndexByte(desc[start:], '\n'); end >= 0 {
		rest = desc[start+end:]
	}
	return desc[:start] + line + rest
}
