package blueprint

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/agentic-research/bpkit/api"
	"github.com/agentic-research/bpkit/internal/value"
	"github.com/agentic-research/bpkit/internal/walk"
)

// railItem is the item every rail piece is built from.
const railItem = "rail"

// railWeights is the number of rail items consumed by each rail entity.
var railWeights = map[string]uint64{
	"curved-rail-a":      3,
	"curved-rail-b":      3,
	"half-diagonal-rail": 2,
	"straight-rail":      1,
}

// CountKey identifies one bucket of counted items.
type CountKey struct {
	Name    string
	Quality string
}

// Counts maps items to the number needed.
type Counts map[CountKey]uint64

// Add merges other into c.
func (c Counts) Add(other Counts) {
	for k, n := range other {
		c[k] += n
	}
}

// Total is the sum of all buckets.
func (c Counts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

// Sorted returns the buckets by descending count, then name and quality.
func (c Counts) Sorted() []api.EntityCount {
	rows := make([]api.EntityCount, 0, len(c))
	for k, n := range c {
		rows = append(rows, api.EntityCount{Name: k.Name, Quality: k.Quality, Count: n})
	}
	slices.SortFunc(rows, func(a, b api.EntityCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Quality, b.Quality)
	})
	return rows
}

// isEntityPath matches an element of a blueprint's entities array, either
// at the document root or inside a book.
func isEntityPath(path []string) bool {
	if !walk.HasSuffix(path, string(KindBlueprint), "entities", walk.Element) {
		return false
	}
	return len(path) == 3 || path[len(path)-4] == walk.Element
}

// Count returns the items needed to build every entity in the document.
// Books are counted recursively; planners hold no entities.
func Count(root *value.Value) (Counts, error) {
	if _, err := Classify(root); err != nil {
		return nil, err
	}

	counts := make(Counts)
	var err error
	walk.Walk(root, func(path []string, node *value.Value) walk.Action {
		if err != nil {
			return walk.Break
		}
		if !isEntityPath(path) {
			return walk.Enter
		}
		name, ok := node.Get("name").AsString()
		if !ok {
			err = fmt.Errorf("entity without a name: %s", node)
			return walk.Break
		}
		weight := uint64(1)
		if w, isRail := railWeights[name]; isRail {
			name, weight = railItem, w
		}
		quality, _ := node.Get("quality").AsString()
		counts[CountKey{Name: name, Quality: quality}] += weight
		return walk.Break
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
