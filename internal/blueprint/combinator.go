package blueprint

import (
	_ "embed"
	"fmt"

	"github.com/agentic-research/bpkit/api"
	"github.com/agentic-research/bpkit/internal/value"
)

//go:embed templates/constant_combinator.json
var constantCombinatorTemplate string

// ConstantCombinator builds a blueprint of a single constant combinator
// whose filters hold one item signal per row, in row order.
func ConstantCombinator(rows []api.EntityCount) (value.Value, error) {
	doc, err := value.Parse(constantCombinatorTemplate)
	if err != nil {
		return value.Value{}, fmt.Errorf("constant combinator template: %w", err)
	}

	filters := value.NewArray()
	for i, row := range rows {
		signal := value.NewObject()
		signal.Set("type", value.NewString("item"))
		signal.Set("name", value.NewString(row.Name))
		if row.Quality != "" {
			signal.Set("quality", value.NewString(row.Quality))
		}

		filter := value.NewObject()
		filter.Set("index", value.NewInt(int64(i+1)))
		filter.Set("count", value.NewUint(row.Count))
		filter.Set("signal", signal)
		filters.Append(filter)
	}

	behavior := doc.Lookup("blueprint", "entities").Index(0).Get("control_behavior")
	if behavior == nil {
		return value.Value{}, fmt.Errorf("constant combinator template has no control_behavior")
	}
	behavior.Set("filters", filters)
	return doc, nil
}
