package blueprint

import (
	"fmt"

	"github.com/agentic-research/bpkit/internal/value"
	"github.com/agentic-research/bpkit/internal/walk"
)

// UpgradeQuality raises by one rung the quality of every signal, filter and
// recipe configured on the entities of the document. The quality the
// entities themselves are placed with is unchanged. Qualities that are
// absent stay absent.
func UpgradeQuality(root *value.Value) error {
	if _, err := Classify(root); err != nil {
		return err
	}

	var err error
	walk.Walk(root, func(path []string, node *value.Value) walk.Action {
		if err != nil {
			return walk.Break
		}
		if !isEntityPath(path) {
			return walk.Enter
		}
		if uerr := upgradeEntity(node); uerr != nil {
			num, _ := node.Get("entity_number").AsNumber()
			err = fmt.Errorf("entity %s: %w", num, uerr)
		}
		return walk.Break
	})
	return err
}

func upgradeEntity(entity *value.Value) error {
	for _, cond := range []string{"circuit_condition", "logistic_condition"} {
		if err := upgradeThing(entity.Lookup("control_behavior", cond, "first_signal")); err != nil {
			return err
		}
	}
	if err := upgradeThing(entity.Get("filter")); err != nil {
		return err
	}
	for _, f := range entity.Get("filters").Items() {
		if err := upgradeThing(f); err != nil {
			return err
		}
	}
	if rq := entity.Get("recipe_quality"); rq != nil {
		if err := upgradeQualityValue(rq); err != nil {
			return fmt.Errorf("recipe_quality: %w", err)
		}
	}
	for _, section := range entity.Lookup("request_filters", "sections").Items() {
		for _, f := range section.Get("filters").Items() {
			if err := upgradeThing(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// upgradeThing upgrades the quality field of a signal or filter object.
func upgradeThing(thing *value.Value) error {
	q := thing.Get("quality")
	if q == nil {
		return nil
	}
	return upgradeQualityValue(q)
}

func upgradeQualityValue(q *value.Value) error {
	s, ok := q.AsString()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuality, q)
	}
	next, err := NextQuality(s)
	if err != nil {
		return err
	}
	*q = value.NewString(next)
	return nil
}
