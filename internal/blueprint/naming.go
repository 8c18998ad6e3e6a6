package blueprint

import (
	"strings"

	"github.com/agentic-research/bpkit/internal/value"
)

const (
	// Untitled names entries nothing else could name.
	Untitled = "Untitled"

	// maxNameTags bounds the tags listed in a synthesized planner name.
	maxNameTags = 4

	ellipsis = "…"
)

// Name derives a human readable name for the entry. Strategies are tried
// in order and the first non-empty result wins: the label, the icon
// signals, then the planner filters or mappers. The result is not safe for
// use as a file name as is.
func (e Entry) Name() string {
	if label, ok := e.Label(); ok && label != "" {
		return label
	}
	if name := e.iconName(); name != "" {
		return name
	}
	switch e.Kind {
	case KindDeconstructionPlanner:
		if name := e.deconstructionName(); name != "" {
			return name
		}
	case KindUpgradePlanner:
		if name := e.upgradeName(); name != "" {
			return name
		}
	}
	return Untitled
}

// formatTag renders a rich text tag such as [item=rail,quality=rare].
// The default quality is left out.
func formatTag(typ string, thing *value.Value) (string, bool) {
	name, ok := thing.Get("name").AsString()
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.WriteString("[" + typ + "=" + name)
	if q, ok := thing.Get("quality").AsString(); ok && q != QualityNormal {
		b.WriteString(",quality=" + q)
	}
	b.WriteByte(']')
	return b.String(), true
}

func (e Entry) iconName() string {
	icons := e.Payload.Get("icons")
	if icons == nil {
		icons = e.Payload.Lookup("settings", "icons")
	}
	var tags []string
	for _, icon := range icons.Items() {
		if tag, ok := formatTag("icon", icon.Get("signal")); ok {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, " ")
}

func (e Entry) deconstructionName() string {
	settings := e.Payload.Get("settings")
	var tags []string
	for _, f := range settings.Get("entity_filters").Items() {
		if tag, ok := formatTag("entity", f); ok {
			tags = append(tags, tag)
		}
	}
	for _, f := range settings.Get("tile_filters").Items() {
		if tag, ok := formatTag("tile", f); ok {
			tags = append(tags, tag)
		}
	}
	return joinTruncated(tags)
}

func (e Entry) upgradeName() string {
	var tags []string
	seen := make(map[string]struct{})
	for _, m := range e.Payload.Lookup("settings", "mappers").Items() {
		to := m.Get("to")
		tag, ok := "", false
		if typ, isStr := to.Get("type").AsString(); isStr {
			tag, ok = formatTag(typ, to)
		} else {
			tag, ok = to.Get("name").AsString()
		}
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	name := joinTruncated(tags)
	if name == "" {
		return ""
	}
	return "Upgrade " + name
}

func joinTruncated(tags []string) string {
	if len(tags) <= maxNameTags {
		return strings.Join(tags, " ")
	}
	return strings.Join(tags[:maxNameTags], " ") + ellipsis
}
