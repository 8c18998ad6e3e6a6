package api

// CountReport is the result of counting the entities of a blueprint or book.
// It is what `bpkit count --json` prints.
type CountReport struct {
	// Label of the counted entry, if it has one.
	Label string `json:"label,omitempty"`
	// Total number of items across all rows.
	Total uint64 `json:"total"`
	// Rows, ordered by count (descending), then name and quality.
	Rows []EntityCount `json:"rows"`
}

// EntityCount is the number of items needed to build one kind of entity.
type EntityCount struct {
	// Name of the item. Rail pieces are folded into "rail".
	Name string `json:"name"`
	// Quality of the placed entity. Empty when the entity carries none.
	Quality string `json:"quality,omitempty"`
	// Count of items.
	Count uint64 `json:"count"`
}
