package blueprint

import (
	"errors"
	"fmt"
	"slices"
)

const (
	QualityNormal    = "normal"
	QualityUncommon  = "uncommon"
	QualityRare      = "rare"
	QualityEpic      = "epic"
	QualityLegendary = "legendary"
)

// ErrUnknownQuality is returned when a quality is not on the ladder.
var ErrUnknownQuality = errors.New("unknown quality")

var qualityLadder = []string{QualityNormal, QualityUncommon, QualityRare, QualityEpic, QualityLegendary}

// NextQuality returns the quality one rung above q. Legendary is the top
// rung and maps to itself.
func NextQuality(q string) (string, error) {
	i := slices.Index(qualityLadder, q)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuality, q)
	}
	return qualityLadder[min(i+1, len(qualityLadder)-1)], nil
}
