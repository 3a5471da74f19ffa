package searcher

import (
	"errors"
	"math"
)

// Search values fit a signed byte. Evaluations are clamped to the open
// interval so the bounds can serve as "no value" sentinels.
const (
	MinValue = math.MinInt8
	MaxValue = math.MaxInt8
)

var (
	ErrExpansionIncomplete = errors.New("expansion incomplete: node budget exhausted")
	ErrNotChild            = errors.New("node is not a child of the root")
	ErrNoMoves             = errors.New("no moves from a terminal position")
)
