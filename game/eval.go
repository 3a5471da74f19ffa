package game

import (
	"fmt"
	"math"
	"strings"
)

const DefaultCornerValue = 8 // how much more a corner is worth than any other flip

// Material values a position by its score.
type Material struct{}

func (Material) Evaluate(b Board, _ Player, _ int) int {
	return b.Score()
}

func (Material) Name() string { return "material" }

// Corners adds Value for every white corner and subtracts it for every black
// corner, on top of the score.
type Corners struct {
	Value int
}

func NewCorners(value int) Corners {
	return Corners{Value: value}
}

func (c Corners) Evaluate(b Board, _ Player, _ int) int {
	return b.Score() + cornerBalance(b)*c.Value
}

func (c Corners) Name() string { return fmt.Sprintf("corners(%d)", c.Value) }

// ScaledCorners grows the corner bonus with the number of tiles on the board:
// ceil(0.3 * (tiles - 20)), never below zero. It tends to favor White and is
// not the default.
type ScaledCorners struct{}

func (ScaledCorners) Evaluate(b Board, _ Player, _ int) int {
	bonus := int(math.Ceil(0.3 * float64(b.NumTiles()-20)))
	if bonus < 0 {
		bonus = 0
	}
	return b.Score() + cornerBalance(b)*bonus
}

func (ScaledCorners) Name() string { return "scaled-corners" }

// cornerBalance is white corners minus black corners.
func cornerBalance(b Board) int {
	balance := 0
	for _, c := range b.dims.Corners() {
		if !b.IsFilled(c[0], c[1]) {
			continue
		}
		if b.IsWhite(c[0], c[1]) {
			balance++
		} else {
			balance--
		}
	}
	return balance
}

// EvaluatorNames lists the names accepted by EvaluatorByName.
var EvaluatorNames = []string{"material", "corners", "scaled-corners"}

// EvaluatorByName resolves a command-line evaluator choice.
func EvaluatorByName(name string) (Evaluator, error) {
	switch strings.ToLower(name) {
	case "material", "simple":
		return Material{}, nil
	case "corners", "corner":
		return NewCorners(DefaultCornerValue), nil
	case "scaled-corners", "scaled":
		return ScaledCorners{}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownEval)
}
