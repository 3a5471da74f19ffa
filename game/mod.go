package game

import (
	"errors"
	"strings"
)

// Player is the side to move. White moves first from the starting position.
type Player uint8

const (
	Black Player = 0
	White Player = 1
)

// Players lists both sides in index order, so Players[p] == p.
var Players = [2]Player{Black, White}

// Opponent toggles the player.
func (p Player) Opponent() Player {
	return p ^ 1
}

func (p Player) String() string {
	if p == White {
		return "WHITE"
	}
	return "BLACK"
}

// ParsePlayer accepts "white"/"black" in any case, or "w"/"b".
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return Black, errors.New("unknown player " + s)
}

// Evaluator scores a position without further search. Higher values favor
// White, lower values favor Black. Implementations must be pure.
type Evaluator interface {
	Evaluate(b Board, player Player, depth int) int
	// Name identifies the evaluator and its parameters, e.g. "corners(8)".
	Name() string
}

// Table holds one evaluator per player, indexed by Player.
type Table [2]Evaluator

func (t Table) For(p Player) Evaluator {
	return t[p]
}

var (
	ErrInvalidDims   = errors.New("board width and height must be even and between 4 and 8")
	ErrSetupLocked   = errors.New("board size cannot change after boards were created")
	ErrUnknownEval   = errors.New("unknown evaluator")
	ErrIllegalMove   = errors.New("illegal move")
	ErrMalformedGrid = errors.New("malformed board grid")
)
