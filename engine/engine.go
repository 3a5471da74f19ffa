package engine

import (
	"context"
	"othello/experiments/metrics"
	"othello/game"
)

// Update describes one committed move.
type Update struct {
	Step   int
	Player game.Player
	X, Y   int // -1 for a pass
	Pass   bool
	Board  game.Board
}

// Result is the final position of a game.
type Result struct {
	Board   game.Board
	Outcome game.Outcome
	Score   int
}

// Observer is told about every move and the end of the game. It runs on the
// engine's goroutine.
type Observer interface {
	OnMove(u Update)
	OnEnd(r Result)
}

type Engine interface {
	// Run plays a game till neither player can move
	Run(ctx context.Context) (Result, metrics.GameMetric, []metrics.MoveMetric, error)
}
