package gamemaster

import (
	"errors"
	"fmt"
	"othello/game"
	"othello/meta"
	"time"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings is everything a session needs, fixed before the first board is
// built. Per-player fields are indexed by game.Player.
type Settings struct {
	Width, Height int
	Depth         [2]int
	Evaluator     [2]string
	Human         [2]bool
	Games         int
	Delay         time.Duration // pause after each computer move
	Seed          uint64        // 0 picks a random seed
	Goroutines    int
	NodeLimit     int
	Color         bool
	Remote        string // analysis server used by computer players instead of a local search
}

func DefaultSettings() Settings {
	return Settings{
		Width:      meta.WIDTH,
		Height:     meta.HEIGHT,
		Depth:      [2]int{meta.DEPTH, meta.DEPTH},
		Evaluator:  [2]string{meta.EVALUATOR, meta.EVALUATOR},
		Games:      meta.NUM_GAMES,
		Delay:      meta.COMPUTER_DELAY * time.Millisecond,
		Goroutines: 1,
		NodeLimit:  meta.NODE_LIMIT,
	}
}

func (s Settings) Validate() error {
	if _, err := game.NewDims(s.Width, s.Height); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	for _, p := range game.Players {
		if s.Depth[p] < 0 || s.Depth[p] > meta.MAX_DEPTH {
			return fmt.Errorf("%w: depth for %s must be between 0 and %d", ErrInvalidSettings, p, meta.MAX_DEPTH)
		}
		if _, err := game.EvaluatorByName(s.Evaluator[p]); err != nil {
			return fmt.Errorf("%w: evaluator for %s: %w", ErrInvalidSettings, p, err)
		}
	}
	if s.Games < 1 {
		return fmt.Errorf("%w: need at least one game", ErrInvalidSettings)
	}
	if s.Delay < 0 || s.Goroutines < 1 || s.NodeLimit < 0 {
		return fmt.Errorf("%w: delay, goroutines and node limit must not be negative", ErrInvalidSettings)
	}
	return nil
}

// Evaluators resolves the evaluator names. Settings must be valid.
func (s Settings) Evaluators() game.Table {
	var table game.Table
	for _, p := range game.Players {
		ev, err := game.EvaluatorByName(s.Evaluator[p])
		if err != nil {
			panic(err)
		}
		table[p] = ev
	}
	return table
}
