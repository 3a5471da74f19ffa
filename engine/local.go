package engine

import (
	"context"
	"fmt"
	"othello/agent"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type LocalEngine struct {
	Tree      *searcher.Tree
	Agents    [2]agent.Agent
	Delays    [2]time.Duration // pause after each move of the player
	Observers []Observer
}

// NewLocalEngine starts a game on b with first to move. agents is indexed by
// game.Player.
func NewLocalEngine(b game.Board, first game.Player, agents [2]agent.Agent, nodeLimit int, observers ...Observer) *LocalEngine {
	if agents[game.Black] == nil || agents[game.White] == nil {
		panic("need an agent for each player")
	}
	return &LocalEngine{
		Tree:      searcher.NewTree(b, first, nodeLimit),
		Agents:    agents,
		Observers: observers,
	}
}

// Run executes the entire game loop until neither player can move.
func (e *LocalEngine) Run(ctx context.Context) (Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		ID:             uuid.New(),
		StartingPlayer: e.Tree.Root().Player().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Str("game", gameMetric.ID.String()).Msgf("%s is starting", gameMetric.StartingPlayer)

	step := 1
	for !e.Tree.Root().IsLeaf() {
		if err := ctx.Err(); err != nil {
			return Result{}, gameMetric, moveMetrics, err
		}

		player := e.Tree.Root().Player()
		child, searchMetric, err := e.Agents[player].FindMove(ctx, e.Tree)
		if err != nil {
			return Result{}, gameMetric, moveMetrics, fmt.Errorf("failed to find move %d for %s: %w", step, player, err)
		}
		if err := e.Tree.Advance(child); err != nil {
			return Result{}, gameMetric, moveMetrics, fmt.Errorf("agent for %s returned a foreign node: %w", player, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			X:            child.X(),
			Y:            child.Y(),
			SearchMetric: searchMetric,
		})
		u := Update{
			Step:   step,
			Player: player,
			X:      child.X(),
			Y:      child.Y(),
			Pass:   child.IsPass(),
			Board:  child.Board(),
		}
		for _, o := range e.Observers {
			o.OnMove(u)
		}
		step++

		if d := e.Delays[player]; d > 0 {
			select {
			case <-ctx.Done():
				return Result{}, gameMetric, moveMetrics, ctx.Err()
			case <-time.After(d):
			}
		}
	}

	b := e.Tree.Root().Board()
	result := Result{Board: b, Outcome: b.Outcome(), Score: b.Score()}
	for _, o := range e.Observers {
		o.OnEnd(result)
	}

	gameMetric.Winner = result.Outcome.String()
	gameMetric.Score = result.Score
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step - 1

	log.Debug().Str("game", gameMetric.ID.String()).Str("winner", gameMetric.Winner).Int("score", result.Score).Msg("game over")
	return result, gameMetric, moveMetrics, nil
}
