package client

import (
	"context"
	"errors"
	"fmt"
	"othello/agent"
	"othello/communication"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"time"

	"golang.org/x/exp/rand"
)

type remoteAgent struct {
	client     *Client
	depth      [2]int
	evaluators [2]string
	rng        *rand.Rand
}

// NewRemoteAgent returns an agent that asks the analysis server for the best
// moves and plays one of them at random.
func NewRemoteAgent(c *Client, depth [2]int, evaluators [2]string, rng *rand.Rand) agent.Agent {
	return &remoteAgent{client: c, depth: depth, evaluators: evaluators, rng: rng}
}

func (a *remoteAgent) FindMove(ctx context.Context, tree *searcher.Tree) (*searcher.Node, metrics.SearchMetric, error) {
	root := tree.Root()
	children, err := root.Children()
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	if len(children) == 0 {
		return nil, metrics.SearchMetric{}, searcher.ErrNoMoves
	}
	if children[0].IsPass() {
		return children[0], metrics.SearchMetric{}, nil
	}

	b, p := root.Board(), root.Player()
	start := time.Now()
	res, err := a.client.Analyze(ctx, communication.AnalysisRequest{
		Width:     b.Dims().Width(),
		Height:    b.Dims().Height(),
		Board:     b.Grid(),
		Player:    p.String(),
		Depth:     a.depth[p],
		Evaluator: a.evaluators[p],
	})
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	metric := metrics.SearchMetric{
		Goroutines: 1,
		Depth:      a.depth[p],
		Evaluator:  a.evaluators[p],
		Duration:   time.Since(start),
		Value:      res.Value,
	}

	candidates := res.Best
	if len(candidates) == 0 { // depth 0
		candidates = res.Moves
	}
	if len(candidates) == 0 {
		return nil, metric, errors.New("analysis server returned no moves")
	}
	move := candidates[a.rng.Intn(len(candidates))]
	child, ok := root.Child(move[0], move[1])
	if !ok {
		return nil, metric, fmt.Errorf("server suggested (%d, %d) for %s: %w", move[0], move[1], p, game.ErrIllegalMove)
	}
	return child, metric, nil
}
