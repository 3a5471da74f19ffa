package agent

import (
	"context"
	"errors"
	"othello/experiments/metrics"
	"othello/searcher"

	"github.com/rs/zerolog/log"
)

type computerAgent struct {
	searcher *searcher.Searcher
}

// NewComputerAgent returns an agent that plays the moves found by s. When
// the tree runs out of nodes, the agent trims it and searches one ply
// shallower.
func NewComputerAgent(s *searcher.Searcher) Agent {
	return computerAgent{searcher: s}
}

func (a computerAgent) FindMove(ctx context.Context, tree *searcher.Tree) (*searcher.Node, metrics.SearchMetric, error) {
	root := tree.Root()
	depth := a.searcher.Depth(root.Player())
	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, metrics.SearchMetric{}, err
		}
		child, metric, err := a.searcher.FindMoveAt(root, depth)
		if err == nil {
			metric.Retries = retries
			return child, metric, nil
		}
		if !errors.Is(err, searcher.ErrExpansionIncomplete) || depth == 0 {
			return nil, metric, err
		}

		log.Warn().Err(err).Int("depth", depth).Int("live", tree.Live()).Msg("retrying search one ply shallower")
		tree.Trim()
		depth--
		retries++
	}
}
