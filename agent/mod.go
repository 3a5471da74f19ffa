package agent

import (
	"context"
	"errors"
	"othello/experiments/metrics"
	"othello/searcher"
)

var ErrNoInput = errors.New("no more input")

type Agent interface {
	// FindMove returns the chosen child of the tree's root and the metrics of the search, if any
	FindMove(ctx context.Context, tree *searcher.Tree) (*searcher.Node, metrics.SearchMetric, error)
}
