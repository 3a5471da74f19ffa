package searcher

import (
	"othello/game"

	"golang.org/x/sync/errgroup"
)

// MinmaxParallel computes the same value as Minmax by searching the subtree
// of every child of n on its own goroutine, at most workers at a time.
// Children are expanded on the calling goroutine, so no node is touched by
// two goroutines. Subtrees share no window, so less is pruned.
func (n *Node) MinmaxParallel(ev game.Evaluator, depth, workers int) (int, error) {
	v, _, err := n.minmaxParallel(ev, depth, workers)
	return v, err
}

func (n *Node) minmaxParallel(ev game.Evaluator, depth, workers int) (int, counter, error) {
	stamp := nextStamp()
	var total counter

	if depth <= 0 || workers <= 1 {
		v, err := n.search(ev, depth, MinValue, MaxValue, stamp, true, &total)
		return v, total, err
	}
	children, err := n.Children()
	if err != nil {
		return 0, total, err
	}
	if len(children) == 0 {
		v, err := n.search(ev, depth, MinValue, MaxValue, stamp, true, &total)
		return v, total, err
	}

	n.stamp = stamp
	values := make([]int, len(children))
	counters := make([]counter, len(children))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, child := range children {
		g.Go(func() error {
			v, err := child.search(ev, depth-1, MinValue, MaxValue, stamp, false, &counters[i])
			values[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, total, err
	}

	best := values[0]
	for _, v := range values[1:] {
		if n.player == game.White {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	total.nodes = 1
	for _, c := range counters {
		total.nodes += c.nodes
		total.cutoffs += c.cutoffs
	}

	n.value = best
	n.exact = true
	return best, total, nil
}
