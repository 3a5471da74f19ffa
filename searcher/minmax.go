package searcher

import (
	"fmt"
	"othello/game"
	"othello/utils"
	"sync/atomic"
)

var stamps atomic.Uint64

func nextStamp() uint64 {
	return stamps.Add(1)
}

// counter tracks the work of one search goroutine.
type counter struct {
	nodes   int
	cutoffs int
}

// Minmax searches depth plies below n with alpha-beta pruning and returns the
// minimax value. White maximizes, Black minimizes. ev scores the frontier
// for both sides.
//
// The values of n and its children are cached so Best can report every child
// achieving the optimum. A later search overwrites them.
func (n *Node) Minmax(ev game.Evaluator, depth int) (int, error) {
	return n.MinmaxWindow(ev, depth, MinValue, MaxValue)
}

// MinmaxWindow is Minmax with an initial (alpha, beta) window. A value
// outside the window is a bound on the true value.
func (n *Node) MinmaxWindow(ev game.Evaluator, depth, alpha, beta int) (int, error) {
	var c counter
	return n.search(ev, depth, alpha, beta, nextStamp(), true, &c)
}

func (n *Node) search(ev game.Evaluator, depth, alpha, beta int, stamp uint64, top bool, c *counter) (int, error) {
	c.nodes++
	n.stamp = stamp

	if depth <= 0 {
		return n.evaluate(ev, depth), nil
	}
	children, err := n.Children()
	if err != nil {
		return 0, err
	}
	if len(children) == 0 {
		return n.evaluate(ev, depth), nil
	}

	lo, hi := alpha, beta
	var best int
	if n.player == game.White {
		best = MinValue
		for _, child := range children {
			v, err := child.search(ev, depth-1, lo, hi, stamp, false, c)
			if err != nil {
				return 0, err
			}
			best = max(best, v)
			// at the top, ties with best are searched exactly as well
			if top {
				lo = max(lo, best-1)
			} else {
				lo = max(lo, best)
			}
			if hi <= lo {
				c.cutoffs++
				break
			}
		}
	} else {
		best = MaxValue
		for _, child := range children {
			v, err := child.search(ev, depth-1, lo, hi, stamp, false, c)
			if err != nil {
				return 0, err
			}
			best = min(best, v)
			if top {
				hi = min(hi, best+1)
			} else {
				hi = min(hi, best)
			}
			if hi <= lo {
				c.cutoffs++
				break
			}
		}
	}

	if best == MinValue || best == MaxValue {
		panic(fmt.Sprintf("minmax found no value below a node with %d children", len(children)))
	}
	n.value = best
	n.exact = alpha < best && best < beta
	return best, nil
}

func (n *Node) evaluate(ev game.Evaluator, depth int) int {
	v := utils.Clamp(ev.Evaluate(n.board, n.player, depth), MinValue+1, MaxValue-1)
	n.value = v
	n.exact = true
	return v
}
