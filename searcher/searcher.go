package searcher

import (
	"fmt"
	"othello/experiments/metrics"
	"othello/game"
	"othello/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(s *Searcher)

// Searcher picks moves for either player. Each player has its own depth
// and evaluator.
type Searcher struct {
	depth      [2]int
	evaluators game.Table
	rng        *rand.Rand
	goroutines int
	metrics    metrics.Collector
}

func WithDepth(p game.Player, depth int) Option {
	return func(s *Searcher) {
		if depth >= 0 {
			s.depth[p] = depth
		}
	}
}

func WithEvaluator(p game.Player, ev game.Evaluator) Option {
	return func(s *Searcher) {
		if ev != nil {
			s.evaluators[p] = ev
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Searcher) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithParallel searches the subtrees of the root's children concurrently.
func WithParallel(goroutines int) Option {
	return func(s *Searcher) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

func NewSearcher(options ...Option) *Searcher {
	corners := game.NewCorners(game.DefaultCornerValue)
	s := &Searcher{ // Default values
		depth:      [2]int{meta.DEPTH, meta.DEPTH},
		evaluators: game.Table{corners, corners},
		rng:        rand.New(rand.NewSource(uint64(rand.Int63()))),
		goroutines: 1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Searcher) Depth(p game.Player) int               { return s.depth[p] }
func (s *Searcher) Evaluator(p game.Player) game.Evaluator { return s.evaluators[p] }

// FindMove searches below n with the settings of the player to move and
// returns one of the optimal children, chosen uniformly at random. At depth 0
// any child may be returned.
func (s *Searcher) FindMove(n *Node) (*Node, metrics.SearchMetric, error) {
	return s.FindMoveAt(n, s.depth[n.Player()])
}

// FindMoveAt is FindMove with an explicit depth.
func (s *Searcher) FindMoveAt(n *Node, depth int) (*Node, metrics.SearchMetric, error) {
	ev := s.evaluators.For(n.Player())
	s.metrics.Start(s.goroutines, depth, ev.Name())

	children, err := n.Children()
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("failed to expand root: %w", err)
	}
	if len(children) == 0 {
		return nil, metrics.SearchMetric{}, ErrNoMoves
	}
	if depth <= 0 {
		return children[s.rng.Intn(len(children))], s.metrics.Complete(0), nil
	}

	value, c, err := n.minmaxParallel(ev, depth, s.goroutines)
	s.metrics.AddNodes(c.nodes)
	s.metrics.AddCutoffs(c.cutoffs)
	if err != nil {
		return nil, s.metrics.Complete(0), fmt.Errorf("failed to search %d plies: %w", depth, err)
	}

	best := n.Best()
	if len(best) == 0 {
		panic("search found no child with the root's value")
	}
	choice := best[s.rng.Intn(len(best))]

	log.Debug().
		Str("player", n.Player().String()).
		Int("depth", depth).
		Str("evaluator", ev.Name()).
		Int("value", value).
		Int("ties", len(best)).
		Int("nodes", c.nodes).
		Msg("search complete")

	return choice, s.metrics.Complete(value), nil
}
