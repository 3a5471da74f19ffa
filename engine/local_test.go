package engine

import (
	"context"
	"othello/agent"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type recorder struct {
	updates []Update
	results []Result
}

func (r *recorder) OnMove(u Update) { r.updates = append(r.updates, u) }
func (r *recorder) OnEnd(res Result) { r.results = append(r.results, res) }

func computer(depth int, seed uint64) agent.Agent {
	return agent.NewComputerAgent(searcher.NewSearcher(
		searcher.WithDepth(game.White, depth),
		searcher.WithDepth(game.Black, depth),
		searcher.WithRand(rand.New(rand.NewSource(seed))),
	))
}

type stubborn struct{}

func (stubborn) FindMove(_ context.Context, tree *searcher.Tree) (*searcher.Node, metrics.SearchMetric, error) {
	return searcher.NewRoot(tree.Root().Board(), tree.Root().Player(), nil), metrics.SearchMetric{}, nil
}

func TestLocalEngine(t *testing.T) {
	t.Run("plays a game to the end", func(t *testing.T) {
		rec := &recorder{}
		e := NewLocalEngine(game.NewStartBoard(game.MustDims(6, 6)), game.White,
			[2]agent.Agent{computer(1, 1), computer(2, 2)}, 0, rec)

		result, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, result.Board.IsLeaf())
		require.Equal(t, result.Board.Score(), result.Score)
		require.Equal(t, result.Outcome.String(), gameMetric.Winner)
		require.Equal(t, "WHITE", gameMetric.StartingPlayer)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		require.Len(t, rec.updates, gameMetric.TotalMoves)
		require.Equal(t, []Result{result}, rec.results)
		require.Equal(t, game.White, rec.updates[0].Player, "White moves first")
		for i, u := range rec.updates {
			require.Equal(t, i+1, u.Step)
			require.Equal(t, u.Pass, u.X < 0)
		}
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewLocalEngine(game.NewStartBoard(game.Standard), game.White,
			[2]agent.Agent{computer(1, 1), computer(1, 2)}, 0)

		_, _, _, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects moves that are not children of the root", func(t *testing.T) {
		e := NewLocalEngine(game.NewStartBoard(game.Standard), game.White,
			[2]agent.Agent{stubborn{}, stubborn{}}, 0)

		_, _, _, err := e.Run(context.Background())

		require.ErrorIs(t, err, searcher.ErrNotChild)
	})

	t.Run("needs both agents", func(t *testing.T) {
		require.Panics(t, func() {
			NewLocalEngine(game.NewStartBoard(game.Standard), game.White, [2]agent.Agent{computer(1, 1)}, 0)
		})
	})
}
