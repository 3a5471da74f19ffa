package searcher

import (
	"othello/game"
	"othello/utils"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// minimax is the textbook search without pruning.
func minimax(b game.Board, p game.Player, ev game.Evaluator, depth int) int {
	if depth <= 0 || b.IsLeaf() {
		return utils.Clamp(ev.Evaluate(b, p, depth), MinValue+1, MaxValue-1)
	}
	moves := b.Moves(p)
	if len(moves) == 0 {
		return minimax(b, p.Opponent(), ev, depth-1)
	}
	best := minimax(moves[0].Board, p.Opponent(), ev, depth-1)
	for _, m := range moves[1:] {
		v := minimax(m.Board, p.Opponent(), ev, depth-1)
		if p == game.White {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

type position struct {
	board  game.Board
	player game.Player
}

// randomPositions plays random games and samples positions along the way.
func randomPositions(d game.Dims, n int, seed uint64) []position {
	rng := rand.New(rand.NewSource(seed))
	var out []position
	for len(out) < n {
		b, p := game.NewStartBoard(d), game.White
		for !b.IsLeaf() && len(out) < n {
			if rng.Intn(3) == 0 {
				out = append(out, position{b, p})
			}
			if moves := b.Moves(p); len(moves) > 0 {
				b = moves[rng.Intn(len(moves))].Board
			}
			p = p.Opponent()
		}
	}
	return out
}

func TestMinmax(t *testing.T) {
	evaluators := []game.Evaluator{game.Material{}, game.NewCorners(game.DefaultCornerValue), game.ScaledCorners{}}

	t.Run("pruning does not change the value", func(t *testing.T) {
		for _, d := range []game.Dims{game.MustDims(4, 4), game.MustDims(6, 4), game.MustDims(6, 6)} {
			for _, pos := range randomPositions(d, 12, 3) {
				for _, ev := range evaluators {
					for depth := 0; depth <= 4; depth++ {
						node := NewRoot(pos.board, pos.player, nil)

						got, err := node.Minmax(ev, depth)

						require.NoError(t, err)
						require.Equal(t, minimax(pos.board, pos.player, ev, depth), got,
							"%s at depth %d on\n%s", ev.Name(), depth, pos.board)
					}
				}
			}
		}
	})

	t.Run("repeated searches agree", func(t *testing.T) {
		node := NewRoot(game.NewStartBoard(game.Standard), game.White, nil)
		ev := game.NewCorners(game.DefaultCornerValue)

		first, err := node.Minmax(ev, 4)
		require.NoError(t, err)
		second, err := node.Minmax(ev, 4)
		require.NoError(t, err)

		require.Equal(t, first, second)
	})

	t.Run("a terminal node is evaluated directly", func(t *testing.T) {
		b := mustParse(t, game.MustDims(4, 4), `
			BBB.
			....
			....
			....`)
		node := NewRoot(b, game.White, nil)

		got, err := node.Minmax(game.Material{}, 5)

		require.NoError(t, err)
		require.Equal(t, -3, got)
	})

	t.Run("a pass costs one ply", func(t *testing.T) {
		b := mustParse(t, game.MustDims(4, 4), `
			BW..
			....
			....
			....`)
		node := NewRoot(b, game.White, nil)

		got, err := node.Minmax(game.Material{}, 2)

		require.NoError(t, err)
		require.Equal(t, -3, got, "White passes, then Black captures")
	})

	t.Run("evaluations are clamped inside the value range", func(t *testing.T) {
		node := NewRoot(game.NewStartBoard(game.Standard), game.White, nil)

		got, err := node.Minmax(game.NewCorners(1000), 0)
		require.NoError(t, err)
		require.Equal(t, 0, got)

		b := mustParse(t, game.MustDims(4, 4), `
			W..W
			.BW.
			.WB.
			W..W`)
		got, err = NewRoot(b, game.White, nil).Minmax(game.NewCorners(1000), 0)
		require.NoError(t, err)
		require.Equal(t, MaxValue-1, got)
	})
}

func TestBest(t *testing.T) {
	t.Run("returns every tied child", func(t *testing.T) {
		node := NewRoot(game.NewStartBoard(game.Standard), game.White, nil)

		v, err := node.Minmax(game.Material{}, 1)

		require.NoError(t, err)
		require.Equal(t, 3, v, "every opening flips one piece")
		require.Len(t, node.Best(), 4)
	})

	t.Run("returns only children with the optimal value", func(t *testing.T) {
		for _, pos := range randomPositions(game.MustDims(6, 6), 20, 11) {
			node := NewRoot(pos.board, pos.player, nil)
			v, err := node.Minmax(game.Material{}, 3)
			require.NoError(t, err)
			if node.IsLeaf() {
				require.Empty(t, node.Best())
				continue
			}

			best := node.Best()

			require.NotEmpty(t, best)
			children, err := node.Children()
			require.NoError(t, err)
			want := 0
			for _, c := range children {
				if minimax(c.Board(), c.Player(), game.Material{}, 2) == v {
					want++
				}
			}
			require.Len(t, best, want, "ties on\n%s", pos.board)
			for _, c := range best {
				require.Equal(t, v, minimax(c.Board(), c.Player(), game.Material{}, 2))
			}
		}
	})

	t.Run("is empty before a search", func(t *testing.T) {
		node := NewRoot(game.NewStartBoard(game.Standard), game.White, nil)
		_, err := node.Children()
		require.NoError(t, err)
		require.Empty(t, node.Best())
	})
}

func TestMinmaxParallel(t *testing.T) {
	for _, pos := range randomPositions(game.MustDims(6, 6), 15, 5) {
		ev := game.NewCorners(game.DefaultCornerValue)
		sequential, err := NewRoot(pos.board, pos.player, nil).Minmax(ev, 4)
		require.NoError(t, err)

		node := NewRoot(pos.board, pos.player, NewBudget(1<<20))
		parallel, err := node.MinmaxParallel(ev, 4, 4)

		require.NoError(t, err)
		require.Equal(t, sequential, parallel)
		if !node.IsLeaf() {
			require.NotEmpty(t, node.Best())
		}
	}
}

func TestSolveSmallBoard(t *testing.T) {
	if testing.Short() {
		t.Skip("full-depth search")
	}
	const depth = 18
	d := game.MustDims(4, 4)

	solve := func() int {
		node := NewRoot(game.NewStartBoard(d), game.White, nil)
		v, err := node.Minmax(game.Material{}, depth)
		require.NoError(t, err)
		return v
	}
	value := solve()
	require.Equal(t, value, solve(), "a full-depth search is deterministic")

	// following optimal moves ends on a board scoring the game value
	node := NewRoot(game.NewStartBoard(d), game.White, nil)
	for !node.IsLeaf() {
		v, err := node.Minmax(game.Material{}, depth)
		require.NoError(t, err)
		require.Equal(t, value, v, "the value is constant along optimal play")
		node = node.Best()[0]
	}
	require.Equal(t, value, node.Board().Score())
	require.Equal(t, utils.Sign(value), utils.Sign(node.Board().Score()))
}
