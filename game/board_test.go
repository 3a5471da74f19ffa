package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type coord struct{ x, y int }

func coords(moves []Move) []coord {
	out := make([]coord, len(moves))
	for i, m := range moves {
		out[i] = coord{m.X, m.Y}
	}
	return out
}

func mustParse(t *testing.T, d Dims, grid string) Board {
	t.Helper()
	b, err := ParseBoard(d, grid)
	require.NoError(t, err)
	return b
}

func TestStartBoard(t *testing.T) {
	t.Run("standard layout", func(t *testing.T) {
		b := NewStartBoard(Standard)

		require.Equal(t, 4, b.NumTiles())
		require.Equal(t, 0, b.Score())
		require.True(t, b.IsBlack(3, 3))
		require.True(t, b.IsBlack(4, 4))
		require.True(t, b.IsWhite(4, 3))
		require.True(t, b.IsWhite(3, 4))
		require.False(t, b.IsFilled(0, 0))
	})

	t.Run("white has exactly four opening moves", func(t *testing.T) {
		b := NewStartBoard(Standard)

		moves := b.Moves(White)

		require.ElementsMatch(t, []coord{{2, 3}, {3, 2}, {4, 5}, {5, 4}}, coords(moves))
	})

	t.Run("black has four opening moves too", func(t *testing.T) {
		require.Len(t, NewStartBoard(Standard).Moves(Black), 4)
	})

	t.Run("small boards center the layout", func(t *testing.T) {
		b := NewStartBoard(MustDims(4, 6))

		require.True(t, b.IsBlack(1, 2))
		require.True(t, b.IsBlack(2, 3))
		require.True(t, b.IsWhite(2, 2))
		require.True(t, b.IsWhite(1, 3))
		require.Len(t, b.Moves(White), 4)
	})
}

func TestPlay(t *testing.T) {
	d := MustDims(4, 4)

	t.Run("flips the captured run", func(t *testing.T) {
		b := mustParse(t, d, `
			....
			.WB.
			....
			....`)

		next, ok := b.Play(White, 3, 1)

		require.True(t, ok)
		require.True(t, next.IsWhite(2, 1), "The black piece should flip")
		require.True(t, next.IsWhite(3, 1), "The placed piece should be white")
		require.Equal(t, 3, next.Score())
		require.False(t, b.IsWhite(2, 1), "The parent board should not change")
	})

	t.Run("own color right next to the square does not capture", func(t *testing.T) {
		b := mustParse(t, d, `
			....
			.WB.
			....
			....`)

		_, ok := b.Play(White, 0, 1)

		require.False(t, ok)
	})

	t.Run("a run that leaves the board does not capture", func(t *testing.T) {
		b := mustParse(t, d, `
			BB..
			....
			....
			...W`)

		_, ok := b.Play(White, 2, 0)

		require.False(t, ok)
	})

	t.Run("a run that ends on an empty square does not capture", func(t *testing.T) {
		b := mustParse(t, d, `
			.BB.
			....
			....
			....`)

		_, ok := b.Play(White, 3, 0)

		require.False(t, ok)
	})

	t.Run("captures along several rays at once", func(t *testing.T) {
		b := mustParse(t, d, `
			W.W.
			BB..
			.BW.
			....`)

		next, ok := b.Play(White, 0, 2)

		require.True(t, ok)
		require.True(t, next.IsWhite(0, 1), "North ray should flip")
		require.True(t, next.IsWhite(1, 1), "North-east ray should flip")
		require.True(t, next.IsWhite(1, 2), "East ray should flip")
	})

	t.Run("rejects taken and off-board squares", func(t *testing.T) {
		b := NewStartBoard(d)

		_, ok := b.Play(White, 1, 1)
		require.False(t, ok, "Occupied square")
		_, ok = b.Play(White, -1, 0)
		require.False(t, ok, "Off the board")
		_, ok = b.Play(White, 4, 0)
		require.False(t, ok, "Off the board")
	})
}

func TestTerminal(t *testing.T) {
	d := MustDims(4, 4)

	t.Run("one player blocked is not terminal", func(t *testing.T) {
		b := mustParse(t, d, `
			BW..
			....
			....
			....`)

		require.False(t, b.HasLegalMove(White))
		require.True(t, b.HasLegalMove(Black))
		require.False(t, b.IsLeaf())
	})

	t.Run("both blocked is terminal with empty squares left", func(t *testing.T) {
		b := mustParse(t, d, `
			BW..
			....
			....
			....`)

		next, ok := b.Play(Black, 2, 0)

		require.True(t, ok)
		require.True(t, next.IsLeaf())
		require.Equal(t, 13, next.NumEmpty())
		require.Equal(t, BlackWins, next.Outcome())
	})
}

func TestParseBoard(t *testing.T) {
	d := MustDims(4, 4)

	t.Run("round trips through String", func(t *testing.T) {
		b := NewStartBoard(d)
		require.Equal(t, " 0123\n0....0\n1.BW.1\n2.WB.2\n3....3\n 0123\n", b.String())
	})

	t.Run("rejects malformed grids", func(t *testing.T) {
		for _, grid := range []string{"....\n....", "....\n....\n....\n...", "....\n.X..\n....\n...."} {
			_, err := ParseBoard(d, grid)
			require.ErrorIs(t, err, ErrMalformedGrid, "grid %q", grid)
		}
	})
}

func TestFromBits(t *testing.T) {
	d := MustDims(4, 4)

	t.Run("builds a valid board", func(t *testing.T) {
		b := FromBits(d, 0b11, 0b01)
		require.True(t, b.IsWhite(0, 0))
		require.True(t, b.IsBlack(1, 0))
	})

	t.Run("panics when white is not a subset of occupied", func(t *testing.T) {
		require.Panics(t, func() { FromBits(d, 0b01, 0b10) })
	})

	t.Run("panics on squares outside the board", func(t *testing.T) {
		require.Panics(t, func() { FromBits(d, 1<<20, 0) })
	})
}

// checkInvariants asserts every property a reachable board must satisfy.
func checkInvariants(t *testing.T, b Board) {
	t.Helper()
	require.Zero(t, b.White()&^b.Occupied(), "white must be a subset of occupied")
	require.Zero(t, b.Occupied()&^b.dims.mask(), "no squares outside the board")
	require.Equal(t, b.Occupied().Count(), b.NumTiles())
	require.Equal(t, b.Count(White)-b.Count(Black), b.Score())
	require.Equal(t, b.dims.Area(), b.NumTiles()+b.NumEmpty())
}

// checkMoves asserts that every generated move places one piece on an empty
// square and flips only unbroken opponent runs that touch it.
func checkMoves(t *testing.T, b Board, p Player) {
	t.Helper()
	moves := b.Moves(p)
	require.Equal(t, len(moves) > 0, b.HasLegalMove(p), "HasLegalMove must agree with Moves")

	for _, m := range moves {
		require.False(t, b.IsFilled(m.X, m.Y), "destination must be empty")
		require.Equal(t, b.NumTiles()+1, m.Board.NumTiles())

		flipped := b.colored(p.Opponent()) & m.Board.colored(p)
		require.NotZero(t, flipped, "a legal move flips at least one piece")
		require.Equal(t, b.colored(p)|flipped|Bits(0).Set(b.dims, m.X, m.Y), m.Board.colored(p),
			"only the placed and flipped squares change color")

		for y := 0; y < b.dims.Height(); y++ {
			for x := 0; x < b.dims.Width(); x++ {
				if !flipped.Get(b.dims, x, y) {
					continue
				}
				dx, dy := x-m.X, y-m.Y
				require.True(t, dx == 0 || dy == 0 || dx == dy || dx == -dy, "(%d, %d) is not on a ray from (%d, %d)", x, y, m.X, m.Y)
				sx, sy := sign(dx), sign(dy)
				for cx, cy := m.X+sx, m.Y+sy; cx != x || cy != y; cx, cy = cx+sx, cy+sy {
					require.True(t, flipped.Get(b.dims, cx, cy), "run from (%d, %d) to (%d, %d) is broken", m.X, m.Y, x, y)
				}
			}
		}

		replayed, ok := b.Play(p, m.X, m.Y)
		require.True(t, ok)
		require.True(t, replayed.Equal(m.Board), "Play and Moves must agree")
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func TestRandomGames(t *testing.T) {
	sizes := []Dims{MustDims(4, 4), MustDims(4, 6), MustDims(6, 4), MustDims(6, 6), Standard}
	rng := rand.New(rand.NewSource(42))

	for _, d := range sizes {
		t.Run(d.String(), func(t *testing.T) {
			for game := 0; game < 5; game++ {
				b := NewStartBoard(d)
				p := White
				for !b.IsLeaf() {
					checkInvariants(t, b)
					checkMoves(t, b, White)
					checkMoves(t, b, Black)

					moves := b.Moves(p)
					if len(moves) > 0 {
						b = moves[rng.Intn(len(moves))].Board
					}
					p = p.Opponent()
				}
				checkInvariants(t, b)
				require.False(t, b.HasLegalMove(White))
				require.False(t, b.HasLegalMove(Black))
			}
		})
	}
}

func TestSameMovesSameBoard(t *testing.T) {
	line := []coord{{3, 2}, {2, 2}, {2, 3}, {4, 2}}

	replay := func() Board {
		b := NewStartBoard(Standard)
		p := White
		for _, s := range line {
			var ok bool
			b, ok = b.Play(p, s.x, s.y)
			require.True(t, ok, "(%d, %d) should be legal", s.x, s.y)
			p = p.Opponent()
		}
		return b
	}

	first, second := replay(), replay()
	require.True(t, first.Equal(second))
	require.Equal(t, first.Occupied(), second.Occupied())
	require.Equal(t, first.White(), second.White())
}
