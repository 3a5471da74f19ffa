package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluators(t *testing.T) {
	d := MustDims(4, 4)
	cornered := func(t *testing.T) Board {
		return mustParse(t, d, `
			W..B
			.WB.
			.BW.
			W...`)
	}

	t.Run("material is the score", func(t *testing.T) {
		b := cornered(t)
		require.Equal(t, b.Score(), Material{}.Evaluate(b, White, 3))
		require.Equal(t, 1, Material{}.Evaluate(b, Black, 0))
	})

	t.Run("corners reward white corners and punish black ones", func(t *testing.T) {
		b := cornered(t)

		got := NewCorners(DefaultCornerValue).Evaluate(b, White, 0)

		// score 1, white holds two corners, black one
		require.Equal(t, 1+DefaultCornerValue, got)
	})

	t.Run("corners follow the board size", func(t *testing.T) {
		b := mustParse(t, MustDims(6, 4), `
			.....B
			..WB..
			..BW..
			......`)

		got := NewCorners(5).Evaluate(b, White, 0)

		require.Equal(t, b.Score()-5, got, "(5, 0) is a corner of a 6x4 board")
	})

	t.Run("scaled corners ignore corners early", func(t *testing.T) {
		b := cornered(t)
		require.Equal(t, b.Score(), ScaledCorners{}.Evaluate(b, White, 0), "bonus is zero below 20 tiles")
	})

	t.Run("scaled corners grow with the number of tiles", func(t *testing.T) {
		b := mustParse(t, Standard, `
			WWWWWWWW
			WWWWWWWW
			BBBBBBBB
			........
			........
			........
			........
			........`)

		// 24 tiles: ceil(0.3*4) = 2 per corner, two white corners
		require.Equal(t, b.Score()+4, ScaledCorners{}.Evaluate(b, White, 0))
	})

	t.Run("resolves evaluators by name", func(t *testing.T) {
		for _, name := range EvaluatorNames {
			ev, err := EvaluatorByName(name)
			require.NoError(t, err)
			require.NotNil(t, ev)
		}
		ev, err := EvaluatorByName("corners")
		require.NoError(t, err)
		require.Equal(t, "corners(8)", ev.Name())

		_, err = EvaluatorByName("mobility")
		require.ErrorIs(t, err, ErrUnknownEval)
	})

	t.Run("table picks the evaluator of each player", func(t *testing.T) {
		table := Table{Black: Material{}, White: ScaledCorners{}}
		require.Equal(t, "scaled-corners", table.For(White).Name())
		require.Equal(t, "material", table.For(Black).Name())
	})
}

func TestFormat(t *testing.T) {
	t.Run("colored output wraps every square in escapes", func(t *testing.T) {
		b := NewStartBoard(MustDims(4, 4))

		out := b.Format(true)

		require.Contains(t, out, "\x1b[37;43mW", "white piece on a light square")
		require.Contains(t, out, "\x1b[30;42mB", "black piece on a dark square")
		require.Contains(t, out, resetColor)
	})

	t.Run("plain output has no escapes", func(t *testing.T) {
		require.NotContains(t, NewStartBoard(Standard).Format(false), "\x1b[")
	})
}

func TestGrid(t *testing.T) {
	b := NewStartBoard(MustDims(4, 4))

	require.Equal(t, "....\n.BW.\n.WB.\n....", b.Grid())

	parsed, err := ParseBoard(b.Dims(), b.Grid())
	require.NoError(t, err)
	require.True(t, b.Equal(parsed))
}
