package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"othello/agent"
	"othello/communication"
	"othello/communication/server"
	"othello/engine"
	"othello/game"
	"othello/searcher"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	s := server.NewServer()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		s.Close()
	})
	return NewClient(srv.URL)
}

func TestClient(t *testing.T) {
	c := newTestClient(t)

	t.Run("analyzes a position", func(t *testing.T) {
		res, err := c.Analyze(context.Background(), communication.AnalysisRequest{
			Width: 8, Height: 8, Depth: 1, Evaluator: "material",
		})

		require.NoError(t, err)
		require.Equal(t, 3, res.Value)
		require.Len(t, res.Best, 4)
	})

	t.Run("reports server errors", func(t *testing.T) {
		_, err := c.Analyze(context.Background(), communication.AnalysisRequest{Width: 5, Height: 8})

		require.Error(t, err)
		require.Contains(t, err.Error(), "status 400")
	})

	t.Run("reports unreachable servers", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := NewClient(srv.URL).Analyze(context.Background(), communication.AnalysisRequest{})

		require.ErrorContains(t, err, "failed to reach analysis server")
	})
}

func TestRemoteAgent(t *testing.T) {
	c := newTestClient(t)
	remote := NewRemoteAgent(c, [2]int{game.Black: 1, game.White: 2}, [2]string{game.Black: "material", game.White: "corners"}, rand.New(rand.NewSource(4)))

	t.Run("plays a whole game", func(t *testing.T) {
		e := engine.NewLocalEngine(game.NewStartBoard(game.MustDims(4, 4)), game.White, [2]agent.Agent{remote, remote}, 0)
		result, gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, result.Board.IsLeaf())
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
	})

	t.Run("stops when the game is cancelled", func(t *testing.T) {
		tree := searcher.NewTree(game.NewStartBoard(game.Standard), game.White, 0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := remote.FindMove(ctx, tree)

		require.ErrorIs(t, err, context.Canceled)
	})
}
