package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"othello/communication"
	"othello/game"
	"othello/meta"
	"othello/searcher"
)

var errBadRequest = errors.New("bad request")

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req := communication.AnalysisRequest{Width: meta.WIDTH, Height: meta.HEIGHT, Depth: meta.DEPTH, Evaluator: meta.EVALUATOR}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	if !s.analyses.TryAcquire(1) {
		writeError(w, http.StatusServiceUnavailable, errBusy)
		return
	}
	defer s.analyses.Release(1)

	res, err := analyze(req, s.nodeLimit)
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, game.ErrInvalidDims),
		errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrUnknownEval):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, searcher.ErrExpansionIncomplete):
		writeError(w, http.StatusUnprocessableEntity, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func analyze(req communication.AnalysisRequest, nodeLimit int) (communication.AnalysisResponse, error) {
	d, err := game.NewDims(req.Width, req.Height)
	if err != nil {
		return communication.AnalysisResponse{}, err
	}
	if req.Depth < 0 || req.Depth > meta.MAX_DEPTH {
		return communication.AnalysisResponse{}, fmt.Errorf("%w: depth must be between 0 and %d", errBadRequest, meta.MAX_DEPTH)
	}
	ev, err := game.EvaluatorByName(req.Evaluator)
	if err != nil {
		return communication.AnalysisResponse{}, err
	}
	b, player, err := position(d, req)
	if err != nil {
		return communication.AnalysisResponse{}, err
	}

	root := searcher.NewRoot(b, player, searcher.NewBudget(nodeLimit))
	value, err := root.Minmax(ev, req.Depth)
	if err != nil {
		return communication.AnalysisResponse{}, err
	}

	res := communication.AnalysisResponse{
		Player: player.String(),
		Value:  value,
		Best:   [][2]int{},
		Moves:  [][2]int{},
		Leaf:   root.IsLeaf(),
		Score:  b.Score(),
		Board:  b.String(),
	}
	for _, c := range root.Best() {
		res.Best = append(res.Best, [2]int{c.X(), c.Y()})
	}
	for _, m := range b.Moves(player) {
		res.Moves = append(res.Moves, [2]int{m.X, m.Y})
	}
	return res, nil
}

func position(d game.Dims, req communication.AnalysisRequest) (game.Board, game.Player, error) {
	if req.Board == "" {
		return replay(d, req.Moves)
	}
	if len(req.Moves) > 0 {
		return game.Board{}, game.White, fmt.Errorf("%w: board and moves are exclusive", errBadRequest)
	}
	b, err := game.ParseBoard(d, req.Board)
	if err != nil {
		return game.Board{}, game.White, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	p, err := game.ParsePlayer(req.Player)
	if err != nil {
		return game.Board{}, game.White, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return b, p, nil
}

// replay plays moves from the start position with White first. A player
// without a legal move passes implicitly.
func replay(d game.Dims, moves [][2]int) (game.Board, game.Player, error) {
	b, p := game.NewStartBoard(d), game.White
	for i, m := range moves {
		if !b.HasLegalMove(p) {
			p = p.Opponent()
		}
		next, ok := b.Play(p, m[0], m[1])
		if !ok {
			return b, p, fmt.Errorf("move %d (%d, %d) for %s: %w", i+1, m[0], m[1], p, game.ErrIllegalMove)
		}
		b, p = next, p.Opponent()
	}
	if !b.HasLegalMove(p) && b.HasLegalMove(p.Opponent()) {
		p = p.Opponent()
	}
	return b, p, nil
}
