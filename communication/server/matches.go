package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"othello/agent"
	"othello/engine"
	"othello/game"
	"othello/meta"
	"othello/searcher"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	statusRunning  = "running"
	statusFinished = "finished"
	statusFailed   = "failed"
)

const (
	wsWriteWait        = 10 * time.Second
	wsIdlePingInterval = 30 * time.Second
)

type matchRequest struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Depth     [2]int    `json:"depth"`     // black, white
	Evaluator [2]string `json:"evaluator"` // black, white
	DelayMs   int       `json:"delay_ms"`
	Seed      uint64    `json:"seed"`
}

type movePayload struct {
	Step   int    `json:"step"`
	Player string `json:"player"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Pass   bool   `json:"pass"`
	Score  int    `json:"score"`
	Board  string `json:"board"`
}

type endPayload struct {
	Winner string `json:"winner"`
	Score  int    `json:"score"`
	Error  string `json:"error,omitempty"`
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type matchView struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Moves  []movePayload `json:"moves"`
	Board  string        `json:"board"`
	Winner string        `json:"winner,omitempty"`
	Score  int           `json:"score"`
}

// match is one computer game played in the background. Spectators receive
// the messages sent so far and then every new one.
type match struct {
	mu       sync.Mutex
	id       string
	status   string
	board    game.Board
	moves    []movePayload
	end      *endPayload
	ended    time.Time
	history  []wsMessage
	watchers map[chan wsMessage]struct{}
}

func newMatch(b game.Board) *match {
	return &match{
		id:       uuid.NewString(),
		status:   statusRunning,
		board:    b,
		moves:    []movePayload{},
		watchers: make(map[chan wsMessage]struct{}),
	}
}

func (m *match) OnMove(u engine.Update) {
	p := movePayload{Step: u.Step, Player: u.Player.String(), X: u.X, Y: u.Y, Pass: u.Pass, Score: u.Board.Score(), Board: u.Board.String()}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = u.Board
	m.moves = append(m.moves, p)
	m.publish(wsMessage{Type: "move", Payload: mustMarshal(p)})
}

func (m *match) OnEnd(r engine.Result) {
	m.finish(statusFinished, endPayload{Winner: r.Outcome.String(), Score: r.Score})
}

func (m *match) fail(err error) {
	m.finish(statusFailed, endPayload{Error: err.Error()})
}

func (m *match) finish(status string, p endPayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.end != nil {
		return
	}
	m.status = status
	m.end = &p
	m.ended = time.Now()
	m.publish(wsMessage{Type: "end", Payload: mustMarshal(p)})
	for ch := range m.watchers {
		close(ch)
	}
	m.watchers = nil
}

// publish must be called with mu held.
func (m *match) publish(msg wsMessage) {
	m.history = append(m.history, msg)
	for ch := range m.watchers {
		select {
		case ch <- msg:
		default:
			log.Warn().Str("match", m.id).Msg("dropping slow spectator")
			delete(m.watchers, ch)
			close(ch)
		}
	}
}

// watch returns the messages so far and a channel for the rest. The channel
// is nil when the match is over.
func (m *match) watch() ([]wsMessage, chan wsMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := append([]wsMessage(nil), m.history...)
	if m.end != nil {
		return history, nil
	}
	ch := make(chan wsMessage, 64)
	m.watchers[ch] = struct{}{}
	return history, ch
}

func (m *match) unwatch(ch chan wsMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.watchers[ch]; ok {
		delete(m.watchers, ch)
		close(ch)
	}
}

func (m *match) view() matchView {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := matchView{
		ID:     m.id,
		Status: m.status,
		Moves:  append([]movePayload(nil), m.moves...),
		Board:  m.board.String(),
		Score:  m.board.Score(),
	}
	if m.end != nil {
		v.Winner = m.end.Winner
	}
	return v
}

// expired reports whether the match ended more than ttl before now.
func (m *match) expired(now time.Time, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.end != nil && now.Sub(m.ended) > ttl
}

// matchStore keeps matches until ttl after they end.
type matchStore struct {
	mu      sync.RWMutex
	matches map[string]*match
	ttl     time.Duration
}

func newMatchStore(ttl time.Duration) *matchStore {
	return &matchStore{matches: make(map[string]*match), ttl: ttl}
}

// add stores m and evicts expired matches.
func (s *matchStore) add(m *match) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, old := range s.matches {
		if old.expired(now, s.ttl) {
			delete(s.matches, id)
		}
	}
	s.matches[m.id] = m
}

func (s *matchStore) get(id string) (*match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	return m, ok
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	req := matchRequest{
		Width:     meta.WIDTH,
		Height:    meta.HEIGHT,
		Depth:     [2]int{meta.DEPTH, meta.DEPTH},
		Evaluator: [2]string{meta.EVALUATOR, meta.EVALUATOR},
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	e, m, err := newMatchEngine(req, s.nodeLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.running.TryAcquire(1) {
		writeError(w, http.StatusServiceUnavailable, errBusy)
		return
	}
	s.matches.add(m)

	go func() {
		defer s.running.Release(1)
		if _, _, _, err := e.Run(s.ctx); err != nil {
			log.Warn().Err(err).Str("match", m.id).Msg("match stopped")
			m.fail(err)
		}
	}()

	log.Info().Str("match", m.id).Msg("match started")
	w.Header().Set("Location", "/matches/"+m.id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": m.id})
}

func newMatchEngine(req matchRequest, nodeLimit int) (*engine.LocalEngine, *match, error) {
	d, err := game.NewDims(req.Width, req.Height)
	if err != nil {
		return nil, nil, err
	}
	if req.DelayMs < 0 {
		return nil, nil, fmt.Errorf("%w: negative delay", errBadRequest)
	}
	seed := req.Seed
	if seed == 0 {
		seed = uint64(rand.Int63())
	}

	options := []searcher.Option{searcher.WithRand(rand.New(rand.NewSource(seed)))}
	for _, p := range game.Players {
		if req.Depth[p] < 0 || req.Depth[p] > meta.MAX_DEPTH {
			return nil, nil, fmt.Errorf("%w: depth must be between 0 and %d", errBadRequest, meta.MAX_DEPTH)
		}
		ev, err := game.EvaluatorByName(req.Evaluator[p])
		if err != nil {
			return nil, nil, err
		}
		options = append(options, searcher.WithDepth(p, req.Depth[p]), searcher.WithEvaluator(p, ev))
	}
	computer := agent.NewComputerAgent(searcher.NewSearcher(options...))

	b := game.NewStartBoard(d)
	m := newMatch(b)
	e := engine.NewLocalEngine(b, game.White, [2]agent.Agent{computer, computer}, nodeLimit, m)
	delay := time.Duration(req.DelayMs) * time.Millisecond
	e.Delays = [2]time.Duration{delay, delay}
	return e, m, nil
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matches.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no such match"))
		return
	}
	writeJSON(w, http.StatusOK, m.view())
}

func (s *Server) watchMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := s.matches.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no such match"))
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	history, ch := m.watch()
	if ch != nil {
		defer m.unwatch(ch)
	}

	// drain client frames so close messages are noticed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sawEnd := false
	for _, msg := range history {
		if err := writeMessage(conn, msg); err != nil {
			return
		}
		sawEnd = msg.Type == "end"
	}
	if ch == nil {
		closeWith(conn, sawEnd)
		return
	}

	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				closeWith(conn, sawEnd)
				return
			}
			if err := writeMessage(conn, msg); err != nil {
				return
			}
			sawEnd = msg.Type == "end"
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			lastWrite = time.Now()
		case <-closed:
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg wsMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// closeCode picks the close frame for a spectator whose feed has ended. A
// feed that stops before the end message belongs to a dropped spectator.
func closeCode(sawEnd bool) (int, string) {
	if sawEnd {
		return websocket.CloseNormalClosure, "match over"
	}
	return websocket.CloseTryAgainLater, "spectator too slow"
}

func closeWith(conn *websocket.Conn, sawEnd bool) {
	code, text := closeCode(sawEnd)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(wsWriteWait))
}
