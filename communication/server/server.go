package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"othello/communication"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	defaultNodeLimit   = 1 << 18 // per analysis or match tree
	defaultMaxAnalyses = 4
	defaultMaxMatches  = 4
	defaultMatchTTL    = 10 * time.Minute
)

var errBusy = errors.New("server busy, try again later")

type Option func(s *Server)

type Server struct {
	matches   *matchStore
	nodeLimit int
	analyses  *semaphore.Weighted
	running   *semaphore.Weighted
	ctx       context.Context
	cancel    context.CancelFunc
}

// WithNodeLimit caps the live nodes of every tree the server builds.
func WithNodeLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.nodeLimit = limit
		}
	}
}

// WithMaxAnalyses bounds the analyses searched at the same time. Requests
// beyond it are answered with 503.
func WithMaxAnalyses(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.analyses = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithMaxMatches bounds the matches played at the same time.
func WithMaxMatches(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.running = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithMatchTTL sets how long a finished match stays available.
func WithMatchTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.matches.ttl = ttl
		}
	}
}

// NewServer returns a server whose background matches stop on Close.
func NewServer(options ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{ // Default values
		matches:   newMatchStore(defaultMatchTTL),
		nodeLimit: defaultNodeLimit,
		analyses:  semaphore.NewWeighted(defaultMaxAnalyses),
		running:   semaphore.NewWeighted(defaultMaxMatches),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Handler wires routes and returns an http.Handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/analysis", s.analyze)
	r.Post("/matches", s.createMatch)
	r.Route("/matches/{id}", func(r chi.Router) {
		r.Get("/", s.getMatch)
		r.Get("/ws", s.watchMatch)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("analysis server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops all running matches.
func (s *Server) Close() {
	s.cancel()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
