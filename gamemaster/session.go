package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"othello/agent"
	"othello/communication/client"
	"othello/engine"
	"othello/game"
	"othello/searcher"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// GameRecord is the outcome of one game of a session.
type GameRecord struct {
	Game    int
	Outcome game.Outcome
	Score   int
	Moves   int
}

type Report struct {
	Games []GameRecord
	Wins  [2]int // indexed by game.Player
	Draws int
}

type Session struct {
	settings Settings
	setup    *game.Setup
	searcher *searcher.Searcher
	rng      *rand.Rand
	in       io.Reader
	out      io.Writer
}

// NewSession validates s and fixes the board size for the session. Human
// players read from in; boards and results are written to out.
func NewSession(s Settings, in io.Reader, out io.Writer) (*Session, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	seed := s.Seed
	if seed == 0 {
		seed = uint64(rand.Int63())
	}
	rng := rand.New(rand.NewSource(seed))
	table := s.Evaluators()
	return &Session{
		settings: s,
		setup:    game.NewSetup(game.MustDims(s.Width, s.Height)),
		searcher: searcher.NewSearcher(
			searcher.WithDepth(game.White, s.Depth[game.White]),
			searcher.WithDepth(game.Black, s.Depth[game.Black]),
			searcher.WithEvaluator(game.White, table[game.White]),
			searcher.WithEvaluator(game.Black, table[game.Black]),
			searcher.WithRand(rng),
			searcher.WithParallel(s.Goroutines),
		),
		rng: rng,
		in:  in,
		out: out,
	}, nil
}

// Run plays the configured number of games and prints the score table.
// Running out of human input ends the session early with agent.ErrNoInput;
// the report covers the games finished so far.
func (s *Session) Run(ctx context.Context) (Report, error) {
	var report Report
	human := agent.NewHumanAgent(s.in, s.out, s.settings.Color)
	computer := agent.NewComputerAgent(s.searcher)
	if s.settings.Remote != "" {
		computer = client.NewRemoteAgent(client.NewClient(s.settings.Remote), s.settings.Depth, s.settings.Evaluator, s.rng)
	}

	var agents [2]agent.Agent
	var delays [2]time.Duration
	for _, p := range game.Players {
		if s.settings.Human[p] {
			agents[p] = human
		} else {
			agents[p] = computer
			delays[p] = s.settings.Delay
		}
	}

	for i := 1; i <= s.settings.Games; i++ {
		log.Info().Msgf("starting game %d of %d", i, s.settings.Games)

		e := engine.NewLocalEngine(s.setup.NewBoard(), game.White, agents, s.settings.NodeLimit, &printer{out: s.out, color: s.settings.Color})
		e.Delays = delays
		result, gameMetric, _, err := e.Run(ctx)
		if err != nil {
			if errors.Is(err, agent.ErrNoInput) {
				fmt.Fprintln(s.out)
				log.Info().Msg("input closed, ending session")
			}
			s.writeTable(report)
			return report, err
		}

		report.Games = append(report.Games, GameRecord{Game: i, Outcome: result.Outcome, Score: result.Score, Moves: gameMetric.TotalMoves})
		switch result.Outcome {
		case game.WhiteWins:
			report.Wins[game.White]++
		case game.BlackWins:
			report.Wins[game.Black]++
		default:
			report.Draws++
		}
	}

	s.writeTable(report)
	return report, nil
}

func (s *Session) writeTable(r Report) {
	if len(r.Games) == 0 {
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Game\tScore\tMoves\tResult")
	for _, g := range r.Games {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", g.Game, g.Score, g.Moves, g.Outcome)
	}
	w.Flush()
	fmt.Fprintf(s.out, "WHITE %d  BLACK %d  DRAW %d\n", r.Wins[game.White], r.Wins[game.Black], r.Draws)
}

// printer shows every move and the final result.
type printer struct {
	out   io.Writer
	color bool
}

func (p *printer) OnMove(u engine.Update) {
	if u.Pass {
		fmt.Fprintf(p.out, "%d. %s passes\n", u.Step, u.Player)
		return
	}
	fmt.Fprintf(p.out, "%d. %s plays %d %d\n", u.Step, u.Player, u.X, u.Y)
	game.Render(p.out, u.Board, p.color)
}

func (p *printer) OnEnd(r engine.Result) {
	if r.Outcome == game.Draw {
		fmt.Fprintln(p.out, "DRAW")
		return
	}
	fmt.Fprintf(p.out, "%s won\n", r.Outcome)
}
