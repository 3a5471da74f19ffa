package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"othello/agent"
	"othello/communication/server"
	"othello/experiments"
	"othello/game"
	"othello/gamemaster"
	"othello/meta"
	"othello/searcher"
	"othello/utils"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var modes = []string{"play", "count", "solve", "experiment", "serve"}

func main() {
	settings := gamemaster.DefaultSettings()

	mode := flag.String("mode", "play", "One of "+strings.Join(modes, ", "))
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.IntVar(&settings.Width, "width", settings.Width, "Board width, even, 4 to 8")
	flag.IntVar(&settings.Height, "height", settings.Height, "Board height, even, 4 to 8")
	depth := flag.Int("depth", meta.DEPTH, "Search depth of both computer players")
	whiteDepth := flag.Int("white-depth", -1, "Search depth of WHITE, overrides -depth")
	blackDepth := flag.Int("black-depth", -1, "Search depth of BLACK, overrides -depth")
	eval := flag.String("eval", meta.EVALUATOR, "Evaluator of both players: "+strings.Join(game.EvaluatorNames, ", "))
	whiteEval := flag.String("white-eval", "", "Evaluator of WHITE, overrides -eval")
	blackEval := flag.String("black-eval", "", "Evaluator of BLACK, overrides -eval")
	human := flag.String("human", "black", "Human players: none, white, black or both")
	flag.IntVar(&settings.Games, "games", settings.Games, "Number of games to play")
	flag.DurationVar(&settings.Delay, "delay", settings.Delay, "Pause after each computer move")
	flag.Uint64Var(&settings.Seed, "seed", 0, "Random seed, 0 for a random one")
	flag.IntVar(&settings.Goroutines, "goroutines", settings.Goroutines, "Goroutines searching the root's children")
	flag.IntVar(&settings.NodeLimit, "node-limit", settings.NodeLimit, "Maximum live tree nodes, 0 for no limit")
	flag.StringVar(&settings.Remote, "remote", "", "Analysis server URL used by computer players")
	color := flag.String("color", "auto", "Colored boards: auto, always or never")
	countDepth := flag.Int("count-depth", 8, "Deepest level counted in count mode")
	printDepth := flag.Int("print-depth", 0, "Levels of the solved tree printed in solve mode")
	experiment := flag.String("experiment", "depth", "Experiment to run: depth, evaluator or throughput")
	out := flag.String("out", "experiments", "Directory for experiment records")
	addr := flag.String("addr", meta.ADDR, "Listen address in serve mode")
	flag.Parse()

	stdout := colorable.NewColorableStdout()
	setupLogging(*logLevel)

	if utils.FindIndex(modes, *mode) < 0 {
		log.Fatal().Msgf("unknown mode %q", *mode)
	}

	settings.Depth = [2]int{*depth, *depth}
	if *whiteDepth >= 0 {
		settings.Depth[game.White] = *whiteDepth
	}
	if *blackDepth >= 0 {
		settings.Depth[game.Black] = *blackDepth
	}
	settings.Evaluator = [2]string{*eval, *eval}
	if *whiteEval != "" {
		settings.Evaluator[game.White] = *whiteEval
	}
	if *blackEval != "" {
		settings.Evaluator[game.Black] = *blackEval
	}
	switch *human {
	case "none":
	case "white":
		settings.Human[game.White] = true
	case "black":
		settings.Human[game.Black] = true
	case "both":
		settings.Human = [2]bool{true, true}
	default:
		log.Fatal().Msgf("unknown -human value %q", *human)
	}
	switch *color {
	case "always":
		settings.Color = true
	case "auto":
		settings.Color = game.IsTerminal(os.Stdout)
	}
	if err := settings.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// a second interrupt kills the process
		<-ctx.Done()
		stop()
	}()

	var err error
	switch *mode {
	case "play":
		err = play(ctx, settings, stdout)
	case "count":
		err = count(stdout, settings, *countDepth)
	case "solve":
		err = solve(stdout, settings, *printDepth)
	case "experiment":
		err = runExperiment(ctx, settings, *experiment, *out)
	case "serve":
		err = server.NewServer().ListenAndServe(ctx, *addr)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), TimeFormat: time.TimeOnly})
}

func play(ctx context.Context, settings gamemaster.Settings, out io.Writer) error {
	session, err := gamemaster.NewSession(settings, os.Stdin, out)
	if err != nil {
		return err
	}
	_, err = session.Run(ctx)
	if errors.Is(err, agent.ErrNoInput) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// count prints the size of the game tree by depth, with the effective
// fan-out per ply.
func count(out io.Writer, settings gamemaster.Settings, maxDepth int) error {
	if err := game.Configure(settings.Width, settings.Height); err != nil {
		return err
	}
	root := searcher.NewRoot(game.NewBoard(), game.White, searcher.NewBudget(settings.NodeLimit))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Depth\tNode Count\tFanout\t\n")
	for depth := 0; depth <= maxDepth; depth++ {
		n, err := root.Count(depth)
		if errors.Is(err, searcher.ErrExpansionIncomplete) {
			w.Flush()
			log.Warn().Int("depth", depth).Msg("node limit reached")
			return nil
		}
		if err != nil {
			return err
		}
		fanout := 0.0
		if depth > 0 {
			fanout = math.Pow(float64(n), 1/float64(depth))
		}
		fmt.Fprintf(w, "%d\t%d\t%.3f\t\n", depth, n, fanout)
	}
	return w.Flush()
}

// solve searches a small board to the end with the material evaluator.
func solve(out io.Writer, settings gamemaster.Settings, printDepth int) error {
	if settings.Width*settings.Height > 24 {
		return fmt.Errorf("solve supports boards of at most 24 squares, not %dx%d", settings.Width, settings.Height)
	}
	if err := game.Configure(settings.Width, settings.Height); err != nil {
		return err
	}
	b := game.NewBoard()
	root := searcher.NewRoot(b, game.White, searcher.NewBudget(settings.NodeLimit))

	// every pass is followed by a move, so a game has at most two plies per empty square
	depth := 2 * b.NumEmpty()
	start := time.Now()
	value, err := root.Minmax(game.Material{}, depth)
	if err != nil {
		return err
	}
	log.Info().Dur("took", time.Since(start)).Int("depth", depth).Msg("solved")

	fmt.Fprintf(out, "%s board: value %d, ", b.Dims(), value)
	switch utils.Sign(value) {
	case 1:
		fmt.Fprintf(out, "WHITE wins by %d with perfect play\n", value)
	case -1:
		fmt.Fprintf(out, "BLACK wins by %d with perfect play\n", utils.Abs(value))
	default:
		fmt.Fprintln(out, "perfect play draws")
	}
	for _, c := range root.Best() {
		fmt.Fprintf(out, "best opening: %d %d\n", c.X(), c.Y())
	}
	if printDepth > 0 {
		return root.Fprint(out, printDepth)
	}
	return nil
}

func runExperiment(ctx context.Context, settings gamemaster.Settings, name, dir string) error {
	var e experiments.Experiment
	switch name {
	case "depth":
		e = experiments.DepthExperiment()
	case "evaluator":
		e = experiments.EvaluatorExperiment()
	case "throughput":
		e = experiments.ThroughputExperiment()
	default:
		return fmt.Errorf("unknown experiment %q", name)
	}
	games := settings.Games
	if games < 2 {
		games = experiments.NumGames
	}
	_, err := experiments.Run(ctx, e, game.MustDims(settings.Width, settings.Height), games, dir, settings.Seed)
	return err
}
