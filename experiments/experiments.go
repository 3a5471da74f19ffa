package experiments

import (
	"context"
	"fmt"
	"othello/agent"
	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/meta"
	"othello/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const NumGames = 10 // Per match up

// Experiment pairs agent configurations. Each match up is played with the
// colors swapped in every other game.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

// DepthExperiment plays deeper searches against a depth 2 baseline.
func DepthExperiment() Experiment {
	baseline := metrics.AgentConfig{ID: 0, Depth: 2, Evaluator: "corners", Goroutines: 1}
	configs := []metrics.AgentConfig{
		{ID: 1, Depth: 1, Evaluator: "corners", Goroutines: 1},
		{ID: 2, Depth: 3, Evaluator: "corners", Goroutines: 1},
		{ID: 3, Depth: 4, Evaluator: "corners", Goroutines: 1},
		{ID: 4, Depth: 5, Evaluator: "corners", Goroutines: 1},
	}
	return versus("depth", baseline, configs)
}

// EvaluatorExperiment plays the corner heuristics against plain material.
func EvaluatorExperiment() Experiment {
	baseline := metrics.AgentConfig{ID: 0, Depth: 3, Evaluator: "material", Goroutines: 1}
	configs := []metrics.AgentConfig{
		{ID: 1, Depth: 3, Evaluator: "corners", Goroutines: 1},
		{ID: 2, Depth: 3, Evaluator: "scaled-corners", Goroutines: 1},
	}
	return versus("evaluator", baseline, configs)
}

// ThroughputExperiment uses the same config for both players, for the same
// playing strength and similar game length, and varies the goroutines.
func ThroughputExperiment() Experiment {
	e := Experiment{Name: "throughput"}
	for i, goroutines := range []int{1, 2, 4, meta.GO_ROUTINES} {
		config := metrics.AgentConfig{ID: i + 1, Depth: 5, Evaluator: "corners", Goroutines: goroutines}
		e.Configs = append(e.Configs, config)
		e.MatchUps = append(e.MatchUps, [2]metrics.AgentConfig{config, config})
	}
	return e
}

func versus(name string, baseline metrics.AgentConfig, configs []metrics.AgentConfig) Experiment {
	e := Experiment{Name: name, Configs: append([]metrics.AgentConfig{baseline}, configs...)}
	for _, config := range configs {
		e.MatchUps = append(e.MatchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return e
}

// Run plays games per match up on boards of size d and stores the records
// under dir. It returns the directory the records were written to.
func Run(ctx context.Context, e Experiment, d game.Dims, games int, dir string, seed uint64) (string, error) {
	rng := rand.New(rand.NewSource(seed))
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchup := range e.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(e.MatchUps), matchup[0], matchup[1])

		for i := 0; i < games; i++ {
			white, black := matchup[0], matchup[1]
			if i%2 == 1 {
				white, black = black, white
			}

			gameMetric, moveMetrics, err := runGame(ctx, d, white, black, rng.Uint64())
			if err != nil {
				return "", fmt.Errorf("failed to play matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				Agent1:     white.ID,
				Agent2:     black.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       gameMetric.ID.String(),
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(e.MatchUps), i+1, gameMetric.Winner)
		}
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	writer, err := metrics.NewWriter(dir, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	return writer.Dir(), nil
}

// runGame plays white's config against black's on a fresh board
func runGame(ctx context.Context, d game.Dims, white, black metrics.AgentConfig, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := [2]agent.Agent{}
	for p, config := range map[game.Player]metrics.AgentConfig{game.White: white, game.Black: black} {
		s, err := createSearcher(p, config, seed)
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}
		agents[p] = agent.NewComputerAgent(s)
	}

	e := engine.NewLocalEngine(game.NewStartBoard(d), game.White, agents, meta.NODE_LIMIT)
	_, gameMetric, moveMetrics, err := e.Run(ctx)
	return gameMetric, moveMetrics, err
}

func createSearcher(p game.Player, config metrics.AgentConfig, seed uint64) (*searcher.Searcher, error) {
	ev, err := game.EvaluatorByName(config.Evaluator)
	if err != nil {
		return nil, err
	}
	return searcher.NewSearcher(
		searcher.WithDepth(p, config.Depth),
		searcher.WithEvaluator(p, ev),
		searcher.WithParallel(config.Goroutines),
		searcher.WithRand(rand.New(rand.NewSource(seed+uint64(p)))),
		searcher.WithMetrics(),
	), nil
}
