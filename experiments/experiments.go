package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"xiangqi/engine"
	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/gamemaster"
	"xiangqi/searcher"
	"xiangqi/searcher/agent"
)

type AgentFactory func(config metrics.AgentConfig, seed uint64) agent.Agent

// Experiment plays NumGames games for each match up and stores the configs,
// game records and move records as CSV.
type Experiment struct {
	Name     string
	Dir      string // experiments/<Name>/<timestamp> when empty
	NumGames int    // Per match up
	MaxTurns int
	Configs  []metrics.AgentConfig
	MatchUps [][]metrics.AgentConfig // Red, Black
	NewAgent AgentFactory
}

// Run plays every game and returns the output directory.
func (x Experiment) Run() (string, error) {
	newAgent := x.NewAgent
	if newAgent == nil {
		newAgent = EvaluationAgent
	}

	var writer *metrics.Writer
	var err error
	if x.Dir != "" {
		writer, err = metrics.NewWriterAt(x.Dir)
	} else {
		writer, err = metrics.NewWriter(x.Name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	// Store experiment metadata
	err = writer.WriteAgentConfigs(x.Configs)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", x.Name)

	for mi, matchup := range x.MatchUps {
		red, black := matchup[0], matchup[1]

		log.Info().Msgf("starting matchup %d of %d between red=%+v and black=%+v...", mi+1, len(x.MatchUps), red, black)

		for i := 0; i < x.NumGames; i++ {
			seed := uint64(2 * count)
			agents := []agent.Agent{newAgent(red, seed), newAgent(black, seed+1)}
			e := engine.LocalEngine(agents, gamemaster.WithMaxTurns(x.MaxTurns))

			result, gameMetric, moveMetrics := e.Run()
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				Red:        red.ID,
				Black:      black.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       gameMetric.ID,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d with result: %s", mi+1, len(x.MatchUps), i+1, x.NumGames, result)
		}
	}

	log.Info().Msgf("completed %s experiment", x.Name)

	// Store experiment results
	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored game and move records")

	return writer.Dir(), nil
}

// EvaluationAgent plays the most visited move of a fresh search engine.
func EvaluationAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	return agent.NewEvaluationAgent(createEngine(config, seed))
}

// TrainingAgent samples moves at the given temperature.
func TrainingAgent(temperature float64) AgentFactory {
	return func(config metrics.AgentConfig, seed uint64) agent.Agent {
		return agent.NewTrainingAgent(createEngine(config, seed), temperature, seed)
	}
}

func createEngine(config metrics.AgentConfig, seed uint64) *searcher.Engine {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewSearchEngine(game.NewBoard(), game.Red, options...)
}
