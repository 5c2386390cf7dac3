package experiments

import (
	"time"

	"xiangqi/experiments/metrics"
	"xiangqi/meta"
)

const TimeBudget = 10 * time.Millisecond

// SpeedupConfigs sweeps the number of search goroutines at a fixed time
// budget per move.
func SpeedupConfigs(budget time.Duration) []metrics.AgentConfig {
	configs := []metrics.AgentConfig{}
	for i, goroutines := range []int{1, 2, 4, 8, 16, 32, 64, 128} {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Goroutines: goroutines, Duration: budget})
	}
	return configs
}

// RunSpeedupExperiment pits every config against itself, for the same playing
// strength and similar game length, and records search throughput.
func RunSpeedupExperiment(numGames int, configs []metrics.AgentConfig) (string, error) {
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	return Experiment{
		Name:     "speedup",
		NumGames: numGames,
		MaxTurns: meta.MaxTurns,
		Configs:  configs,
		MatchUps: matchUps,
	}.Run()
}

// RunSelfPlay plays training games of config against itself.
func RunSelfPlay(config metrics.AgentConfig, numGames int, temperature float64) (string, error) {
	return Experiment{
		Name:     "selfplay",
		NumGames: numGames,
		MaxTurns: meta.MaxTurns,
		Configs:  []metrics.AgentConfig{config},
		MatchUps: [][]metrics.AgentConfig{{config, config}},
		NewAgent: TrainingAgent(temperature),
	}.Run()
}
