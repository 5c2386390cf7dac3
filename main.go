package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"xiangqi/experiments"
	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/gamemaster"
	"xiangqi/meta"
	"xiangqi/player"
	"xiangqi/searcher"
)

func main() {
	mode := flag.String("mode", "tree", "What to run: tree, selfplay or speedup")
	numGames := flag.Int("games", 1, "Number of games per match up")
	numGoroutines := flag.Int("goroutines", meta.Goroutines, "Number of goroutines for parallel playouts")
	numEpisodes := flag.Int("episodes", meta.Episodes, "Number of playouts per move")
	duration := flag.Duration("duration", 0, "Duration of playouts per move, overrides episodes")
	cutoff := flag.Int("cutoff", meta.Cutoff, "Maximum half-moves per playout")
	temperature := flag.Float64("temperature", 1.0, "Self-play sampling temperature")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	config := metrics.AgentConfig{ID: 1, Goroutines: *numGoroutines, Episodes: *numEpisodes, Duration: *duration, Cutoff: *cutoff}
	if *duration > 0 {
		config.Episodes = 0
	}

	switch *mode {
	case "tree":
		engine := searcher.NewSearchEngine(game.NewBoard(), game.Red, searcher.WithCutoff(*cutoff))
		referee := gamemaster.NewLocalEngine()
		result, err := player.NewTreeController(engine, referee, *numEpisodes, *numGoroutines).Run()
		if err != nil {
			log.Fatal().Err(err).Msg("game aborted")
		}
		log.Info().Str("game", referee.ID()).Int("plies", referee.Plies()).Msgf("game over: %s", result)
	case "selfplay":
		dir, err := experiments.RunSelfPlay(config, *numGames, *temperature)
		if err != nil {
			log.Fatal().Err(err).Msg("self-play failed")
		}
		log.Info().Str("dir", dir).Msg("self-play complete")
	case "speedup":
		budget := *duration
		if budget <= 0 {
			budget = experiments.TimeBudget
		}
		dir, err := experiments.RunSpeedupExperiment(*numGames, experiments.SpeedupConfigs(budget))
		if err != nil {
			log.Fatal().Err(err).Msg("speedup experiment failed")
		}
		log.Info().Str("dir", dir).Msg("speedup experiment complete")
	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}
