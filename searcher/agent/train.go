package agent

import (
	"math"

	"golang.org/x/exp/rand"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/searcher"
)

type trainingAgent struct {
	engine      *searcher.Engine
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. Moves
// are sampled from the visit distribution sharpened by temperature.
func NewTrainingAgent(engine *searcher.Engine, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &trainingAgent{
		engine:      engine,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(board game.Board, side game.Color, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	policy, metric := a.engine.Search(board, side, updates)
	policy = adjustTemperature(policy, a.temperature)
	return sample(policy, a.rng.Float64()), metric
}

func adjustTemperature(policy map[game.Move]float64, temperature float64) map[game.Move]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Move]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 {
		return adjusted
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the moves in board order until the cumulative probability
// passes sampled.
func sample(policy map[game.Move]float64, sampled float64) game.Move {
	cumulative := 0.0
	lastMove := game.NoMove
	for _, move := range orderedMoves(policy) {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
