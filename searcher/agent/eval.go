package agent

import (
	"slices"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/searcher"
)

type evaluationAgent struct {
	engine *searcher.Engine
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(engine *searcher.Engine) Agent {
	return evaluationAgent{engine: engine}
}

func (a evaluationAgent) FindMove(board game.Board, side game.Color, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	policy, metric := a.engine.Search(board, side, updates)
	return findMax(policy), metric
}

// findMax returns the most visited move, the first in board order on ties.
func findMax(policy map[game.Move]float64) game.Move {
	maxMove := game.NoMove
	maxVisit := -1.0
	for _, move := range orderedMoves(policy) {
		if visit := policy[move]; visit > maxVisit {
			maxVisit = visit
			maxMove = move
		}
	}
	return maxMove
}

func orderedMoves(policy map[game.Move]float64) []game.Move {
	moves := make([]game.Move, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	slices.SortFunc(moves, game.Move.Compare)
	return moves
}
