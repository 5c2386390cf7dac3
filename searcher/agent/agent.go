package agent

import (
	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/searcher"
)

type Agent interface {
	// FindMove returns a move and performance metrics (if collected) from the search process
	FindMove(board game.Board, side game.Color, updates []searcher.Segment) (game.Move, metrics.SearchMetric)
}
