package engine

import (
	"xiangqi/experiments/metrics"
	"xiangqi/game"
)

type GameEngine interface {
	// Run plays a game till there's a result or the referee's turn cap is reached
	Run() (result game.GameResult, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}

var _ GameEngine = (*Engine)(nil)
