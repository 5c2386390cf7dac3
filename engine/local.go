package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/gamemaster"
	"xiangqi/searcher"
	"xiangqi/searcher/agent"
)

// Engine plays one self-play game between two agents, Red first.
type Engine struct {
	Agents  []MCTSAdapter
	referee *gamemaster.LocalEngine
}

// LocalEngine pairs agents[0] (Red) against agents[1] (Black) under a local
// referee.
func LocalEngine(agents []agent.Agent, options ...gamemaster.Option) *Engine {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	adapters := make([]MCTSAdapter, len(agents))
	for i, a := range agents {
		adapters[i] = MCTSAdapter{InternalAgent: a}
	}
	return &Engine{
		Agents:  adapters,
		referee: gamemaster.NewLocalEngine(options...),
	}
}

func (e *Engine) ID() string {
	return e.referee.ID()
}

// Run executes the entire game loop until the referee reports a result.
func (e *Engine) Run() (game.GameResult, metrics.GameMetric, []metrics.MoveMetric) {
	board, side, getUpdate := e.referee.Init()
	updates := make([][]searcher.Segment, len(e.Agents))

	startTime := time.Now()
	log.Info().Str("game", e.referee.ID()).Msgf("%s is starting", side)

	result := e.referee.Result()
	var moveMetrics []metrics.MoveMetric
	for step := 1; !result.IsOver(); step++ {
		agentIndex := 0
		if side == game.Black {
			agentIndex = 1
		}

		move, metric, ok := e.Agents[agentIndex].FindMove(board, side, updates[agentIndex])
		updates[agentIndex] = nil
		if !ok {
			log.Warn().Str("game", e.referee.ID()).Msgf("%s has no legal moves, adjudicating a draw", side)
			result = game.Draw
			break
		}
		if err := e.referee.Play(move); err != nil {
			log.Error().Err(err).Str("game", e.referee.ID()).Msg("referee rejected move")
			result = game.Draw
			break
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Side:         side,
			Move:         move,
			SearchMetric: metric,
		})

		u, _ := getUpdate()
		segment := searcher.Segment{Move: u.Move, Hash: u.Hash}
		for i := range updates {
			updates[i] = append(updates[i], segment)
		}
		log.Debug().Int("step", step).Str("side", side.String()).Str("move", move.String()).Msg("move played")

		board, side = u.Board, u.Side
		result = u.Result
	}

	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		ID:             e.referee.ID(),
		StartingPlayer: game.Red,
		Result:         result,
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		TotalMoves:     len(moveMetrics),
	}
	log.Info().
		Str("game", gameMetric.ID).
		Str("result", result.String()).
		Int("moves", gameMetric.TotalMoves).
		Dur("duration", gameMetric.Duration).
		Msg("game over")

	return result, gameMetric, moveMetrics
}

// MCTSAdapter guards the referee against agent moves that are not legal for
// the side to move.
type MCTSAdapter struct {
	InternalAgent agent.Agent
}

// FindMove asks the agent for a move and falls back to the first legal move
// when the candidate is rejected. ok is false when side has no legal move.
func (ma *MCTSAdapter) FindMove(board game.Board, side game.Color, updates []searcher.Segment) (game.Move, metrics.SearchMetric, bool) {
	candidate, metric := ma.InternalAgent.FindMove(board, side, updates)

	cell := board.PieceAt(candidate.From.Row, candidate.From.Col)
	if !cell.IsEmpty() && cell.Color == side && board.IsLegalMove(candidate.From, candidate.To) {
		return candidate, metric, true
	}

	fallbackMoves := board.LegalMoves(side)
	if len(fallbackMoves) == 0 {
		return game.NoMove, metric, false
	}
	log.Warn().Str("move", candidate.String()).Msg("agent returned an illegal move, forcing the first legal move")
	return fallbackMoves[0], metric, true
}
