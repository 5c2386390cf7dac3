package searcher

import (
	"golang.org/x/exp/rand"

	"xiangqi/game"
)

// playout plays random moves until the game ends. It returns NotOver when no
// legal move is available or the cutoff is reached first. A run of
// noCaptureLimit half-moves without a capture is scored as a draw.
func playout(board game.Board, side game.Color, rng *rand.Rand, cutoff, noCaptureLimit int) game.GameResult {
	if result := board.Classify(side); result.IsOver() {
		return result
	}

	quiet := 0
	for depth := 0; depth < cutoff; depth++ {
		moves := board.LegalMoves(side)
		if len(moves) == 0 {
			return game.NotOver
		}

		move := moves[rng.Intn(len(moves))] // Random rollout policy
		if board.IsCapture(move) {
			quiet = 0
		} else {
			quiet++
		}
		board = board.ApplyMove(move.From, move.To)
		side = side.Opponent()

		if noCaptureLimit > 0 && quiet >= noCaptureLimit {
			return game.Draw
		}
		if result := board.Classify(side); result.IsOver() {
			return result
		}
	}
	return game.NotOver
}

func scoreFor(result game.GameResult, side game.Color) float64 {
	switch result.Winner() {
	case side:
		return Win
	case side.Opponent():
		return Loss
	default:
		return Draw
	}
}
