package gamemaster

import (
	"errors"

	"xiangqi/game"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrNotYourTurn = errors.New("piece does not belong to the side to move")
	ErrIllegalMove = errors.New("illegal move")
)

// Update describes one accepted move and the position it produced.
type Update struct {
	Move   game.Move
	Board  game.Board
	Side   game.Color // to move next
	Hash   uint64
	Result game.GameResult
}

// UpdateGetter returns the next pending update without blocking. ok is false
// when no update is pending.
type UpdateGetter func() (u Update, ok bool)

// Engine is the authoritative referee of a single game.
type Engine interface {
	Init() (game.Board, game.Color, UpdateGetter)
	Play(game.Move) error
	Result() game.GameResult
}
