package gamemaster

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"xiangqi/game"
	"xiangqi/meta"
)

type Option func(e *LocalEngine)

// WithMaxTurns adjudicates the game as a draw after the given number of
// half-moves.
func WithMaxTurns(plies int) Option {
	return func(e *LocalEngine) {
		if plies > 0 {
			e.maxTurns = plies
		}
	}
}

type LocalEngine struct {
	mu       sync.Mutex
	id       string
	board    game.Board
	side     game.Color
	plies    int
	maxTurns int
	result   game.GameResult
	updateCh chan Update
}

func NewLocalEngine(options ...Option) *LocalEngine {
	e := &LocalEngine{
		id:       uuid.NewString(),
		maxTurns: meta.MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Init starts a game from the standard position with Red to move.
func (e *LocalEngine) Init() (game.Board, game.Color, UpdateGetter) {
	return e.InitFrom(game.NewBoard(), game.Red)
}

// InitFrom starts a game from an arbitrary position.
func (e *LocalEngine) InitFrom(board game.Board, side game.Color) (game.Board, game.Color, UpdateGetter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	getter := e.reset(board, side)
	return e.board, e.side, getter
}

func (e *LocalEngine) reset(board game.Board, side game.Color) UpdateGetter {
	e.board = board
	e.side = side
	e.plies = 0
	e.result = board.Classify(side)
	// Every accepted move fits so Play never blocks on a slow reader
	updateCh := make(chan Update, e.maxTurns+1)
	e.updateCh = updateCh
	if e.result.IsOver() {
		close(updateCh)
	}

	return func() (Update, bool) {
		select {
		case u, ok := <-updateCh:
			return u, ok
		default:
			// No updates yet
			return Update{}, false
		}
	}
}

func (e *LocalEngine) Play(move game.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.updateCh == nil { // Never initialised
		e.reset(game.NewBoard(), game.Red)
	}
	if e.result.IsOver() {
		return fmt.Errorf("%w: %s", ErrGameOver, move)
	}
	if cell := e.board.PieceAt(move.From.Row, move.From.Col); cell.IsEmpty() || cell.Color != e.side {
		return fmt.Errorf("%w: %s", ErrNotYourTurn, move)
	}
	if !e.board.IsLegalMove(move.From, move.To) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, move)
	}

	e.board = e.board.ApplyMove(move.From, move.To)
	e.side = e.side.Opponent()
	e.plies++
	e.result = e.board.Classify(e.side)
	if !e.result.IsOver() && e.plies >= e.maxTurns {
		e.result = game.Draw
	}

	e.updateCh <- Update{
		Move:   move,
		Board:  e.board,
		Side:   e.side,
		Hash:   e.board.Hash(e.side),
		Result: e.result,
	}
	if e.result.IsOver() { // Send final update then close
		close(e.updateCh)
	}
	return nil
}

func (e *LocalEngine) ID() string {
	return e.id
}

func (e *LocalEngine) Result() game.GameResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.result
}

func (e *LocalEngine) Board() game.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.board
}

func (e *LocalEngine) SideToMove() game.Color {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.side
}

// Plies returns the number of accepted half-moves.
func (e *LocalEngine) Plies() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.plies
}
