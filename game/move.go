package game

import "fmt"

// Square addresses a board intersection by row (0-9) and column (0-8).
type Square struct {
	Row int
	Col int
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Rows && s.Col >= 0 && s.Col < Cols
}

// Move relocates the piece on From to To. It is only legal relative to a
// specific board and side to move.
type Move struct {
	From Square
	To   Square
}

// NoMove is the last move of a root node.
var NoMove = Move{From: Square{-1, -1}, To: Square{-1, -1}}

func NewMove(fromRow, fromCol, toRow, toCol int) Move {
	return Move{
		From: Square{Row: fromRow, Col: fromCol},
		To:   Square{Row: toRow, Col: toCol},
	}
}

func (m Move) String() string {
	if m == NoMove {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)->(%d,%d)", m.From.Row, m.From.Col, m.To.Row, m.To.Col)
}

func (s Square) index() int {
	return s.Row*Cols + s.Col
}

// Compare orders moves by source square, then destination, in row-major order.
func (m Move) Compare(o Move) int {
	if d := m.From.index() - o.From.index(); d != 0 {
		return d
	}
	return m.To.index() - o.To.index()
}
