package game

const (
	Rows = 10
	Cols = 9

	// Red occupies rows 0-4, Black rows 5-9.
	riverRow = 4
)

// Board is a value type: copying a Board copies the whole grid, so each
// search node can own an independent snapshot.
type Board struct {
	cells [Rows][Cols]Cell
}

var backRank = [Cols]PieceType{Rook, Horse, Elephant, Advisor, King, Advisor, Elephant, Horse, Rook}

// NewBoard returns a board set up in the standard starting position.
func NewBoard() Board {
	var b Board
	b.InitializeStandardPosition()
	return b
}

// InitializeStandardPosition resets the grid to the canonical layout. Red
// starts on row 0 and advances towards row 9; Black is the mirror image.
func (b *Board) InitializeStandardPosition() {
	b.Clear()
	for col, t := range backRank {
		b.cells[0][col] = piece(t, Red)
		b.cells[Rows-1][col] = piece(t, Black)
	}
	for _, col := range []int{1, 7} {
		b.cells[2][col] = piece(Cannon, Red)
		b.cells[7][col] = piece(Cannon, Black)
	}
	for col := 0; col < Cols; col += 2 {
		b.cells[3][col] = piece(Pawn, Red)
		b.cells[6][col] = piece(Pawn, Black)
	}
}

// Clear removes every piece.
func (b *Board) Clear() {
	b.cells = [Rows][Cols]Cell{}
}

// PieceAt returns the cell at (row, col); out of range reads as empty.
func (b Board) PieceAt(row, col int) Cell {
	if !(Square{row, col}).InBounds() {
		return Cell{}
	}
	return b.cells[row][col]
}

// SetPiece places cell at (row, col), replacing whatever was there.
func (b *Board) SetPiece(row, col int, cell Cell) {
	if !(Square{row, col}).InBounds() {
		return
	}
	if cell.Type == Empty {
		cell.Color = None
	}
	b.cells[row][col] = cell
}

func (b *Board) at(s Square) Cell {
	return b.cells[s.Row][s.Col]
}

// ApplyMove returns a copy of the board with the piece on from relocated to
// to, removing any captured piece. The move must have been validated with
// IsLegalMove first.
func (b Board) ApplyMove(from, to Square) Board {
	b.cells[to.Row][to.Col] = b.cells[from.Row][from.Col]
	b.cells[from.Row][from.Col] = Cell{}
	return b
}

// MovePiece validates and applies the move in place, reporting success.
func (b *Board) MovePiece(from, to Square) bool {
	if !b.IsLegalMove(from, to) {
		return false
	}
	*b = b.ApplyMove(from, to)
	return true
}

// IsCapture reports whether m lands on an occupied square.
func (b Board) IsCapture(m Move) bool {
	return m.To.InBounds() && !b.at(m.To).IsEmpty()
}

// pieces counts the non-empty cells of a color.
func (b *Board) pieces(c Color) int {
	n := 0
	for r := range b.cells {
		for _, cell := range b.cells[r] {
			if cell.Type != Empty && cell.Color == c {
				n++
			}
		}
	}
	return n
}

func inPalace(c Color, s Square) bool {
	if s.Col < 3 || s.Col > 5 {
		return false
	}
	if c == Red {
		return s.Row >= 0 && s.Row <= 2
	}
	return s.Row >= 7 && s.Row <= 9
}

// ownHalf reports whether row lies on c's side of the river.
func ownHalf(c Color, row int) bool {
	if c == Red {
		return row <= riverRow
	}
	return row > riverRow
}

// forward returns the row step of a pawn of color c.
func forward(c Color) int {
	if c == Red {
		return 1
	}
	return -1
}
