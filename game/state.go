package game

// Classify reports whether the position is terminal. Conditions are checked in
// a fixed priority order: missing kings, flying general, bare kings.
func (b Board) Classify(sideToMove Color) GameResult {
	redKing, redAlive := b.KingSquare(Red)
	blackKing, blackAlive := b.KingSquare(Black)

	switch {
	case !redAlive && !blackAlive:
		return Draw
	case !redAlive:
		return BlackWin
	case !blackAlive:
		return RedWin
	}

	// The side to move is judged to have failed to resolve the exposure.
	if b.kingsFacing(redKing, blackKing) {
		return winFor(sideToMove.Opponent())
	}

	if b.pieces(Red) == 1 && b.pieces(Black) == 1 {
		return Draw
	}
	return NotOver
}

// KingSquare locates the king of color c.
func (b Board) KingSquare(c Color) (Square, bool) {
	for r := range b.cells {
		for col, cell := range b.cells[r] {
			if cell.Type == King && cell.Color == c {
				return Square{r, col}, true
			}
		}
	}
	return Square{}, false
}

func (b *Board) kingsFacing(red, black Square) bool {
	if red.Col != black.Col {
		return false
	}
	return b.between(red, black) == 0
}
