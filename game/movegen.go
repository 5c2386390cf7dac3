package game

var (
	orthogonal = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	horseLeaps = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// LegalMoves enumerates every legal move for side in row-major order of the
// source square. Destinations are proposed per piece type and each one is
// gated by IsLegalMove.
func (b Board) LegalMoves(side Color) []Move {
	moves := make([]Move, 0, 64)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell := b.cells[r][c]
			if cell.IsEmpty() || cell.Color != side {
				continue
			}
			b.appendMoves(Square{r, c}, cell.Type, &moves)
		}
	}
	return moves
}

func (b *Board) appendMoves(from Square, t PieceType, moves *[]Move) {
	try := func(dr, dc int) {
		to := Square{from.Row + dr, from.Col + dc}
		if b.IsLegalMove(from, to) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}

	switch t {
	case King, Pawn:
		for _, d := range orthogonal {
			try(d[0], d[1])
		}
	case Advisor:
		for _, d := range diagonal {
			try(d[0], d[1])
		}
	case Elephant:
		for _, d := range diagonal {
			try(2*d[0], 2*d[1])
		}
	case Horse:
		for _, d := range horseLeaps {
			try(d[0], d[1])
		}
	case Rook, Cannon:
		for _, d := range orthogonal {
			for k := 1; ; k++ {
				to := Square{from.Row + k*d[0], from.Col + k*d[1]}
				if !to.InBounds() {
					break
				}
				if b.IsLegalMove(from, to) {
					*moves = append(*moves, Move{From: from, To: to})
				}
			}
		}
	}
}
