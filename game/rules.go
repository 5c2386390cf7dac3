package game

// IsLegalMove validates a move against the piece-specific rules. It does not
// look at whose turn it is or at flying-general exposure; Classify handles the
// latter as a terminal condition.
func (b Board) IsLegalMove(from, to Square) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	src := b.at(from)
	if src.IsEmpty() {
		return false
	}
	if dst := b.at(to); !dst.IsEmpty() && dst.Color == src.Color {
		return false
	}

	switch src.Type {
	case King:
		return validKing(from, to, src.Color)
	case Advisor:
		return validAdvisor(from, to, src.Color)
	case Elephant:
		return b.validElephant(from, to, src.Color)
	case Horse:
		return b.validHorse(from, to)
	case Rook:
		return b.validRook(from, to)
	case Cannon:
		return b.validCannon(from, to)
	case Pawn:
		return validPawn(from, to, src.Color)
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func validKing(from, to Square, c Color) bool {
	if !inPalace(c, to) {
		return false
	}
	return abs(to.Row-from.Row)+abs(to.Col-from.Col) == 1
}

func validAdvisor(from, to Square, c Color) bool {
	if !inPalace(c, to) {
		return false
	}
	return abs(to.Row-from.Row) == 1 && abs(to.Col-from.Col) == 1
}

func (b *Board) validElephant(from, to Square, c Color) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if abs(dr) != 2 || abs(dc) != 2 {
		return false
	}
	if !ownHalf(c, to.Row) {
		return false
	}
	eye := Square{from.Row + dr/2, from.Col + dc/2}
	return b.at(eye).IsEmpty()
}

func (b *Board) validHorse(from, to Square) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if !(abs(dr) == 1 && abs(dc) == 2) && !(abs(dr) == 2 && abs(dc) == 1) {
		return false
	}
	// The leg sits next to the origin along the long axis; integer halving
	// zeroes the short axis.
	leg := Square{from.Row + dr/2, from.Col + dc/2}
	return b.at(leg).IsEmpty()
}

// between counts the pieces strictly between two squares on one line. The
// squares must share a row or a column.
func (b *Board) between(from, to Square) int {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	n := 0
	for s := (Square{from.Row + dr, from.Col + dc}); s != to; s = (Square{s.Row + dr, s.Col + dc}) {
		if !b.at(s).IsEmpty() {
			n++
		}
	}
	return n
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func straight(from, to Square) bool {
	return from.Row == to.Row || from.Col == to.Col
}

func (b *Board) validRook(from, to Square) bool {
	return straight(from, to) && b.between(from, to) == 0
}

func (b *Board) validCannon(from, to Square) bool {
	if !straight(from, to) {
		return false
	}
	screens := b.between(from, to)
	if b.at(to).IsEmpty() {
		return screens == 0
	}
	return screens == 1
}

func validPawn(from, to Square, c Color) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if dr == forward(c) && dc == 0 {
		return true
	}
	// Sideways steps open up once the pawn stands across the river.
	return !ownHalf(c, from.Row) && dr == 0 && abs(dc) == 1
}
