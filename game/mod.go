package game

type Color int8

const (
	None Color = iota
	Red
	Black
)

// Opponent returns the other side; None has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Black
	case Black:
		return Red
	}
	return None
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	}
	return "none"
}

type PieceType int8

const (
	Empty PieceType = iota
	King
	Advisor
	Elephant
	Horse
	Rook
	Cannon
	Pawn
)

var pieceTypeNames = [...]string{
	Empty:    "empty",
	King:     "king",
	Advisor:  "advisor",
	Elephant: "elephant",
	Horse:    "horse",
	Rook:     "rook",
	Cannon:   "cannon",
	Pawn:     "pawn",
}

func (t PieceType) String() string {
	if t < 0 || int(t) >= len(pieceTypeNames) {
		return "unknown"
	}
	return pieceTypeNames[t]
}

// Cell is one intersection of the board: empty or a piece of one color.
type Cell struct {
	Type  PieceType
	Color Color
}

func (c Cell) IsEmpty() bool {
	return c.Type == Empty
}

func piece(t PieceType, c Color) Cell {
	return Cell{Type: t, Color: c}
}

type GameResult int8

const (
	NotOver GameResult = iota
	RedWin
	BlackWin
	Draw
)

func (r GameResult) String() string {
	switch r {
	case RedWin:
		return "red wins"
	case BlackWin:
		return "black wins"
	case Draw:
		return "draw"
	}
	return "not over"
}

// IsOver reports whether the result is terminal.
func (r GameResult) IsOver() bool {
	return r != NotOver
}

// Winner returns the winning color, or None for a draw or an ongoing game.
func (r GameResult) Winner() Color {
	switch r {
	case RedWin:
		return Red
	case BlackWin:
		return Black
	}
	return None
}

func winFor(c Color) GameResult {
	if c == Red {
		return RedWin
	}
	return BlackWin
}
