package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidFEN = errors.New("invalid FEN")

var letters = map[PieceType]rune{
	King:     'k',
	Advisor:  'a',
	Elephant: 'e',
	Horse:    'h',
	Rook:     'r',
	Cannon:   'c',
	Pawn:     'p',
}

var letterToPieceType = map[rune]PieceType{
	'k': King,
	'a': Advisor,
	'e': Elephant,
	'h': Horse,
	'r': Rook,
	'c': Cannon,
	'p': Pawn,
}

// Encode writes the board as rows 0..9 separated by "/", empties compressed
// into digits, upper case for Red, followed by "w" (Red to move) or "b".
func (b Board) Encode(side Color) string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			cell := b.cells[r][c]
			if cell.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			ch := letters[cell.Type]
			if cell.Color == Red {
				ch = unicode.ToUpper(ch)
			}
			sb.WriteRune(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if side == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	return sb.String()
}

// Decode parses the format written by Encode.
func Decode(fen string) (Board, Color, error) {
	var b Board
	parts := strings.Fields(fen)
	if len(parts) != 2 {
		return b, None, fmt.Errorf("%w: want board and side, got %d fields", ErrInvalidFEN, len(parts))
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != Rows {
		return b, None, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidFEN, Rows, len(rows))
	}
	for r, row := range rows {
		c := 0
		for _, ch := range row {
			if c >= Cols {
				return b, None, fmt.Errorf("%w: row %d is too long", ErrInvalidFEN, r)
			}
			if ch >= '1' && ch <= '9' {
				c += int(ch - '0')
				continue
			}
			t, ok := letterToPieceType[unicode.ToLower(ch)]
			if !ok {
				return b, None, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			color := Black
			if unicode.IsUpper(ch) {
				color = Red
			}
			b.cells[r][c] = piece(t, color)
			c++
		}
		if c != Cols {
			return b, None, fmt.Errorf("%w: row %d has %d columns", ErrInvalidFEN, r, c)
		}
	}

	switch parts[1] {
	case "w":
		return b, Red, nil
	case "b":
		return b, Black, nil
	}
	return b, None, fmt.Errorf("%w: unknown side %q", ErrInvalidFEN, parts[1])
}
