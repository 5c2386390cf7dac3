package game

import "sync"

const zobristPieceTypes = int(Pawn) + 1

var (
	zobristOnce sync.Once

	zobristPieces [2][zobristPieceTypes][Rows][Cols]uint64
	zobristBlack  uint64
)

// initZobrist fills the key tables from a fixed splitmix64 stream so hashes
// are stable across runs.
func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}

		for side := range zobristPieces {
			for t := 1; t < zobristPieceTypes; t++ {
				for r := 0; r < Rows; r++ {
					for c := 0; c < Cols; c++ {
						zobristPieces[side][t][r][c] = next()
					}
				}
			}
		}
		zobristBlack = next()
	})
}

// Hash computes the Zobrist hash of the board with side to move.
func (b Board) Hash(side Color) uint64 {
	initZobrist()

	var h uint64
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell := b.cells[r][c]
			if cell.IsEmpty() {
				continue
			}
			idx := 0
			if cell.Color == Black {
				idx = 1
			}
			h ^= zobristPieces[idx][cell.Type][r][c]
		}
	}
	if side == Black {
		h ^= zobristBlack
	}
	return h
}
