package board

import (
	"fmt"
	"strings"

	"pawnchess/internal/core"
)

// StartingPlacement is the FEN piece-placement field of NewInitial
const StartingPlacement = "rnbkqbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKQBNR"

// Placement encodes the board as a FEN piece-placement field, rank 8 first
func (b Board) Placement() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Size; c++ {
			p := b.squares[r][c]
			if p.IsZero() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// ParsePlacement decodes a FEN piece-placement field
func ParsePlacement(placement string) (Board, error) {
	var b Board

	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return Board{}, fmt.Errorf("invalid placement: expected 8 ranks, got %d", len(ranks))
	}

	for r := 0; r < Size; r++ {
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			ch := ranks[r][i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= Size {
				return Board{}, fmt.Errorf("invalid placement: too many pieces in rank %d", Size-r)
			}
			p, ok := core.PieceFromLetter(ch)
			if !ok {
				return Board{}, fmt.Errorf("invalid placement: unknown piece %q", ch)
			}
			b.squares[r][file] = p
			file++
		}
		if file != Size {
			return Board{}, fmt.Errorf("invalid placement: rank %d has %d files", Size-r, file)
		}
	}

	return b, nil
}
