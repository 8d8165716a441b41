package board

import (
	"fmt"
	"strings"

	"pawnchess/internal/core"
)

// Board is a value type. Assignment copies it and every mutator returns a new Board,
// so a caller's board never changes underneath it.
type Board struct {
	squares [Size][Size]core.Piece
}

var backRank = [Size]core.PieceType{
	core.Rook, core.Knight, core.Bishop, core.King,
	core.Queen, core.Bishop, core.Knight, core.Rook,
}

// NewInitial builds the starting position: black on rows 0-1, white on rows 6-7
func NewInitial() Board {
	var b Board
	for col := 0; col < Size; col++ {
		b.squares[0][col] = core.Piece{Type: backRank[col], Color: core.ColorBlack}
		b.squares[1][col] = core.Piece{Type: core.Pawn, Color: core.ColorBlack}
		b.squares[6][col] = core.Piece{Type: core.Pawn, Color: core.ColorWhite}
		b.squares[7][col] = core.Piece{Type: backRank[col], Color: core.ColorWhite}
	}
	return b
}

// At returns the piece on c, or the zero Piece if c is empty or off the board
func (b Board) At(c GridCell) core.Piece {
	if !c.InBounds() {
		return core.Piece{}
	}
	return b.squares[c.Row][c.Col]
}

// PieceAt looks a piece up by algebraic coordinate
func (b Board) PieceAt(square string) (core.Piece, bool, error) {
	c, err := ParseSquare(square)
	if err != nil {
		return core.Piece{}, false, err
	}
	p := b.At(c)
	return p, !p.IsZero(), nil
}

// MovePiece relocates whatever stands on from to to, overwriting the target.
// No legality checks are made.
func (b Board) MovePiece(from, to GridCell) Board {
	if from == to {
		return b
	}
	p := b.At(from)
	b.squares[to.Row][to.Col] = p
	b.squares[from.Row][from.Col] = core.Piece{}
	return b
}

func (b Board) Place(c GridCell, p core.Piece) Board {
	b.squares[c.Row][c.Col] = p
	return b
}

func (b Board) Remove(c GridCell) Board {
	b.squares[c.Row][c.Col] = core.Piece{}
	return b
}

// Count returns the number of pieces of the given color
func (b Board) Count(color core.Color) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.squares[r][c]; !p.IsZero() && p.Color == color {
				n++
			}
		}
	}
	return n
}

// Equal reports whether both boards hold the same pieces on the same cells
func (b Board) Equal(other Board) bool {
	return b.squares == other.squares
}

// Grid exposes the cells for rendering, nil meaning empty
func (b Board) Grid() [Size][Size]*core.Piece {
	var grid [Size][Size]*core.Piece
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.squares[r][c]; !p.IsZero() {
				grid[r][c] = &p
			}
		}
	}
	return grid
}

// ToASCII creates an ASCII representation of the board
func (b Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", Size-r))
		for f := 0; f < Size; f++ {
			p := b.squares[r][f]
			if p.IsZero() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", p.Letter()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", Size-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
