package board

import "pawnchess/internal/core"

// Size is the number of rows and columns on the board
const Size = 8

// GridCell addresses the board internally. Row 0 is rank 8, column 0 is file a.
type GridCell struct {
	Row int
	Col int
}

func (g GridCell) InBounds() bool {
	return g.Row >= 0 && g.Row < Size && g.Col >= 0 && g.Col < Size
}

// Offset returns the cell dr rows and dc columns away. The result may be out of bounds.
func (g GridCell) Offset(dr, dc int) GridCell {
	return GridCell{Row: g.Row + dr, Col: g.Col + dc}
}

func (g GridCell) String() string {
	if !g.InBounds() {
		return "off-board"
	}
	return ToSquare(g)
}

// ValidateSquare checks the syntax of an algebraic coordinate such as "e4"
func ValidateSquare(s string) error {
	var reason string
	switch {
	case s == "":
		reason = "coordinate must not be empty"
	case len(s) != 2:
		reason = "coordinate must be exactly 2 characters"
	case s[0] < 'a' || s[0] > 'h':
		reason = "file must be a letter between a and h"
	case s[1] < '1' || s[1] > '8':
		reason = "rank must be a digit between 1 and 8"
	default:
		return nil
	}
	return &core.InvalidCoordinateError{Input: s, Reason: reason}
}

// ParseSquare validates s and converts it to a grid cell
func ParseSquare(s string) (GridCell, error) {
	if err := ValidateSquare(s); err != nil {
		return GridCell{}, err
	}
	return ToGridCell(s), nil
}

// ToGridCell converts a syntactically valid coordinate. Callers validate first.
func ToGridCell(s string) GridCell {
	rank := int(s[1] - '0')
	return GridCell{
		Row: abs(rank - Size),
		Col: int(s[0] - 'a'),
	}
}

// ToSquare converts an in-bounds cell back to algebraic notation
func ToSquare(g GridCell) string {
	return string([]byte{
		byte('a' + g.Col),
		byte('0' + abs(g.Row-Size)),
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
