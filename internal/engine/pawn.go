package engine

import (
	"pawnchess/internal/board"
	"pawnchess/internal/core"
)

type pawnRules struct{}

// advance is the row step of a pawn: black moves toward row 7, white toward row 0
func advance(c core.Color) int {
	if c == core.ColorBlack {
		return 1
	}
	return -1
}

func startRow(c core.Color) int {
	if c == core.ColorBlack {
		return 1
	}
	return 6
}

// Candidates: single step, double step, diagonal toward file a, diagonal toward file h
func (pawnRules) Candidates(from board.GridCell, color core.Color) []board.GridCell {
	dir := advance(color)
	return []board.GridCell{
		from.Offset(dir, 0),
		from.Offset(2*dir, 0),
		from.Offset(dir, -1),
		from.Offset(dir, 1),
	}
}

func (pawnRules) Validate(b board.Board, from, to board.GridCell) (core.Move, bool) {
	pawn := b.At(from)
	target := b.At(to)
	dir := advance(pawn.Color)
	dr, dc := to.Row-from.Row, to.Col-from.Col

	switch {
	case dc == 0 && dr == dir:
		if !target.IsZero() {
			return core.Move{}, false
		}
	case dc == 0 && dr == 2*dir:
		// The pawn may not jump over a piece on the square it passes
		if from.Row != startRow(pawn.Color) || !target.IsZero() || !b.At(from.Offset(dir, 0)).IsZero() {
			return core.Move{}, false
		}
	case (dc == 1 || dc == -1) && dr == dir:
		if target.IsZero() || target.Color == pawn.Color {
			return core.Move{}, false
		}
	default:
		return core.Move{}, false
	}

	return newMove(b, from, to), true
}
