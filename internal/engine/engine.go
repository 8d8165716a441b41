// Package engine decides move legality. Each piece type plugs in its own rules;
// types without rules fail loudly instead of reporting "no moves".
package engine

import (
	"pawnchess/internal/board"
	"pawnchess/internal/core"
)

// PieceRules is the per-piece-type move capability
type PieceRules interface {
	// Validate reports the move that sends the piece on from to to, if its geometry
	// and occupancy rules allow it. Bounds, blank origin and own-piece targets are
	// already handled by the caller.
	Validate(b board.Board, from, to board.GridCell) (core.Move, bool)

	// Candidates lists every destination worth probing, in a stable order.
	// Cells may be off the board.
	Candidates(from board.GridCell, color core.Color) []board.GridCell
}

var registry = map[core.PieceType]PieceRules{
	core.Pawn: pawnRules{},
}

// RulesFor returns the rules of a piece type or UnsupportedPieceError
func RulesFor(t core.PieceType) (PieceRules, error) {
	rules, ok := registry[t]
	if !ok {
		return nil, &core.UnsupportedPieceError{Type: t}
	}
	return rules, nil
}

// IsValidMove checks a single from -> to move on b. Off-board cells and own-piece
// targets are simply not legal. An empty origin fails with BlankSquareError.
func IsValidMove(b board.Board, from, to board.GridCell) (core.Move, bool, error) {
	if !from.InBounds() || !to.InBounds() {
		return core.Move{}, false, nil
	}

	piece := b.At(from)
	if piece.IsZero() {
		return core.Move{}, false, &core.BlankSquareError{Square: board.ToSquare(from)}
	}

	rules, err := RulesFor(piece.Type)
	if err != nil {
		return core.Move{}, false, err
	}

	move, ok := probe(b, rules, piece, from, to)
	return move, ok, nil
}

// FindAllLegalMoves enumerates the legal moves of the piece on from without
// touching b. The order follows the piece's candidate order.
func FindAllLegalMoves(b board.Board, from board.GridCell) ([]core.Move, error) {
	piece := b.At(from)
	if piece.IsZero() {
		return nil, &core.BlankSquareError{Square: from.String()}
	}

	rules, err := RulesFor(piece.Type)
	if err != nil {
		return nil, err
	}

	moves := []core.Move{}
	for _, to := range rules.Candidates(from, piece.Color) {
		if move, ok := probe(b, rules, piece, from, to); ok {
			moves = append(moves, move)
		}
	}
	return moves, nil
}

func probe(b board.Board, rules PieceRules, piece core.Piece, from, to board.GridCell) (core.Move, bool) {
	if !to.InBounds() {
		return core.Move{}, false
	}
	if target := b.At(to); !target.IsZero() && target.Color == piece.Color {
		return core.Move{}, false
	}
	return rules.Validate(b, from, to)
}

// newMove builds the Move value. Kind is CAPTURE exactly when an opposing piece
// stood on the destination.
func newMove(b board.Board, from, to board.GridCell) core.Move {
	kind := core.MoveKindMove
	mover, target := b.At(from), b.At(to)
	if !target.IsZero() && target.Color != mover.Color {
		kind = core.MoveKindCapture
	}
	return core.Move{
		From: board.ToSquare(from),
		To:   board.ToSquare(to),
		Kind: kind,
	}
}
