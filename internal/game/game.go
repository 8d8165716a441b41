package game

import (
	"time"

	"pawnchess/internal/board"
	"pawnchess/internal/core"
	"pawnchess/internal/engine"
)

// Game is a value. NextPlayer is the only state variable; Version counts applied
// moves and is what storage compares to reject stale commits.
type Game struct {
	ID         string
	Board      board.Board
	NextPlayer core.Color
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HistoryEntry records one applied move. Sequence is 1-based and equals the game
// Version right after the move.
type HistoryEntry struct {
	GameID      string
	Sequence    int
	MovingPiece core.Piece
	Move        core.Move
	CreatedAt   time.Time
}

// Transition is the outcome of Apply: the new game and its history entry must be
// committed together or not at all.
type Transition struct {
	Move            core.Move
	Game            Game
	Entry           HistoryEntry
	PreviousVersion int
}

// New creates a game on the standard starting board with white to move
func New(id string, now time.Time) Game {
	return Game{
		ID:         id,
		Board:      board.NewInitial(),
		NextPlayer: core.ColorWhite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Apply validates from -> to against g and returns the resulting transition.
// g itself is never modified.
func Apply(g Game, from, to string, now time.Time) (Transition, error) {
	fromCell, err := board.ParseSquare(from)
	if err != nil {
		return Transition{}, err
	}
	toCell, err := board.ParseSquare(to)
	if err != nil {
		return Transition{}, err
	}

	piece := g.Board.At(fromCell)
	if piece.IsZero() {
		return Transition{}, &core.BlankSquareError{Square: from}
	}
	if piece.Color != g.NextPlayer {
		return Transition{}, &core.WrongTurnError{Expected: g.NextPlayer}
	}

	move, legal, err := engine.IsValidMove(g.Board, fromCell, toCell)
	if err != nil {
		return Transition{}, err
	}
	if !legal {
		return Transition{}, &core.IllegalMoveError{From: from, To: to}
	}

	next := g
	next.Board = g.Board.MovePiece(fromCell, toCell)
	next.NextPlayer = core.OppositeColor(g.NextPlayer)
	next.Version = g.Version + 1
	next.UpdatedAt = now

	return Transition{
		Move: move,
		Game: next,
		Entry: HistoryEntry{
			GameID:      g.ID,
			Sequence:    next.Version,
			MovingPiece: piece,
			Move:        move,
			CreatedAt:   now,
		},
		PreviousVersion: g.Version,
	}, nil
}

// LegalMoves enumerates the moves of the piece on square, regardless of whose turn it is
func (g Game) LegalMoves(square string) (core.Piece, []core.Move, error) {
	c, err := board.ParseSquare(square)
	if err != nil {
		return core.Piece{}, nil, err
	}
	moves, err := engine.FindAllLegalMoves(g.Board, c)
	if err != nil {
		return core.Piece{}, nil, err
	}
	return g.Board.At(c), moves, nil
}
