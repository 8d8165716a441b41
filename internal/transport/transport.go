// Package transport holds the contracts between front ends and their displays.
package transport

import (
	"pawnchess/internal/board"
	"pawnchess/internal/core"
	"pawnchess/internal/game"
)

// View abstracts display/output operations
type View interface {
	DisplayBoard(b board.Board)
	ShowMessage(msg string)
	ShowError(err error)
	ShowMove(piece core.Piece, move core.Move)
	ShowLegalMoves(square string, piece core.Piece, moves []core.Move)
	ShowGames(games []game.Game)
	ShowGameHistory(g game.Game, history []game.HistoryEntry)
	ShowHelp()
}
