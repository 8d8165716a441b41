package processor

import (
	"pawnchess/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdListGames
	CmdGetGame
	CmdGetBoard
	CmdGetLegalMoves
	CmdMakeMove
	CmdGetHistory
)

func (t CommandType) String() string {
	switch t {
	case CmdCreateGame:
		return "create-game"
	case CmdListGames:
		return "list-games"
	case CmdGetGame:
		return "get-game"
	case CmdGetBoard:
		return "get-board"
	case CmdGetLegalMoves:
		return "get-legal-moves"
	case CmdMakeMove:
		return "make-move"
	case CmdGetHistory:
		return "get-history"
	default:
		return "unknown"
	}
}

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	UserID string
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(userID string) Command {
	return Command{
		Type:   CmdCreateGame,
		UserID: userID,
	}
}

func NewListGamesCommand() Command {
	return Command{Type: CmdListGames}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

// NewGetLegalMovesCommand asks for the moves available to the piece on square
func NewGetLegalMovesCommand(gameID, square string) Command {
	return Command{
		Type:   CmdGetLegalMoves,
		GameID: gameID,
		Args:   square,
	}
}

func NewMakeMoveCommand(gameID, userID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		UserID: userID,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetHistoryCommand(gameID string) Command {
	return Command{
		Type:   CmdGetHistory,
		GameID: gameID,
	}
}
