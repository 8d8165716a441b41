package cli

import (
	"context"
	"fmt"

	"pawnchess/internal/board"
	"pawnchess/internal/cli"
	"pawnchess/internal/service"
	"pawnchess/internal/transport"
)

// Terminal is the view plus the input side of the local terminal
type Terminal interface {
	transport.View
	GetCommand(prompt string) (*cli.Command, error)
	SetTheme(theme cli.ColorTheme) error
}

type CLIHandler struct {
	svc    *service.Service
	view   Terminal
	gameID string
}

func New(svc *service.Service, view Terminal) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Run is the main loop. It returns when the user quits or input ends.
func (h *CLIHandler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		cmd, err := h.view.GetCommand(h.getPrompt(ctx))
		if err != nil {
			return err
		}

		if !h.ProcessCommand(ctx, cmd) {
			return nil
		}
	}
}

// GameID returns the id of the active game, empty when none
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// getPrompt shows whose turn it is in the active game
func (h *CLIHandler) getPrompt(ctx context.Context) string {
	if h.gameID == "" {
		return "> "
	}
	g, err := h.svc.GetGame(ctx, h.gameID)
	if err != nil {
		return "> "
	}
	return fmt.Sprintf("[%c]> ", g.NextPlayer)
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(ctx context.Context, cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		g, err := h.svc.CreateNewGame(ctx)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.gameID = g.ID
		h.view.ShowMessage(fmt.Sprintf("Game %s started. White to move.", g.ID))
		h.view.DisplayBoard(g.Board)

	case cli.CmdGames:
		games, err := h.svc.ListGames(ctx)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGames(games)

	case cli.CmdLoad:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: load <game id>")
			return true
		}
		g, err := h.svc.GetGame(ctx, cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.gameID = g.ID
		h.view.ShowMessage(fmt.Sprintf("Game %s loaded. %s to move.", g.ID, g.NextPlayer))
		h.view.DisplayBoard(g.Board)

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) != 2 {
			h.view.ShowMessage(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", cmd.Raw))
			return true
		}
		h.handleMove(ctx, cmd.Args[0], cmd.Args[1])

	case cli.CmdMoves:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: moves <square>")
			return true
		}
		piece, moves, err := h.svc.GetLegalMoves(ctx, h.gameID, cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowLegalMoves(cmd.Args[0], piece, moves)

	case cli.CmdBoard:
		if !h.requireGame() {
			return true
		}
		g, err := h.svc.GetGame(ctx, h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.DisplayBoard(g.Board)

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		g, err := h.svc.GetGame(ctx, h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		history, err := h.svc.GetHistory(ctx, h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameHistory(g, history)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			if g, err := h.svc.GetGame(ctx, h.gameID); err == nil {
				h.view.DisplayBoard(g.Board)
			}
		}

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'load <id>'.")
		return false
	}
	return true
}

func (h *CLIHandler) handleMove(ctx context.Context, from, to string) {
	g, move, err := h.svc.MakeMove(ctx, h.gameID, from, to)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.view.ShowMove(g.Board.At(board.ToGridCell(move.To)), move)
	h.view.DisplayBoard(g.Board)
}
