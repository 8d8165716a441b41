package processor

import (
	"context"

	"pawnchess/internal/core"
	"pawnchess/internal/game"
	"pawnchess/internal/service"

	"github.com/rs/zerolog"
)

// errorMessages holds the short message sent with each error code
var errorMessages = map[string]string{
	core.ErrGameNotFound:      "game not found",
	core.ErrInvalidCoordinate: "invalid coordinate",
	core.ErrBlankSquare:       "no piece on origin square",
	core.ErrUnsupportedPiece:  "piece type not supported",
	core.ErrWrongTurn:         "not this player's turn",
	core.ErrInvalidMove:       "invalid move",
	core.ErrPersistence:       "storage unavailable, retry later",
	core.ErrInvalidRequest:    "invalid request",
	core.ErrInternalError:     "internal error",
}

// Processor executes commands against the service and shapes the results
// into API responses. Shared by the HTTP and terminal front ends.
type Processor struct {
	svc *service.Service
	log zerolog.Logger
}

func New(svc *service.Service, log zerolog.Logger) *Processor {
	return &Processor{
		svc: svc,
		log: log.With().Str("component", "processor").Logger(),
	}
}

func (p *Processor) Execute(ctx context.Context, cmd Command) ProcessorResponse {
	p.log.Trace().Str("cmd", cmd.Type.String()).Str("game", cmd.GameID).Msg("execute")

	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(ctx, cmd)
	case CmdListGames:
		return p.handleListGames(ctx)
	case CmdGetGame:
		return p.handleGetGame(ctx, cmd)
	case CmdGetBoard:
		return p.handleGetBoard(ctx, cmd)
	case CmdGetLegalMoves:
		return p.handleGetLegalMoves(ctx, cmd)
	case CmdMakeMove:
		return p.handleMakeMove(ctx, cmd)
	case CmdGetHistory:
		return p.handleGetHistory(ctx, cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(ctx context.Context, cmd Command) ProcessorResponse {
	g, err := p.svc.CreateNewGame(ctx)
	if err != nil {
		return p.failure(err)
	}

	if cmd.UserID != "" {
		p.log.Info().Str("game", g.ID).Str("user", cmd.UserID).Msg("game created")
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(g, nil),
	}
}

func (p *Processor) handleListGames(ctx context.Context) ProcessorResponse {
	games, err := p.svc.ListGames(ctx)
	if err != nil {
		return p.failure(err)
	}

	resp := core.GamesResponse{Games: make([]core.GameResponse, 0, len(games))}
	for _, g := range games {
		resp.Games = append(resp.Games, buildGameResponse(g, nil))
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

func (p *Processor) handleGetGame(ctx context.Context, cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(ctx, cmd.GameID)
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(g, nil),
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(ctx context.Context, cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(ctx, cmd.GameID)
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Placement: g.Board.Placement(),
			Board:     g.Board.ToASCII(),
		},
	}
}

func (p *Processor) handleGetLegalMoves(ctx context.Context, cmd Command) ProcessorResponse {
	square, ok := cmd.Args.(string)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	piece, moves, err := p.svc.GetLegalMoves(ctx, cmd.GameID, square)
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.LegalMovesResponse{
			GameID: cmd.GameID,
			Square: square,
			Piece:  piece,
			Moves:  moves,
		},
	}
}

func (p *Processor) handleMakeMove(ctx context.Context, cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, move, err := p.svc.MakeMove(ctx, cmd.GameID, args.From, args.To)
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(g, &move),
	}
}

func (p *Processor) handleGetHistory(ctx context.Context, cmd Command) ProcessorResponse {
	history, err := p.svc.GetHistory(ctx, cmd.GameID)
	if err != nil {
		return p.failure(err)
	}

	resp := core.HistoryResponse{
		GameID:  cmd.GameID,
		Entries: make([]core.HistoryEntryResponse, 0, len(history)),
	}
	for _, h := range history {
		resp.Entries = append(resp.Entries, core.HistoryEntryResponse{
			Sequence:  h.Sequence,
			Piece:     h.MovingPiece,
			Move:      h.Move,
			CreatedAt: h.CreatedAt,
		})
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// buildGameResponse constructs standard game response
func buildGameResponse(g game.Game, lastMove *core.Move) core.GameResponse {
	return core.GameResponse{
		GameID:     g.ID,
		NextPlayer: g.NextPlayer.String(),
		Board:      g.Board.Grid(),
		Placement:  g.Board.Placement(),
		MoveCount:  g.Version,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
		LastMove:   lastMove,
	}
}

// failure turns a service error into an error response carrying its code
func (p *Processor) failure(err error) ProcessorResponse {
	code := core.CodeFor(err)
	if code == core.ErrInternalError || code == core.ErrPersistence {
		p.log.Error().Err(err).Str("code", code).Msg("command failed")
	}

	resp := p.errorResponse(errorMessages[code], code)
	resp.Error.Details = err.Error()
	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
