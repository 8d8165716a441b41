package service

import (
	"context"
	"errors"
	"fmt"

	"pawnchess/internal/board"
	"pawnchess/internal/core"
	"pawnchess/internal/game"
)

// CreateNewGame creates and stores a game on the starting board, white to move
func (s *Service) CreateNewGame(ctx context.Context) (game.Game, error) {
	g := game.New(s.GenerateGameID(), s.now())

	if err := s.repo.CreateGame(ctx, g); err != nil {
		s.log.Error().Err(err).Str("game", g.ID).Msg("create game failed")
		return game.Game{}, fmt.Errorf("%w: %w", core.ErrStorage, err)
	}

	s.log.Debug().Str("game", g.ID).Msg("game created")
	return g, nil
}

func (s *Service) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	g, err := s.repo.LoadGame(ctx, gameID)
	if err != nil {
		return game.Game{}, s.storageError(err)
	}
	return g, nil
}

func (s *Service) ListGames(ctx context.Context) ([]game.Game, error) {
	games, err := s.repo.ListGames(ctx)
	if err != nil {
		return nil, s.storageError(err)
	}
	return games, nil
}

// GetLegalMoves lists the legal moves of the piece on square
func (s *Service) GetLegalMoves(ctx context.Context, gameID, square string) (core.Piece, []core.Move, error) {
	if err := board.ValidateSquare(square); err != nil {
		return core.Piece{}, nil, err
	}

	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return core.Piece{}, nil, err
	}

	return g.LegalMoves(square)
}

// MakeMove applies from -> to and commits the result. Moves on the same game are
// serialized here; storage additionally rejects commits computed from a stale version.
func (s *Service) MakeMove(ctx context.Context, gameID, from, to string) (game.Game, core.Move, error) {
	if err := board.ValidateSquare(from); err != nil {
		return game.Game{}, core.Move{}, err
	}
	if err := board.ValidateSquare(to); err != nil {
		return game.Game{}, core.Move{}, err
	}

	unlock := s.locks.lock(gameID)
	defer unlock()

	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, core.Move{}, err
	}

	tr, err := game.Apply(g, from, to, s.now())
	if err != nil {
		return game.Game{}, core.Move{}, err
	}

	if err := s.repo.CommitMove(ctx, tr); err != nil {
		s.log.Error().Err(err).Str("game", gameID).Str("move", tr.Move.String()).Msg("commit move failed")
		return game.Game{}, core.Move{}, s.storageError(err)
	}

	s.log.Debug().
		Str("game", gameID).
		Str("move", tr.Move.String()).
		Str("piece", tr.Entry.MovingPiece.String()).
		Int("version", tr.Game.Version).
		Msg("move committed")

	s.waiter.NotifyGame(gameID, tr.Game.Version)
	return tr.Game, tr.Move, nil
}

// GetHistory returns the moves of a game in play order
func (s *Service) GetHistory(ctx context.Context, gameID string) ([]game.HistoryEntry, error) {
	history, err := s.repo.ListHistory(ctx, gameID)
	if err != nil {
		return nil, s.storageError(err)
	}
	return history, nil
}

// storageError passes not-found and context errors through and marks the rest
// as a persistence failure
func (s *Service) storageError(err error) error {
	if errors.Is(err, core.ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrStorage, err)
}
