package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pawnchess/internal/board"
	"pawnchess/internal/core"
	"pawnchess/internal/game"
)

// CreateGame inserts a freshly created game
func (s *Store) CreateGame(ctx context.Context, g game.Game) error {
	record := toGameRecord(g)
	return s.write(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, placement, next_player, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Placement, record.NextPlayer,
			record.Version, record.CreatedAt, record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
		return nil
	})
}

// CommitMove stores the new board, next player and history entry of tr in one
// transaction. The update only applies while the stored version still equals
// tr.PreviousVersion; otherwise nothing is written and ErrVersionConflict is returned.
func (s *Store) CommitMove(ctx context.Context, tr game.Transition) error {
	record := toGameRecord(tr.Game)
	move := toMoveRecord(tr.Entry)

	return s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE games
			SET placement = ?, next_player = ?, version = ?, updated_at = ?
			WHERE game_id = ? AND version = ?`,
			record.Placement, record.NextPlayer, record.Version, record.UpdatedAt,
			record.GameID, tr.PreviousVersion,
		)
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		if n == 0 {
			var exists int
			err := tx.QueryRow(`SELECT 1 FROM games WHERE game_id = ?`, record.GameID).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("game %s: %w", record.GameID, core.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("check game: %w", err)
			}
			return fmt.Errorf("game %s at version %d: %w", record.GameID, tr.PreviousVersion, ErrVersionConflict)
		}

		_, err = tx.Exec(`INSERT INTO moves (
			game_id, move_number, from_square, to_square, kind, piece_type, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			move.GameID, move.MoveNumber, move.FromSquare, move.ToSquare,
			move.Kind, move.PieceType, move.PlayerColor, move.MoveTimeUTC,
		)
		if err != nil {
			return fmt.Errorf("insert move: %w", err)
		}
		return nil
	})
}

// LoadGame reads a game by id
func (s *Store) LoadGame(ctx context.Context, gameID string) (game.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		game_id, placement, next_player, version, created_at, updated_at
	FROM games WHERE game_id = ?`, gameID)

	var r GameRecord
	err := row.Scan(&r.GameID, &r.Placement, &r.NextPlayer, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, fmt.Errorf("game %s: %w", gameID, core.ErrNotFound)
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("load game: %w", err)
	}

	return r.toGame()
}

// ListGames returns every stored game, newest first
func (s *Store) ListGames(ctx context.Context) ([]game.Game, error) {
	records, err := s.QueryGames(ctx, "")
	if err != nil {
		return nil, err
	}

	games := make([]game.Game, 0, len(records))
	for _, r := range records {
		g, err := r.toGame()
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

// ListHistory returns the moves of a game in the order they were played
func (s *Store) ListHistory(ctx context.Context, gameID string) ([]game.HistoryEntry, error) {
	if _, err := s.LoadGame(ctx, gameID); err != nil {
		return nil, err
	}

	records, err := s.QueryMoves(ctx, gameID)
	if err != nil {
		return nil, err
	}

	entries := make([]game.HistoryEntry, 0, len(records))
	for _, r := range records {
		e, err := r.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// QueryGames retrieves game rows, optionally filtered by id ("" or "*" for all)
func (s *Store) QueryGames(ctx context.Context, gameID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, placement, next_player, version, created_at, updated_at
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.Placement, &g.NextPlayer, &g.Version, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves retrieves the move rows of one game ordered by move number
func (s *Store) QueryMoves(ctx context.Context, gameID string) ([]MoveRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		move_id, game_id, move_number, from_square, to_square, kind, piece_type, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.FromSquare, &m.ToSquare,
			&m.Kind, &m.PieceType, &m.PlayerColor, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}

func toGameRecord(g game.Game) GameRecord {
	return GameRecord{
		GameID:     g.ID,
		Placement:  g.Board.Placement(),
		NextPlayer: string(rune(g.NextPlayer)),
		Version:    g.Version,
		CreatedAt:  g.CreatedAt.UTC(),
		UpdatedAt:  g.UpdatedAt.UTC(),
	}
}

func (r GameRecord) toGame() (game.Game, error) {
	b, err := board.ParsePlacement(r.Placement)
	if err != nil {
		return game.Game{}, fmt.Errorf("game %s: %w", r.GameID, err)
	}
	next, err := core.ParseColor(r.NextPlayer)
	if err != nil {
		return game.Game{}, fmt.Errorf("game %s: %w", r.GameID, err)
	}
	return game.Game{
		ID:         r.GameID,
		Board:      b,
		NextPlayer: next,
		Version:    r.Version,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func toMoveRecord(e game.HistoryEntry) MoveRecord {
	return MoveRecord{
		GameID:      e.GameID,
		MoveNumber:  e.Sequence,
		FromSquare:  e.Move.From,
		ToSquare:    e.Move.To,
		Kind:        string(e.Move.Kind),
		PieceType:   string(rune(e.MovingPiece.Type)),
		PlayerColor: string(rune(e.MovingPiece.Color)),
		MoveTimeUTC: e.CreatedAt.UTC(),
	}
}

func (r MoveRecord) toEntry() (game.HistoryEntry, error) {
	color, err := core.ParseColor(r.PlayerColor)
	if err != nil {
		return game.HistoryEntry{}, fmt.Errorf("move %d: %w", r.MoveID, err)
	}
	if len(r.PieceType) != 1 || !core.PieceType(r.PieceType[0]).Valid() {
		return game.HistoryEntry{}, fmt.Errorf("move %d: invalid piece type %q", r.MoveID, r.PieceType)
	}
	return game.HistoryEntry{
		GameID:   r.GameID,
		Sequence: r.MoveNumber,
		MovingPiece: core.Piece{
			Type:  core.PieceType(r.PieceType[0]),
			Color: color,
		},
		Move: core.Move{
			From: r.FromSquare,
			To:   r.ToSquare,
			Kind: core.MoveKind(r.Kind),
		},
		CreatedAt: r.MoveTimeUTC,
	}, nil
}
