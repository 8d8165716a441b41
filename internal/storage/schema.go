package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID     string    `db:"game_id"`
	Placement  string    `db:"placement"`
	NextPlayer string    `db:"next_player"` // "w" or "b"
	Version    int       `db:"version"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID      int64     `db:"move_id"`
	GameID      string    `db:"game_id"`
	MoveNumber  int       `db:"move_number"`
	FromSquare  string    `db:"from_square"`
	ToSquare    string    `db:"to_square"`
	Kind        string    `db:"kind"`
	PieceType   string    `db:"piece_type"`   // FEN letter, lowercase
	PlayerColor string    `db:"player_color"` // "w" or "b"
	MoveTimeUTC time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	placement TEXT NOT NULL,
	next_player TEXT NOT NULL CHECK(next_player IN ('w', 'b')),
	version INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	from_square TEXT NOT NULL,
	to_square TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('MOVE', 'CAPTURE')),
	piece_type TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_created_at ON games(created_at);
`
