package core

import "time"

// Request types

type MoveRequest struct {
	From string `json:"from" validate:"square"`
	To   string `json:"to" validate:"square"`
}

// Response types

type GameResponse struct {
	GameID     string       `json:"gameId"`
	NextPlayer string       `json:"nextPlayer"` // "white" or "black"
	Board      [8][8]*Piece `json:"board"`      // row 0 is rank 8
	Placement  string       `json:"placement"`
	MoveCount  int          `json:"moveCount"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	LastMove   *Move        `json:"lastMove,omitempty"`
}

type GamesResponse struct {
	Games []GameResponse `json:"games"`
}

type BoardResponse struct {
	Placement string `json:"placement"`
	Board     string `json:"board"` // ASCII representation
}

type LegalMovesResponse struct {
	GameID string `json:"gameId"`
	Square string `json:"square"`
	Piece  Piece  `json:"piece"`
	Moves  []Move `json:"moves"`
}

type HistoryEntryResponse struct {
	Sequence  int       `json:"sequence"`
	Piece     Piece     `json:"piece"`
	Move      Move      `json:"move"`
	CreatedAt time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	GameID  string                 `json:"gameId"`
	Entries []HistoryEntryResponse `json:"entries"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
