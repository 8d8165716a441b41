package core

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrInvalidCoordinate = "INVALID_COORDINATE"
	ErrBlankSquare       = "BLANK_SQUARE"
	ErrUnsupportedPiece  = "UNSUPPORTED_PIECE"
	ErrWrongTurn         = "WRONG_TURN"
	ErrPersistence       = "PERSISTENCE_FAILURE"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
)

// Sentinel errors, one per failure kind. Match with errors.Is.
var (
	ErrCoordinate  = errors.New("invalid coordinate")
	ErrNotFound    = errors.New("game not found")
	ErrBlank       = errors.New("blank square")
	ErrUnsupported = errors.New("unsupported piece type")
	ErrTurn        = errors.New("wrong turn")
	ErrIllegal     = errors.New("illegal move")
	ErrStorage     = errors.New("persistence failure")
)

// InvalidCoordinateError names the malformed input and the rule it broke.
type InvalidCoordinateError struct {
	Input  string
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: %s", e.Input, e.Reason)
}

func (e *InvalidCoordinateError) Unwrap() error { return ErrCoordinate }

type BlankSquareError struct {
	Square string
}

func (e *BlankSquareError) Error() string {
	return fmt.Sprintf("no piece on %s", e.Square)
}

func (e *BlankSquareError) Unwrap() error { return ErrBlank }

type UnsupportedPieceError struct {
	Type PieceType
}

func (e *UnsupportedPieceError) Error() string {
	return fmt.Sprintf("move rules for %s are not implemented, only pawn moves are supported", e.Type)
}

func (e *UnsupportedPieceError) Unwrap() error { return ErrUnsupported }

// WrongTurnError carries the color that was expected to move.
type WrongTurnError struct {
	Expected Color
}

func (e *WrongTurnError) Error() string {
	return fmt.Sprintf("it is %s's turn to move", e.Expected)
}

func (e *WrongTurnError) Unwrap() error { return ErrTurn }

type IllegalMoveError struct {
	From string
	To   string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move from %s to %s", e.From, e.To)
}

func (e *IllegalMoveError) Unwrap() error { return ErrIllegal }

// CodeFor maps an error onto its API error code
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrCoordinate):
		return ErrInvalidCoordinate
	case errors.Is(err, ErrNotFound):
		return ErrGameNotFound
	case errors.Is(err, ErrBlank):
		return ErrBlankSquare
	case errors.Is(err, ErrUnsupported):
		return ErrUnsupportedPiece
	case errors.Is(err, ErrTurn):
		return ErrWrongTurn
	case errors.Is(err, ErrIllegal):
		return ErrInvalidMove
	case errors.Is(err, ErrStorage):
		return ErrPersistence
	default:
		return ErrInternalError
	}
}
