package core

import "fmt"

type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorBlack:
		return "black"
	default:
		return "unknown"
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts "white"/"black" and the short "w"/"b" forms
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return ColorWhite, nil
	case "black", "b":
		return ColorBlack, nil
	default:
		return 0, fmt.Errorf("invalid color: %q", s)
	}
}

// PieceType is the closed set of chessmen. The zero value marks an empty cell.
type PieceType byte

const (
	NoPiece PieceType = 0
	King    PieceType = 'k'
	Queen   PieceType = 'q'
	Bishop  PieceType = 'b'
	Knight  PieceType = 'n'
	Rook    PieceType = 'r'
	Pawn    PieceType = 'p'
)

var pieceNames = map[PieceType]string{
	King:   "king",
	Queen:  "queen",
	Bishop: "bishop",
	Knight: "knight",
	Rook:   "rook",
	Pawn:   "pawn",
}

func (t PieceType) String() string {
	if name, ok := pieceNames[t]; ok {
		return name
	}
	return "none"
}

func (t PieceType) Valid() bool {
	_, ok := pieceNames[t]
	return ok
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	for pt, name := range pieceNames {
		if name == string(text) {
			*t = pt
			return nil
		}
	}
	return fmt.Errorf("invalid piece type: %q", text)
}

// Piece is an immutable value; a zero Piece means "no piece"
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsZero() bool {
	return p.Type == NoPiece
}

// Letter returns the FEN letter: uppercase for white, lowercase for black
func (p Piece) Letter() byte {
	if p.IsZero() {
		return 0
	}
	if p.Color == ColorWhite {
		return byte(p.Type) - ('a' - 'A')
	}
	return byte(p.Type)
}

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}

// PieceFromLetter is the inverse of Piece.Letter
func PieceFromLetter(ch byte) (Piece, bool) {
	color := ColorBlack
	if ch >= 'A' && ch <= 'Z' {
		color = ColorWhite
		ch += 'a' - 'A'
	}
	t := PieceType(ch)
	if !t.Valid() {
		return Piece{}, false
	}
	return Piece{Type: t, Color: color}, true
}

type MoveKind string

const (
	MoveKindMove    MoveKind = "MOVE"
	MoveKindCapture MoveKind = "CAPTURE"
)

// Move is a pure value and carries no board state
type Move struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind MoveKind `json:"kind"`
}

func (m Move) String() string {
	if m.Kind == MoveKindCapture {
		return m.From + "x" + m.To
	}
	return m.From + "-" + m.To
}
