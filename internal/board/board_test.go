package board

import (
	"errors"
	"strings"
	"testing"

	"pawnchess/internal/core"

	"github.com/google/go-cmp/cmp"
)

func TestSquareRoundTrip(t *testing.T) {
	for file := byte('a'); file <= 'h'; file++ {
		for rank := byte('1'); rank <= '8'; rank++ {
			sq := string([]byte{file, rank})
			cell, err := ParseSquare(sq)
			if err != nil {
				t.Fatalf("ParseSquare(%q): %v", sq, err)
			}
			if !cell.InBounds() {
				t.Fatalf("ParseSquare(%q) = %+v, out of bounds", sq, cell)
			}
			if got := ToSquare(cell); got != sq {
				t.Errorf("ToSquare(ToGridCell(%q)) = %q", sq, got)
			}
		}
	}

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			cell := GridCell{Row: row, Col: col}
			if got := ToGridCell(ToSquare(cell)); got != cell {
				t.Errorf("ToGridCell(ToSquare(%+v)) = %+v", cell, got)
			}
		}
	}
}

func TestToGridCell(t *testing.T) {
	tests := []struct {
		square string
		want   GridCell
	}{
		{"a8", GridCell{Row: 0, Col: 0}},
		{"h1", GridCell{Row: 7, Col: 7}},
		{"e2", GridCell{Row: 6, Col: 4}},
		{"d7", GridCell{Row: 1, Col: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			if got := ToGridCell(tt.square); got != tt.want {
				t.Errorf("ToGridCell(%q) = %+v, want %+v", tt.square, got, tt.want)
			}
		})
	}
}

func TestValidateSquare(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty", "", "must not be empty"},
		{"too long", "e10", "exactly 2 characters"},
		{"too short", "e", "exactly 2 characters"},
		{"bad file", "i4", "file must be"},
		{"uppercase file", "E4", "file must be"},
		{"rank zero", "a0", "rank must be"},
		{"rank nine", "a9", "rank must be"},
		{"swapped", "4e", "file must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSquare(tt.input)
			if !errors.Is(err, core.ErrCoordinate) {
				t.Fatalf("ValidateSquare(%q) = %v, want invalid coordinate", tt.input, err)
			}
			var coordErr *core.InvalidCoordinateError
			if !errors.As(err, &coordErr) {
				t.Fatalf("error %T is not *InvalidCoordinateError", err)
			}
			if coordErr.Input != tt.input {
				t.Errorf("Input = %q, want %q", coordErr.Input, tt.input)
			}
			if !strings.Contains(coordErr.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to mention %q", coordErr.Reason, tt.reason)
			}
		})
	}

	if err := ValidateSquare("e4"); err != nil {
		t.Errorf("ValidateSquare(e4) = %v", err)
	}
}

func TestNewInitial(t *testing.T) {
	b := NewInitial()

	if got := b.Count(core.ColorWhite); got != 16 {
		t.Errorf("white pieces = %d, want 16", got)
	}
	if got := b.Count(core.ColorBlack); got != 16 {
		t.Errorf("black pieces = %d, want 16", got)
	}

	for file := byte('a'); file <= 'h'; file++ {
		for _, rank := range []byte{'2', '7'} {
			sq := string([]byte{file, rank})
			p, ok, err := b.PieceAt(sq)
			if err != nil || !ok || p.Type != core.Pawn {
				t.Errorf("PieceAt(%s) = %v, %v, %v; want pawn", sq, p, ok, err)
			}
		}
		for rank := byte('3'); rank <= '6'; rank++ {
			sq := string([]byte{file, rank})
			if _, ok, _ := b.PieceAt(sq); ok {
				t.Errorf("PieceAt(%s) occupied, want empty", sq)
			}
		}
	}

	corners := map[string]core.Color{"a1": core.ColorWhite, "h1": core.ColorWhite, "a8": core.ColorBlack, "h8": core.ColorBlack}
	for sq, color := range corners {
		p, _, _ := b.PieceAt(sq)
		if diff := cmp.Diff(core.Piece{Type: core.Rook, Color: color}, p); diff != "" {
			t.Errorf("corner %s mismatch (-want +got):\n%s", sq, diff)
		}
	}

	if p, _, _ := b.PieceAt("d1"); p.Type != core.King {
		t.Errorf("d1 = %v, want king", p)
	}
	if p, _, _ := b.PieceAt("e8"); p.Type != core.Queen {
		t.Errorf("e8 = %v, want queen", p)
	}
}

func TestPieceAtInvalidCoordinate(t *testing.T) {
	_, _, err := NewInitial().PieceAt("z9")
	if !errors.Is(err, core.ErrCoordinate) {
		t.Fatalf("PieceAt(z9) error = %v, want invalid coordinate", err)
	}
}

func TestMovePieceReturnsNewBoard(t *testing.T) {
	original := NewInitial()
	from, to := ToGridCell("e2"), ToGridCell("e4")

	moved := original.MovePiece(from, to)

	if !original.At(to).IsZero() {
		t.Fatal("MovePiece mutated the receiver: e4 is occupied on the original")
	}
	if original.At(from).IsZero() {
		t.Fatal("MovePiece mutated the receiver: e2 is empty on the original")
	}
	if !moved.At(from).IsZero() {
		t.Error("e2 should be empty after the move")
	}
	if got := moved.At(to); got != (core.Piece{Type: core.Pawn, Color: core.ColorWhite}) {
		t.Errorf("e4 = %v, want white pawn", got)
	}
	if original.Equal(moved) {
		t.Error("boards should differ")
	}
}

func TestMovePieceOverwritesTarget(t *testing.T) {
	b := NewInitial().MovePiece(ToGridCell("a2"), ToGridCell("a7"))

	if got := b.At(ToGridCell("a7")); got.Color != core.ColorWhite {
		t.Errorf("a7 = %v, want white pawn", got)
	}
	if got := b.Count(core.ColorBlack); got != 15 {
		t.Errorf("black pieces = %d, want 15", got)
	}
}

func TestPlacement(t *testing.T) {
	b := NewInitial()
	if got := b.Placement(); got != StartingPlacement {
		t.Fatalf("Placement() = %q, want %q", got, StartingPlacement)
	}

	parsed, err := ParsePlacement(StartingPlacement)
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	if diff := cmp.Diff(b, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	moved := b.MovePiece(ToGridCell("e2"), ToGridCell("e4"))
	want := "rnbkqbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBKQBNR"
	if got := moved.Placement(); got != want {
		t.Errorf("Placement() after e2e4 = %q, want %q", got, want)
	}
}

func TestParsePlacementErrors(t *testing.T) {
	tests := []struct {
		name      string
		placement string
	}{
		{"too few ranks", "8/8/8"},
		{"short rank", "7/8/8/8/8/8/8/8"},
		{"long rank", "9/8/8/8/8/8/8/8"},
		{"too many pieces", "ppppppppp/8/8/8/8/8/8/8"},
		{"unknown piece", "x7/8/8/8/8/8/8/8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlacement(tt.placement); err == nil {
				t.Errorf("ParsePlacement(%q) succeeded, want error", tt.placement)
			}
		})
	}
}

func TestToASCII(t *testing.T) {
	ascii := NewInitial().ToASCII()
	lines := strings.Split(ascii, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if lines[1] != "8 r n b k q b n r  8" {
		t.Errorf("rank 8 = %q", lines[1])
	}
	if lines[5] != "4 . . . . . . . .  4" {
		t.Errorf("rank 4 = %q", lines[5])
	}
}
