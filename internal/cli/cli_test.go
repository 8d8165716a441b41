package cli

import (
	"bytes"
	"strings"
	"testing"

	"pawnchess/internal/board"
	"pawnchess/internal/core"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"new", Command{Type: CmdNew, Raw: "new"}},
		{"games", Command{Type: CmdGames, Raw: "games"}},
		{"load abc", Command{Type: CmdLoad, Args: []string{"abc"}, Raw: "load abc"}},
		{"moves e2", Command{Type: CmdMoves, Args: []string{"e2"}, Raw: "moves e2"}},
		{"e2 e4", Command{Type: CmdMove, Args: []string{"e2", "e4"}, Raw: "e2 e4"}},
		{"e2e4", Command{Type: CmdMove, Args: []string{"e2", "e4"}, Raw: "e2e4"}},
		{"castle", Command{Type: CmdMove, Args: []string{"castle"}, Raw: "castle"}},
		{"?", Command{Type: CmdHelp, Raw: "?"}},
		{"exit", Command{Type: CmdQuit, Raw: "exit"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(&tt.want, ParseCommand(tt.input)); diff != "" {
				t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestGetCommandEOF(t *testing.T) {
	c := New(NewLineScanner(strings.NewReader("  \nboard\n")), &bytes.Buffer{})

	for _, want := range []CommandType{CmdNone, CmdBoard, CmdQuit} {
		cmd, err := c.GetCommand("> ")
		if err != nil {
			t.Fatal(err)
		}
		if cmd.Type != want {
			t.Errorf("command type = %v, want %v", cmd.Type, want)
		}
	}
}

func TestDisplayBoard(t *testing.T) {
	var out bytes.Buffer
	c := New(NewLineScanner(strings.NewReader("")), &out)

	c.DisplayBoard(board.NewInitial())
	got := out.String()
	for _, line := range []string{
		"8 r n b k q b n r  8",
		"6 . . . . . . . .  6",
		"1 R N B K Q B N R  1",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("board output missing %q:\n%s", line, got)
		}
	}

	if err := c.SetTheme("purple"); err == nil {
		t.Error("unknown theme accepted")
	}
	if err := c.SetTheme(ThemeGreen); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	c.DisplayBoard(board.NewInitial())
	if !strings.Contains(out.String(), "\033[48;5;22m") {
		t.Error("green theme not applied")
	}
}

func TestShowLegalMoves(t *testing.T) {
	var out bytes.Buffer
	c := New(NewLineScanner(strings.NewReader("")), &out)
	pawn := core.Piece{Type: core.Pawn, Color: core.ColorWhite}

	c.ShowLegalMoves("d4", pawn, []core.Move{
		{From: "d4", To: "d5", Kind: core.MoveKindMove},
		{From: "d4", To: "e5", Kind: core.MoveKindCapture},
	})
	c.ShowLegalMoves("a2", pawn, []core.Move{})

	want := "white pawn on d4: d5 e5(x)\nwhite pawn on a2 has no legal moves\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
