package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pawnchess/internal/game"
	"pawnchess/internal/storage"

	"github.com/lixenwraith/auth"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret-minimum-32-characters-long"

func TestDBCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	var out bytes.Buffer

	if err := run([]string{"init", "-path", path}, &out); err != nil {
		t.Fatalf("init: %v", err)
	}

	// seed one game with a move
	store, err := storage.NewStore(path, false, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := game.New("0f5c2b0e-6a39-4c43-9a8e-3f0b3c8d1a77", now)
	if err := store.CreateGame(context.Background(), g); err != nil {
		t.Fatal(err)
	}
	tr, err := game.Apply(g, "e2", "e4", now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CommitMove(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	store.Close()

	out.Reset()
	if err := run([]string{"query", "-path", path, "-gameId", "*"}, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out.String(), g.ID) || !strings.Contains(out.String(), "Found 1 game(s)") {
		t.Errorf("query output:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"history", "-path", path, "-gameId", g.ID}, &out); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out.String(), "e2") || !strings.Contains(out.String(), "MOVE") {
		t.Errorf("history output:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"delete", "-path", path}, &out); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDBCommandErrors(t *testing.T) {
	var out bytes.Buffer
	for _, args := range [][]string{
		nil,
		{"drop"},
		{"init"},
		{"history", "-path", "x.db"},
	} {
		if err := run(args, &out); err == nil {
			t.Errorf("run(%v) succeeded", args)
		}
	}
}

func TestTokenCommand(t *testing.T) {
	var out bytes.Buffer
	if err := runToken([]string{"-secret", testSecret, "-subject", "alice", "-ttl", "1h"}, &out); err != nil {
		t.Fatalf("token: %v", err)
	}

	subject, claims, err := auth.ValidateHS256Token([]byte(testSecret), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if subject != "alice" || claims["scope"] != "moves" {
		t.Errorf("subject %q, claims %v", subject, claims)
	}

	if err := runToken([]string{"-secret", "short", "-subject", "alice"}, &out); err == nil {
		t.Error("short secret accepted")
	}
	if err := runToken([]string{"-secret", testSecret}, &out); err == nil {
		t.Error("missing subject accepted")
	}
}
