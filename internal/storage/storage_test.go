package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pawnchess/internal/board"
	"pawnchess/internal/core"
	"pawnchess/internal/game"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

type repository interface {
	CreateGame(ctx context.Context, g game.Game) error
	LoadGame(ctx context.Context, gameID string) (game.Game, error)
	CommitMove(ctx context.Context, tr game.Transition) error
	ListHistory(ctx context.Context, gameID string) ([]game.HistoryEntry, error)
	ListGames(ctx context.Context) ([]game.Game, error)
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "chess.db"), true, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func stores(t *testing.T) map[string]repository {
	return map[string]repository{
		"sqlite": newSQLiteStore(t),
		"memory": NewMemoryStore(),
	}
}

func mustApply(t *testing.T, g game.Game, from, to string, now time.Time) game.Transition {
	t.Helper()
	tr, err := game.Apply(g, from, to, now)
	if err != nil {
		t.Fatalf("Apply(%s, %s): %v", from, to, err)
	}
	return tr
}

func TestCreateAndLoad(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New("game-1", t0)

			if err := repo.CreateGame(ctx, g); err != nil {
				t.Fatalf("CreateGame: %v", err)
			}
			if err := repo.CreateGame(ctx, g); err == nil {
				t.Error("second CreateGame with the same id succeeded")
			}

			got, err := repo.LoadGame(ctx, "game-1")
			if err != nil {
				t.Fatalf("LoadGame: %v", err)
			}
			if diff := cmp.Diff(g, got); diff != "" {
				t.Errorf("loaded game mismatch (-want +got):\n%s", diff)
			}

			if _, err := repo.LoadGame(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
				t.Errorf("LoadGame(missing) = %v, want not found", err)
			}
		})
	}
}

func TestCommitMove(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New("game-1", t0)
			if err := repo.CreateGame(ctx, g); err != nil {
				t.Fatal(err)
			}

			first := mustApply(t, g, "e2", "e4", t0.Add(time.Second))
			if err := repo.CommitMove(ctx, first); err != nil {
				t.Fatalf("CommitMove: %v", err)
			}
			second := mustApply(t, first.Game, "d7", "d5", t0.Add(2*time.Second))
			if err := repo.CommitMove(ctx, second); err != nil {
				t.Fatalf("CommitMove: %v", err)
			}

			got, err := repo.LoadGame(ctx, "game-1")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(second.Game, got); diff != "" {
				t.Errorf("game mismatch (-want +got):\n%s", diff)
			}

			history, err := repo.ListHistory(ctx, "game-1")
			if err != nil {
				t.Fatalf("ListHistory: %v", err)
			}
			want := []game.HistoryEntry{first.Entry, second.Entry}
			if diff := cmp.Diff(want, history); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommitMoveVersionConflict(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New("game-1", t0)
			if err := repo.CreateGame(ctx, g); err != nil {
				t.Fatal(err)
			}

			// both computed from the same stale version 0
			a := mustApply(t, g, "e2", "e4", t0)
			b := mustApply(t, g, "d2", "d4", t0)

			if err := repo.CommitMove(ctx, a); err != nil {
				t.Fatalf("first commit: %v", err)
			}
			if err := repo.CommitMove(ctx, b); !errors.Is(err, ErrVersionConflict) {
				t.Fatalf("stale commit = %v, want version conflict", err)
			}

			got, _ := repo.LoadGame(ctx, "game-1")
			if !got.Board.Equal(a.Game.Board) {
				t.Error("stale commit changed the board")
			}
			history, _ := repo.ListHistory(ctx, "game-1")
			if len(history) != 1 {
				t.Errorf("history has %d entries, want 1", len(history))
			}
		})
	}
}

func TestCommitMoveUnknownGame(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			tr := mustApply(t, game.New("ghost", t0), "e2", "e4", t0)
			if err := repo.CommitMove(context.Background(), tr); !errors.Is(err, core.ErrNotFound) {
				t.Errorf("CommitMove = %v, want not found", err)
			}
			if _, err := repo.ListHistory(context.Background(), "ghost"); !errors.Is(err, core.ErrNotFound) {
				t.Errorf("ListHistory = %v, want not found", err)
			}
		})
	}
}

func TestConcurrentCommitsSameVersion(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := game.New("game-1", t0)
			if err := repo.CreateGame(ctx, g); err != nil {
				t.Fatal(err)
			}

			froms := []string{"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2"}
			errs := make([]error, len(froms))
			var wg sync.WaitGroup
			for i, from := range froms {
				tr := mustApply(t, g, from, from[:1]+"3", t0)
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs[i] = repo.CommitMove(ctx, tr)
				}()
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				switch {
				case err == nil:
					succeeded++
				case !errors.Is(err, ErrVersionConflict):
					t.Errorf("unexpected error: %v", err)
				}
			}
			if succeeded != 1 {
				t.Errorf("%d commits succeeded, want exactly 1", succeeded)
			}

			history, _ := repo.ListHistory(ctx, "game-1")
			if len(history) != 1 {
				t.Errorf("history has %d entries, want 1", len(history))
			}
		})
	}
}

func TestListGames(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, id := range []string{"old", "new"} {
				if err := repo.CreateGame(ctx, game.New(id, t0.Add(time.Duration(i)*time.Hour))); err != nil {
					t.Fatal(err)
				}
			}

			games, err := repo.ListGames(ctx)
			if err != nil {
				t.Fatalf("ListGames: %v", err)
			}
			var ids []string
			for _, g := range games {
				ids = append(ids, g.ID)
			}
			if diff := cmp.Diff([]string{"new", "old"}, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// A failing history insert must leave the game row exactly as it was.
func TestCommitMoveRollsBackOnHistoryFailure(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	g := game.New("game-1", t0)
	if err := s.CreateGame(ctx, g); err != nil {
		t.Fatal(err)
	}

	// occupy move number 1 so the history insert violates UNIQUE(game_id, move_number)
	_, err := s.db.Exec(`INSERT INTO moves (
		game_id, move_number, from_square, to_square, kind, piece_type, player_color, move_time_utc
	) VALUES (?, 1, 'a2', 'a3', 'MOVE', 'p', 'w', ?)`, g.ID, t0)
	if err != nil {
		t.Fatalf("seed move: %v", err)
	}

	tr := mustApply(t, g, "e2", "e4", t0.Add(time.Minute))
	if err := s.CommitMove(ctx, tr); err == nil {
		t.Fatal("CommitMove succeeded despite the conflicting history row")
	}

	got, err := s.LoadGame(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("game changed after failed commit (-want +got):\n%s", diff)
	}
	if !s.IsHealthy() {
		t.Error("a rejected write should not mark the store degraded")
	}
}

func TestQueryGames(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := s.CreateGame(ctx, game.New(id, t0)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.QueryGames(ctx, "*")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("QueryGames(*) returned %d rows, want 2", len(all))
	}

	one, err := s.QueryGames(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].GameID != "b" {
		t.Fatalf("QueryGames(b) = %+v", one)
	}
	if one[0].Placement != board.StartingPlacement || one[0].NextPlayer != "w" {
		t.Errorf("record = %+v", one[0])
	}
}

func TestWriteAfterClose(t *testing.T) {
	s := newSQLiteStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	err := s.CreateGame(context.Background(), game.New("late", t0))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("CreateGame after Close = %v, want ErrClosed", err)
	}
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	s, err := NewStore(path, false, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDB(); err != nil {
		t.Fatalf("DeleteDB: %v", err)
	}
	if matches, _ := filepath.Glob(path + "*"); len(matches) != 0 {
		t.Errorf("files left behind: %v", matches)
	}
}
