// Package main runs pawn chess in the local terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"pawnchess/internal/cli"
	"pawnchess/internal/service"
	"pawnchess/internal/storage"
	clitransport "pawnchess/internal/transport/cli"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func main() {
	storagePath := flag.String("storage-path", "", "Path to SQLite database file (games kept in memory if empty)")
	theme := flag.String("color", "", "Board color theme (off|brown|green|gray), default brown on a terminal")
	debug := flag.Bool("debug", false, "Log service activity to stderr")
	flag.Parse()

	logger := zerolog.Nop()
	if *debug {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	var repo service.Repository = storage.NewMemoryStore()
	if *storagePath != "" {
		store, err := storage.NewStore(*storagePath, false, logger)
		if err != nil {
			fmt.Printf("Failed to start: %v\n", err)
			os.Exit(1)
		}
		if err := store.InitDB(); err != nil {
			fmt.Printf("Failed to start: %v\n", err)
			os.Exit(1)
		}
		repo = store
	}

	svc := service.New(repo, nil, logger)
	defer svc.Shutdown(time.Second)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	var input cli.LineReader
	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     ".pawnchess_history",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			fmt.Printf("Failed to start: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()
		input = rl
	} else {
		input = cli.NewLineScanner(os.Stdin)
	}

	view := cli.New(input, os.Stdout)

	selected := cli.ThemeOff
	if interactive {
		selected = cli.ThemeBrown
	}
	if *theme != "" {
		selected = cli.ColorTheme(*theme)
	}
	if err := view.SetTheme(selected); err != nil {
		view.ShowError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	if err := handler.Run(ctx); err != nil && err != readline.ErrInterrupt {
		view.ShowError(err)
	}
}
