// Package main implements the pawn chess server: a REST API over the move
// engine with optional SQLite persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawnchess/cmd/chess-server/cli"
	"pawnchess/internal/http"
	"pawnchess/internal/processor"
	"pawnchess/internal/service"
	"pawnchess/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	devTokenSecret          = "dev-secret-minimum-32-characters-long"
)

func main() {
	// Check for CLI subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db":
			if err := cli.Run(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		case "token":
			if err := cli.RunToken(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, WAL journal, fixed token secret)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (games kept in memory if empty)")
		tokenSecret = flag.String("token-secret", "", "Secret for API tokens, at least 32 characters (tokens not required if empty)")
		logLevel    = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	)
	flag.Parse()

	logger := newLogger(*logLevel)

	// 1. Initialize storage
	var repo service.Repository
	if *storagePath != "" {
		logger.Info().Str("path", *storagePath).Msg("initializing persistent storage")
		store, err := storage.NewStore(*storagePath, *dev, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize schema")
		}
		repo = store
	} else {
		logger.Info().Msg("persistent storage disabled, games kept in memory (use -storage-path to enable)")
		repo = storage.NewMemoryStore()
	}

	// Token secret management
	var secret []byte
	switch {
	case *tokenSecret != "":
		if len(*tokenSecret) < 32 {
			logger.Fatal().Msg("-token-secret must be at least 32 characters")
		}
		secret = []byte(*tokenSecret)
	case *dev:
		secret = []byte(devTokenSecret)
		logger.Warn().Msg("using fixed token secret (dev mode)")
	}

	// 2. Service, processor and HTTP app
	svc := service.New(repo, secret, logger)
	proc := processor.New(svc, logger)
	app := http.NewFiberApp(proc, svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		rate := 10
		if *dev {
			rate = 20
		}
		logger.Info().
			Str("addr", "http://"+apiAddr).
			Str("version", "v1").
			Int("rate_limit_rps", rate).
			Bool("tokens", svc.TokensEnabled()).
			Bool("persistent", *storagePath != "").
			Msg("pawn chess API server starting")
		logger.Info().Msgf("API Endpoints: http://%s/api/v1/games", apiAddr)
		logger.Info().Msgf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			logger.Error().Err(err).Msg("API server listen error")
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	// Releases waiting clients and closes storage
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		logger.Warn().Err(err).Msg("service shutdown error")
	}

	logger.Info().Msg("server exited")
}

// newLogger writes human readable logs to a terminal and JSON otherwise
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.Level(lvl).With().Timestamp().Logger()
	if err != nil {
		logger.Warn().Str("level", level).Msg("unknown log level, using info")
	}
	return logger
}
