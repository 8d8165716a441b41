package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawnchess/internal/game"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"github.com/rs/zerolog"
)

// Repository is the persistence collaborator. CommitMove must make the board,
// next player and history entry of a transition visible together or not at all,
// and refuse transitions whose PreviousVersion is stale.
type Repository interface {
	LoadGame(ctx context.Context, gameID string) (game.Game, error)
	CreateGame(ctx context.Context, g game.Game) error
	CommitMove(ctx context.Context, tr game.Transition) error
	ListHistory(ctx context.Context, gameID string) ([]game.HistoryEntry, error)
	ListGames(ctx context.Context) ([]game.Game, error)
	IsHealthy() bool
	Close() error
}

// Service coordinates games, storage and waiting clients
type Service struct {
	repo        Repository
	tokenSecret []byte
	waiter      *WaitRegistry
	locks       *gameLocks
	log         zerolog.Logger
	now         func() time.Time
}

// New creates a service over repo. A nil or empty tokenSecret disables API tokens.
func New(repo Repository, tokenSecret []byte, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		tokenSecret: tokenSecret,
		waiter:      NewWaitRegistry(),
		locks:       newGameLocks(),
		log:         log.With().Str("component", "service").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GenerateGameID returns a fresh random game id
func (s *Service) GenerateGameID() string {
	return uuid.New().String()
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.repo.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for the game to move past version
func (s *Service) RegisterWait(ctx context.Context, gameID string, version int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, version)
}

// TokensEnabled reports whether mutating API calls require a bearer token
func (s *Service) TokensEnabled() bool {
	return len(s.tokenSecret) > 0
}

// ValidateToken verifies an HS256 token and returns its subject and claims
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	if !s.TokensEnabled() {
		return "", nil, errors.New("api tokens are disabled")
	}
	return auth.ValidateHS256Token(s.tokenSecret, token)
}

// GenerateToken issues an HS256 API token for subject
func GenerateToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := map[string]any{
		"scope": "moves",
	}
	return auth.GenerateHS256Token(secret, subject, claims, ttl)
}

// Shutdown releases waiting clients and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	if err := s.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}

	return errors.Join(errs...)
}
