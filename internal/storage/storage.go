package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var (
	// ErrVersionConflict means the stored game moved on since it was loaded
	ErrVersionConflict = errors.New("version conflict")

	// ErrClosed is returned for writes submitted after Close
	ErrClosed = errors.New("storage closed")
)

// writeRequest is one transactional write; the writer replies on done
type writeRequest struct {
	fn   func(*sql.Tx) error
	done chan error
}

// Store handles SQLite database operations. All writes are serialized through a
// single writer goroutine, each in its own transaction.
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan writeRequest
	healthStatus atomic.Bool
	log          zerolog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	stopped      chan struct{}
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closeErr     error
}

// NewStore opens the database at path and starts the writer
func NewStore(path string, devMode bool, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode in development for better concurrency
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      path,
		writeChan: make(chan writeRequest, 64),
		log:       log.With().Str("component", "storage").Logger(),
		ctx:       ctx,
		cancel:    cancel,
		stopped:   make(chan struct{}),
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// dataSourceName enables foreign keys and a busy timeout on every pooled connection
func dataSourceName(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// IsHealthy returns false after a transaction could not be started or committed.
// The next successful commit clears it.
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// write submits fn to the writer and waits for its outcome. A caller that gives
// up through ctx does not cancel a write the writer already picked up.
func (s *Store) write(ctx context.Context, fn func(*sql.Tx) error) error {
	req := writeRequest{fn: fn, done: make(chan error, 1)}

	select {
	case s.writeChan <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		select {
		case err := <-req.done:
			return err
		default:
			return ErrClosed
		}
	}
}

func (s *Store) writerLoop() {
	defer s.wg.Done()
	defer close(s.stopped)

	for {
		select {
		case <-s.ctx.Done():
			// Drain writes that were queued before Close
			for {
				select {
				case req := <-s.writeChan:
					req.done <- s.executeWrite(req.fn)
				default:
					return
				}
			}

		case req := <-s.writeChan:
			req.done <- s.executeWrite(req.fn)
		}
	}
}

// executeWrite runs fn inside a transaction. Errors from fn roll back and are
// returned as is; begin and commit failures also mark the store degraded.
func (s *Store) executeWrite(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		s.degrade("failed to begin transaction", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		s.degrade("failed to commit", err)
		return fmt.Errorf("failed to commit: %w", err)
	}

	if !s.healthStatus.Swap(true) {
		s.log.Info().Msg("storage recovered")
	}
	return nil
}

func (s *Store) degrade(msg string, err error) {
	s.healthStatus.Store(false)
	s.log.Error().Err(err).Msg("storage degraded: " + msg)
}

// Close stops the writer, waiting up to 2 seconds for queued writes, and closes the database
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			s.log.Warn().Msg("storage writer shutdown timeout, some writes may be lost")
		}

		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// DESTRUCTIVE: removes the database file and its WAL companions
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete database file: %w", err)
		}
	}

	return nil
}
