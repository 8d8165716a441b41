package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout is the maximum time a client can wait for a game to change
const WaitTimeout = 25 * time.Second

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu           sync.Mutex
	waiters      map[string][]*waitRequest // gameID → waiting clients
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	timeout      time.Duration
}

// waitRequest is released by closing ready, so both the caller and the
// registry's watcher goroutine observe it
type waitRequest struct {
	version int
	ready   chan struct{}
	once    sync.Once
	timer   *time.Timer
}

func (w *waitRequest) release() {
	w.once.Do(func() { close(w.ready) })
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
		timeout:  WaitTimeout,
	}
}

// RegisterWait returns a channel that is closed once the game moves past version,
// the wait times out, ctx ends or the registry shuts down.
func (r *WaitRegistry) RegisterWait(ctx context.Context, gameID string, version int) <-chan struct{} {
	req := &waitRequest{
		version: version,
		ready:   make(chan struct{}),
	}
	req.timer = time.AfterFunc(r.timeout, req.release)

	r.mu.Lock()
	r.waiters[gameID] = append(r.waiters[gameID], req)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		select {
		case <-req.ready:
		case <-ctx.Done():
			req.release()
		case <-r.shutdown:
			req.release()
		}
		req.timer.Stop()
		r.remove(gameID, req)
	}()

	return req.ready
}

// NotifyGame releases every waiter on gameID whose known version differs from version
func (r *WaitRegistry) NotifyGame(gameID string, version int) {
	r.mu.Lock()
	waitList := append([]*waitRequest(nil), r.waiters[gameID]...)
	r.mu.Unlock()

	for _, req := range waitList {
		if req.version != version {
			req.release()
		}
	}
}

// Waiting returns the number of clients currently waiting on gameID
func (r *WaitRegistry) Waiting(gameID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters[gameID])
}

// Shutdown releases all waiters and waits for their watchers to exit
func (r *WaitRegistry) Shutdown(timeout time.Duration) error {
	r.shutdownOnce.Do(func() { close(r.shutdown) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (r *WaitRegistry) remove(gameID string, req *waitRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	waitList := r.waiters[gameID]
	for i, w := range waitList {
		if w == req {
			r.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(r.waiters[gameID]) == 0 {
		delete(r.waiters, gameID)
	}
}
