package database

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/warpgraph/warpgraph/wgerr"
)

// DefaultCheckoutTimeout bounds how long Begin waits for a free connection.
const DefaultCheckoutTimeout = 30 * time.Second

// DefaultCapacity is the connection pool size: one per core, floor of eight.
func DefaultCapacity() int {
	n := runtime.NumCPU()
	if n < 8 {
		return 8
	}
	return n
}

// Limiter is a bounded counting semaphore with FIFO waiters and a checkout
// timeout. Backends build their pools on it so every backend gets the same
// fairness and timeout behavior.
type Limiter struct {
	mu      sync.Mutex
	free    int
	timeout time.Duration
	waiters []chan struct{}
}

// NewLimiter creates a limiter with the given capacity. A zero timeout uses
// DefaultCheckoutTimeout.
func NewLimiter(capacity int, timeout time.Duration) *Limiter {
	if timeout == 0 {
		timeout = DefaultCheckoutTimeout
	}
	return &Limiter{free: capacity, timeout: timeout}
}

// Acquire takes a token, waiting behind earlier callers when the pool is
// exhausted.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	if l.free > 0 {
		l.free--
		l.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	l.waiters = append(l.waiters, w)
	l.mu.Unlock()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		l.abandon(w)
		return ctx.Err()
	case <-timer.C:
		l.abandon(w)
		return wgerr.NewDetail(wgerr.Backend, "", "timed out waiting for a database connection")
	}
}

// Release returns a token, waking the oldest waiter if any.
func (l *Limiter) Release() {
	l.mu.Lock()
	if len(l.waiters) > 0 {
		w := l.waiters[0]
		l.waiters = l.waiters[1:]
		l.mu.Unlock()
		close(w)
		return
	}
	l.free++
	l.mu.Unlock()
}

// abandon withdraws a waiter. If the waiter was signaled while we were
// giving up, its token is passed on.
func (l *Limiter) abandon(w chan struct{}) {
	l.mu.Lock()
	for i, cand := range l.waiters {
		if cand == w {
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			l.mu.Unlock()
			return
		}
	}
	l.mu.Unlock()

	// Not found: Release already signaled w.
	l.Release()
}

// EnvString reads a required environment variable.
func EnvString(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", wgerr.NewDetail(wgerr.ConfigInvalid, name, "environment variable not set")
	}
	return v, nil
}
