// Package capital tracks cumulative invested capital. The history is
// append-only in the remote store; in memory only the current value is kept.
package capital

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidAmount = errors.New("invalid capital amount")

	// ErrMirrorWrite reports a failed remote append. Unlike ledger snapshots
	// a capital append that fails is NOT kept in memory: the remote history
	// is the authority for capital, so current and history must not diverge.
	ErrMirrorWrite = errors.New("remote mirror write failed")
)

// History appends capital entries to the remote store. It never rewrites.
type History interface {
	AppendCapital(ctx context.Context, amount int64) error
}

type Tracker struct {
	mu      sync.RWMutex
	current int64
	history History
}

func New(history History) *Tracker {
	return &Tracker{history: history}
}

// Current returns the cumulative invested capital.
func (t *Tracker) Current() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Add appends amount to the history and advances the in-memory value.
func (t *Tracker) Add(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.current + amount
	if err := t.history.AppendCapital(ctx, next); err != nil {
		return t.current, fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	t.current = next
	return next, nil
}

// Set replaces the current value, used when hydrating from the mirror.
func (t *Tracker) Set(v int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = v
}

// Profit derives profit from a confirmed revenue total. Negative means the
// invested capital has not been recovered yet.
func (t *Tracker) Profit(confirmedTotal int64) int64 {
	return confirmedTotal - t.Current()
}
