package llm

import (
	"context"
	"sync"
	"time"
)

// PaceLimiter spaces calls at least interval apart. Unlike a token bucket it
// never rejects: a caller arriving early sleeps for the remainder. A nil
// limiter or a non-positive interval disables pacing.
type PaceLimiter struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func NewPaceLimiter(interval time.Duration) *PaceLimiter {
	if interval <= 0 {
		return nil
	}
	return &PaceLimiter{interval: interval}
}

// Wait blocks until this call's slot arrives or ctx is canceled. Slots are
// handed out in call order; each waiter reserves the next slot up front so
// concurrent callers do not collapse onto the same one.
func (l *PaceLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
