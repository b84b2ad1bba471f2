package signal

import (
	"context"
	"sync"
	"time"
)

// Limiter caps how many events one connection may send per window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string)
}

// RoomRateLimiter is an in-process sliding window limiter.
type RoomRateLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
}

func NewRoomRateLimiter(limit int, interval time.Duration) *RoomRateLimiter {
	return &RoomRateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *RoomRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[key]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false, nil
	}

	rl.history[key] = append(fresh, now)
	return true, nil
}

// Forget drops the history of a closed connection.
func (rl *RoomRateLimiter) Forget(_ context.Context, key string) {
	rl.mu.Lock()
	delete(rl.history, key)
	rl.mu.Unlock()
}

// NopLimiter allows everything.
type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (NopLimiter) Forget(context.Context, string)              {}
