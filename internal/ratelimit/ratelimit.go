// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	Window        time.Duration // Fixed window length
	MaxEvents     int           // Maximum events per window
	CleanupPeriod time.Duration // How often to sweep expired windows
}

// DefaultConnectionConfig limits new socket connections per user.
func DefaultConnectionConfig() *Config {
	return &Config{
		Window:        time.Minute,
		MaxEvents:     10,
		CleanupPeriod: 5 * time.Minute,
	}
}

// DefaultMessageConfig limits messages sent per user.
func DefaultMessageConfig() *Config {
	return &Config{
		Window:        time.Minute,
		MaxEvents:     60,
		CleanupPeriod: 5 * time.Minute,
	}
}

// window tracks one user's count in the current fixed window.
type window struct {
	Count   int
	ResetAt time.Time
}

// LimitInfo reports the outcome of an Allow call.
type LimitInfo struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// FixedWindowLimiter implements in-memory fixed-window rate limiting.
// Bursts straddling a window boundary are tolerated: this is an abuse
// backstop, not a fairness guarantee.
type FixedWindowLimiter struct {
	config   *Config
	windows  map[string]*window
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewFixedWindowLimiter creates a limiter and starts its sweep goroutine.
func NewFixedWindowLimiter(config *Config) *FixedWindowLimiter {
	limiter := &FixedWindowLimiter{
		config:  config,
		windows: make(map[string]*window),
		stopCh:  make(chan struct{}),
	}

	go limiter.sweepLoop()

	return limiter
}

// Allow checks whether identifier may perform one more event. Expired
// windows are replaced lazily (count resets to 1).
func (rl *FixedWindowLimiter) Allow(identifier string) (bool, *LimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, exists := rl.windows[identifier]

	if !exists || !now.Before(w.ResetAt) {
		rl.windows[identifier] = &window{
			Count:   1,
			ResetAt: now.Add(rl.config.Window),
		}
		return true, &LimitInfo{
			Allowed:   true,
			Remaining: rl.config.MaxEvents - 1,
			ResetAt:   now.Add(rl.config.Window),
		}
	}

	if w.Count >= rl.config.MaxEvents {
		return false, &LimitInfo{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   w.ResetAt,
		}
	}

	w.Count++
	return true, &LimitInfo{
		Allowed:   true,
		Remaining: rl.config.MaxEvents - w.Count,
		ResetAt:   w.ResetAt,
	}
}

// MaxEvents returns the configured per-window event cap.
func (rl *FixedWindowLimiter) MaxEvents() int {
	return rl.config.MaxEvents
}

// Sweep removes every window whose reset time has passed, to bound memory.
func (rl *FixedWindowLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for identifier, w := range rl.windows {
		if !now.Before(w.ResetAt) {
			delete(rl.windows, identifier)
		}
	}
}

// Size returns the number of tracked windows (expired ones included until
// the next sweep).
func (rl *FixedWindowLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// sweepLoop periodically removes expired windows
func (rl *FixedWindowLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Sweep()
		case <-rl.stopCh:
			return
		}
	}
}

// Close stops the sweep goroutine
func (rl *FixedWindowLimiter) Close() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}
