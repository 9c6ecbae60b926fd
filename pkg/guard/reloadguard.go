package guard

import (
	"sync"
	"time"
)

// DefaultReloadWindow is the debounce window for forced page reloads
// after an asset load failure.
const DefaultReloadWindow = 10 * time.Second

// ReloadGuard debounces full page reloads triggered by stale-asset
// errors after a deployment. Without it a broken bundle would reload
// the shell in a tight loop.
type ReloadGuard struct {
	mu         sync.Mutex
	window     time.Duration
	lastReload time.Time
	now        func() time.Time
}

// NewReloadGuard creates a guard with the given debounce window.
// A zero window falls back to DefaultReloadWindow.
func NewReloadGuard(window time.Duration) *ReloadGuard {
	if window <= 0 {
		window = DefaultReloadWindow
	}
	return &ReloadGuard{window: window, now: time.Now}
}

// SetClock overrides the time source. Tests only.
func (r *ReloadGuard) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// ShouldReload reports whether a forced reload is allowed now, and if
// so records the attempt. A second failure inside the window is
// swallowed.
func (r *ReloadGuard) ShouldReload() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastReload.IsZero() && now.Sub(r.lastReload) < r.window {
		return false
	}
	r.lastReload = now
	return true
}

// Reset clears the debounce after a navigation succeeds, so the next
// genuine asset failure can reload immediately.
func (r *ReloadGuard) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastReload = time.Time{}
}
