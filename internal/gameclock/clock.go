// Package gameclock provides the running game clock scouts control
// while reviewing film. It is the time source for stat timestamps: the
// shortcut router's stamp action reads it at the moment of the
// keystroke.
package gameclock

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a user-controlled monotonic seconds counter with
// start/pause/reset
type Clock struct {
	mu        sync.Mutex
	running   bool
	startedAt time.Time
	elapsed   time.Duration
	now       func() time.Time
}

// New creates a stopped clock at 00:00
func New() *Clock {
	return &Clock{now: time.Now}
}

// Start begins or resumes counting. Starting a running clock is a
// no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.startedAt = c.now()
}

// Pause stops counting, keeping the elapsed time
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.elapsed += c.now().Sub(c.startedAt)
	c.running = false
}

// Reset returns the clock to 00:00, stopped
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.elapsed = 0
}

// Running reports whether the clock is counting
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Elapsed returns the time on the clock
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

// Stamp renders the current clock time as mm:ss, the format stat
// timestamps are recorded in
func (c *Clock) Stamp() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	secs := int(c.elapsedLocked().Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (c *Clock) elapsedLocked() time.Duration {
	if c.running {
		return c.elapsed + c.now().Sub(c.startedAt)
	}
	return c.elapsed
}
