// Package clipboard copies generated emails to the clipboard and keeps the
// short-lived "copied" flag that drives the Copy button label.
package clipboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// DefaultWindow is how long the copied flag stays set after a copy.
const DefaultWindow = 2 * time.Second

// ErrCopyFailed wraps a failed clipboard write. It is a warning: the copied
// flag is left untouched.
var ErrCopyFailed = errors.New("copy to clipboard failed")

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

func (f WriterFunc) WriteAll(text string) error { return f(text) }

// System writes to the operating system clipboard of the host.
var System Writer = WriterFunc(clipboard.WriteAll)

// Option configures a Copier.
type Option func(*Copier)

// WithWindow overrides DefaultWindow.
func WithWindow(d time.Duration) Option {
	return func(c *Copier) {
		if d > 0 {
			c.window = d
		}
	}
}

// Copier owns the copied flag and its reset timer. A copy inside the window
// restarts the window instead of stacking timers.
type Copier struct {
	w      Writer
	window time.Duration

	mu     sync.Mutex
	copied bool
	timer  *time.Timer
	gen    uint64
}

func NewCopier(w Writer, opts ...Option) *Copier {
	if w == nil {
		w = System
	}
	c := &Copier{w: w, window: DefaultWindow}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes text and sets the flag for one window.
func (c *Copier) Copy(text string) error {
	if err := c.w.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.copied = true
	c.timer = time.AfterFunc(c.window, func() { c.reset(gen) })
	return nil
}

// reset clears the flag unless a later copy superseded this timer.
func (c *Copier) reset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.copied = false
	c.timer = nil
}

// Copied reports whether a copy happened within the current window.
func (c *Copier) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Close stops a pending reset and clears the flag.
func (c *Copier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.copied = false
}
