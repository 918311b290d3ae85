package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains blink timing values.
type Config struct {
	LitDuration    time.Duration
	DimmedDuration time.Duration
}

// DefaultConfig returns the blink used for a completed countdown.
func DefaultConfig() Config {
	return Config{
		LitDuration:    700 * time.Millisecond,
		DimmedDuration: 300 * time.Millisecond,
	}
}

// Engine toggles a lit/dimmed frame on a background goroutine. The frame
// callback must be safe to call from any goroutine.
type Engine struct {
	mu     sync.Mutex
	config Config
	frame  func(lit bool)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new animation engine.
func New(config Config, frame func(lit bool)) *Engine {
	if config.LitDuration <= 0 || config.DimmedDuration <= 0 {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		frame:  frame,
	}
}

// StartBlink starts blinking until Stop or ctx is cancelled. Calling it while
// already blinking is a no-op.
func (engine *Engine) StartBlink(ctx context.Context) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	config := engine.config

	go func() {
		defer close(done)
		for {
			engine.frame(false)
			if !sleepWithContext(runCtx, config.DimmedDuration) {
				return
			}
			engine.frame(true)
			if !sleepWithContext(runCtx, config.LitDuration) {
				return
			}
		}
	}()
}

// Stop terminates any active animation, waits for the loop to exit and
// leaves the frame lit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.cancel == nil {
		engine.mu.Unlock()
		return
	}
	engine.cancel()
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	<-done
	engine.frame(true)
}

// Active reports whether a blink is running.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
