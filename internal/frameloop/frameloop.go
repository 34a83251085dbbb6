// Package frameloop drives the simulation clock and notifies listeners on
// every frame.
package frameloop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Mode describes how the loop paces frames.
type Mode int

const (
	// Fixed steps as fast as the listeners allow. Output is deterministic.
	Fixed Mode = iota
	// RealTime paces frames against the wall clock.
	RealTime
)

// ErrStop may be returned by a listener to end the run without an error.
var ErrStop = errors.New("frameloop: stop")

// Tick is passed to listeners.
type Tick struct {
	Frame   int
	Step    time.Duration
	Seconds float64 // exact step length; Step is truncated to whole nanoseconds
	Elapsed time.Duration
}

// Loop advances simulated time in steps of Step.
type Loop struct {
	mu      sync.RWMutex
	Step    time.Duration
	Seconds float64
	Mode    Mode
	frame   int
	elapsed time.Duration

	listeners []func(Tick) error
}

// New constructs a loop. A non-positive step falls back to one 60 Hz frame.
func New(step time.Duration, mode Mode) *Loop {
	if step <= 0 {
		return ForFPS(60, mode)
	}
	return &Loop{Step: step, Seconds: step.Seconds(), Mode: mode}
}

// ForFPS returns a loop stepping at fps frames per second.
func ForFPS(fps int, mode Mode) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{Step: time.Second / time.Duration(fps), Seconds: 1 / float64(fps), Mode: mode}
}

// AddListener registers a callback invoked on every frame, in registration
// order. Register before Run.
func (l *Loop) AddListener(fn func(Tick) error) {
	l.listeners = append(l.listeners, fn)
}

// Frame is the number of completed frames.
func (l *Loop) Frame() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame
}

// Elapsed is the simulated time covered so far.
func (l *Loop) Elapsed() time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.elapsed
}

// Run advances frames until the count is reached (0 means until ctx is
// done), ctx is cancelled or a listener fails. ErrStop ends the run
// cleanly.
func (l *Loop) Run(ctx context.Context, frames int) error {
	var ticker *time.Ticker
	if l.Mode == RealTime {
		ticker = time.NewTicker(l.Step)
		defer ticker.Stop()
	}

	for frames <= 0 || l.Frame() < frames {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		t := Tick{Frame: l.frame, Step: l.Step, Seconds: l.Seconds, Elapsed: l.elapsed}
		l.mu.Unlock()

		for _, fn := range l.listeners {
			if err := fn(t); err != nil {
				if errors.Is(err, ErrStop) {
					l.advance()
					return nil
				}
				return err
			}
		}
		l.advance()
	}
	return nil
}

func (l *Loop) advance() {
	l.mu.Lock()
	l.frame++
	l.elapsed += l.Step
	l.mu.Unlock()
}
