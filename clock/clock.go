// Package clock provides the timer abstraction the observer schedules its
// poll loop on.
//
// Two implementations are provided: Manual, which only fires callbacks when
// the caller advances it (tests and hosts with their own tick source), and
// Real, which is backed by runtime timers and optionally funnels every
// callback onto a single-goroutine Loop.
package clock

import (
	"sync"
	"time"
)

// Clock schedules callbacks.
type Clock interface {
	// AfterFunc arranges for f to run once after d. The returned Timer can
	// cancel the callback if it has not run yet.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable handle for one scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// cancelled a pending callback.
	Stop() bool
}

// Real is a Clock backed by time.AfterFunc.
//
// With a nil Loop callbacks run on the runtime's timer goroutines. With a
// Loop they are posted to it, so they execute in order with every other
// function posted to the same Loop.
type Real struct {
	loop *Loop
}

func NewReal(loop *Loop) *Real { return &Real{loop: loop} }

func (c *Real) AfterFunc(d time.Duration, f func()) Timer {
	rt := &realTimer{}
	rt.t = time.AfterFunc(d, func() {
		if c.loop == nil {
			if rt.claim() {
				f()
			}
			return
		}
		c.loop.Post(func() {
			// Stop may have been called between the runtime firing and the
			// loop picking the callback up.
			if rt.claim() {
				f()
			}
		})
	})
	return rt
}

type realTimer struct {
	mu   sync.Mutex
	t    *time.Timer
	done bool
}

func (rt *realTimer) claim() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.done {
		return false
	}
	rt.done = true
	return true
}

func (rt *realTimer) Stop() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.done {
		return false
	}
	rt.done = true
	rt.t.Stop()
	return true
}
