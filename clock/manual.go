package clock

import (
	"sort"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
//
// Callbacks run synchronously inside Advance, ordered by due time and then by
// scheduling order. Callbacks scheduled while advancing fire in the same
// Advance call if they fall due before its end. Manual is not safe for
// concurrent use.
type Manual struct {
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

func NewManual() *Manual { return &Manual{} }

type manualTimer struct {
	c   *Manual
	at  time.Duration
	seq uint64
	f   func()
}

func (c *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	return t.c.remove(t)
}

func (c *Manual) remove(t *manualTimer) bool {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the elapsed virtual time.
func (c *Manual) Now() time.Duration { return c.now }

// Pending returns the number of scheduled callbacks.
func (c *Manual) Pending() int { return len(c.pending) }

// NextDue returns the virtual time of the earliest pending callback.
func (c *Manual) NextDue() (time.Duration, bool) {
	if len(c.pending) == 0 {
		return 0, false
	}
	c.sortPending()
	return c.pending[0].at, true
}

// Advance moves time forward by d and runs every callback due on the way.
// It returns the number of callbacks run.
func (c *Manual) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	end := c.now + d
	fired := 0
	for {
		if len(c.pending) == 0 {
			break
		}
		c.sortPending()
		t := c.pending[0]
		if t.at > end {
			break
		}
		c.pending = c.pending[1:]
		if t.at > c.now {
			c.now = t.at
		}
		fired++
		t.f()
	}
	c.now = end
	return fired
}

func (c *Manual) sortPending() {
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
}
