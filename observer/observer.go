package observer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iw2rmb/ceobserve/clock"
)

// ErrExternalClock is returned by Run when the Observer was configured with
// a Clock of its own.
var ErrExternalClock = errors.New("observer: clock supplied by host")

// Observer polls a rendered document for changes made outside the editor's
// own transaction pipeline (native typing, IME composition, spellcheck,
// drag and drop) and reports them as events.
//
// An Observer is not safe for concurrent use. Every method, and every timer
// callback it schedules, must run on one execution context: a Loop the
// host shares through Config.Clock, or the Observer's own via Run and Post.
type Observer struct {
	cfg  Config
	clk  clock.Clock
	loop *clock.Loop // set when the Observer owns its clock
	log  *slog.Logger

	view    DocumentView
	surface Surface

	interval time.Duration
	polling  bool
	disabled bool
	timer    clock.Timer

	snap Snapshot
	// foreign is set while the native anchor lies in another document.
	foreign bool

	events emitter
}

// New returns an Observer attached to view. surface may be nil when nothing
// needs repositioning after slug focus changes.
func New(view DocumentView, surface Surface, cfg Config) *Observer {
	cfg = cfg.withDefaults()
	o := &Observer{
		cfg:      cfg,
		clk:      cfg.Clock,
		log:      cfg.Logger,
		view:     view,
		surface:  surface,
		interval: cfg.PollInterval,
	}
	if o.clk == nil {
		o.loop = clock.NewLoop()
		o.clk = clock.NewReal(o.loop)
	}
	o.Clear()
	return o
}

// Run executes the timer callbacks of an Observer created without a Clock,
// together with every function passed to Post, until ctx is done. It
// returns ErrExternalClock when the host supplied its own Clock.
func (o *Observer) Run(ctx context.Context) error {
	if o.loop == nil {
		return ErrExternalClock
	}
	return o.loop.Run(ctx)
}

// Post queues f to run inside Run. Hosts calling the Observer from other
// goroutines route those calls through Post. It reports false when the
// Observer has an external Clock or Run has returned.
func (o *Observer) Post(f func()) bool {
	if o.loop == nil {
		return false
	}
	return o.loop.Post(f)
}

// Clear resets the snapshot. The optional initial range becomes the last
// known range, so the next poll only reports a change relative to it.
func (o *Observer) Clear(initial ...Range) {
	o.snap = Snapshot{}
	o.foreign = false
	if len(initial) > 0 {
		o.snap.Range = Present(initial[0])
	}
}

// Detach releases the document view and surface and stops the timer loop.
// Polls after Detach are no-ops.
func (o *Observer) Detach() {
	o.StopTimerLoop()
	o.view = nil
	o.surface = nil
	o.snap = Snapshot{}
	o.foreign = false
	o.log.Info("observer detached")
}

// Attached reports whether a document view is attached.
func (o *Observer) Attached() bool { return o.view != nil }

// Snapshot returns a copy of the last committed state.
func (o *Observer) Snapshot() Snapshot { return o.snap }

// StartTimerLoop starts periodic polling. The first tick only arms the
// timer, so state present at start is not reported as a change. Calling it
// while already polling does nothing.
func (o *Observer) StartTimerLoop() {
	if o.polling {
		return
	}
	o.polling = true
	o.log.Info("observer polling started", "interval", o.interval)
	o.timerLoop(true)
}

// StopTimerLoop cancels the pending tick. The snapshot is kept.
func (o *Observer) StopTimerLoop() {
	if !o.polling {
		return
	}
	o.polling = false
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.log.Info("observer polling stopped")
}

// Polling reports whether the timer loop is running.
func (o *Observer) Polling() bool { return o.polling }

// SetPollInterval changes the interval used when the next tick is armed.
// NoPolling ends the chain after the current tick.
func (o *Observer) SetPollInterval(d time.Duration) {
	if d == 0 {
		d = DefaultPollInterval
	}
	o.interval = d
}

// PollInterval returns the interval used to arm ticks.
func (o *Observer) PollInterval() time.Duration { return o.interval }

// Disable turns polls into no-ops. A running timer loop keeps rearming.
func (o *Observer) Disable() { o.disabled = true }

// Enable resumes reconciliation from the next poll.
func (o *Observer) Enable() { o.disabled = false }

func (o *Observer) Disabled() bool { return o.disabled }

func (o *Observer) timerLoop(first bool) {
	if o.timer != nil {
		// Not running from the timer itself.
		o.timer.Stop()
		o.timer = nil
	}
	if !first {
		o.PollOnce()
	}
	if !o.polling {
		return
	}
	if o.interval <= 0 {
		o.polling = false
		o.log.Info("observer polling ended", "reason", "no interval")
		return
	}
	if o.timer != nil {
		// A listener restarted the loop during PollOnce.
		o.timer.Stop()
	}
	o.timer = o.clk.AfterFunc(o.interval, o.tick)
}

func (o *Observer) tick() {
	o.timer = nil
	if !o.polling {
		return
	}
	o.timerLoop(false)
}

// PollOnce reconciles content and selection and emits events.
//
// Known limitations: selections spanning several nodes are reported through
// the anchor only, and placing the cursor inside a slug with the mouse does
// not produce a range change.
func (o *Observer) PollOnce() { o.poll(true, false) }

// PollOnceNoEmit reconciles content and selection without emitting events.
// Use it to set a new baseline without triggering reactive work.
func (o *Observer) PollOnceNoEmit() { o.poll(false, false) }

// PollOnceSelection reconciles the selection only and emits events. Use it
// when content is known to be unchanged.
func (o *Observer) PollOnceSelection() { o.poll(true, true) }
