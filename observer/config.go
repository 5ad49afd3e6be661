package observer

import (
	"io"
	"log/slog"
	"time"

	"github.com/iw2rmb/ceobserve/clock"
)

const (
	DefaultPollInterval  = 250 * time.Millisecond
	DefaultPositionDelay = 200 * time.Millisecond

	// NoPolling as a poll interval ends the timer chain after the current
	// tick.
	NoPolling time.Duration = -1
)

// Config configures an Observer.
type Config struct {
	// PollInterval between timer ticks. Zero selects DefaultPollInterval.
	PollInterval time.Duration

	// PositionDelay before the surface is told to reposition after a slug
	// gained or lost focus, so CSS transitions finish first. Zero selects
	// DefaultPositionDelay.
	PositionDelay time.Duration

	// Clock schedules ticks and deferred notifications. Nil selects a Real
	// clock posting onto a Loop owned by the Observer, whose callbacks only
	// run inside Observer.Run.
	Clock clock.Clock

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PositionDelay <= 0 {
		c.PositionDelay = DefaultPositionDelay
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
