package inspect

import (
	"log/slog"
	"time"

	"github.com/iw2rmb/ceobserve/dom"
)

// DefaultFrame is how much observer time passes per tick.
const DefaultFrame = 50 * time.Millisecond

// Config configures the inspector Model.
type Config struct {
	// Document under observation. Required.
	Doc *dom.Document

	// Observer settings. Zero values use the observer defaults.
	PollInterval  time.Duration
	PositionDelay time.Duration

	// Frame is the tick period; each tick advances observer time by Frame.
	Frame time.Duration

	// PasteFragment is the HTML pasted by the paste key.
	PasteFragment string

	// LogLimit bounds the event log. Default: 500 lines.
	LogLimit int

	// KeyMap defaults to DefaultKeyMap when unset. Style has no default;
	// hosts usually pass DefaultStyle.
	KeyMap KeyMap
	Style  Style
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Frame <= 0 {
		c.Frame = DefaultFrame
	}
	if c.PasteFragment == "" {
		c.PasteFragment = "<b>pasted</b>"
	}
	if c.LogLimit <= 0 {
		c.LogLimit = 500
	}
	if len(c.KeyMap.Left.Keys()) == 0 {
		c.KeyMap = DefaultKeyMap()
	}
}
