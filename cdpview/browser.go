package cdpview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// SessionConfig configures Open.
type SessionConfig struct {
	// ControlURL is the DevTools WebSocket URL of a running Chrome.
	// Empty launches a local headless Chrome.
	ControlURL string

	// URL is the page to open.
	URL string

	// LoadTimeout bounds navigation. Default: 30s.
	LoadTimeout time.Duration

	Logger *slog.Logger
}

func (c *SessionConfig) defaults() {
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session is a browser connection with one page open.
type Session struct {
	Browser *rod.Browser
	Page    *rod.Page

	lnch *launcher.Launcher
	log  *slog.Logger
}

// Open connects to (or launches) Chrome and opens cfg.URL in a new page.
func Open(ctx context.Context, cfg SessionConfig) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger
	s := &Session{log: log}

	wsURL := cfg.ControlURL
	if wsURL == "" {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("cdpview: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("cdpview: launched local chrome", "url", wsURL)
	} else {
		log.Info("cdpview: connecting to remote", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		s.Close()
		return nil, fmt.Errorf("cdpview: connect: %w", err)
	}
	s.Browser = b

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("cdpview: create page: %w", err)
	}
	s.Page = page

	if cfg.URL != "" {
		navCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
		if err := page.Context(navCtx).Navigate(cfg.URL); err != nil {
			s.Close()
			return nil, fmt.Errorf("cdpview: navigate %s: %w", cfg.URL, err)
		}
		if err := page.Context(navCtx).WaitLoad(); err != nil {
			log.Warn("cdpview: wait load", "url", cfg.URL, "error", err)
		}
	}
	return s, nil
}

// Close closes the browser and cleans up a launched Chrome.
func (s *Session) Close() {
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			s.log.Warn("cdpview: close browser", "error", err)
		}
		s.Browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}

// Surface repositions page overlays after the caret enters or leaves a
// slug. It scrolls the current selection into view.
type Surface struct {
	page Evaluator
	log  *slog.Logger
}

func NewSurface(page Evaluator, log *slog.Logger) *Surface {
	if log == nil {
		log = slog.Default()
	}
	return &Surface{page: page, log: log}
}

const positionJS = `() => {
	const sel = window.getSelection();
	if (!sel || sel.rangeCount === 0) return false;
	let n = sel.focusNode;
	if (n && n.nodeType !== 1) n = n.parentElement;
	if (!n) return false;
	n.scrollIntoView({block: 'nearest'});
	return true;
}`

// Position implements observer.Surface.
func (s *Surface) Position() {
	if _, err := s.page.Eval(positionJS); err != nil {
		s.log.Warn("cdpview: position failed", "error", err)
	}
}
