// Package inspect is a terminal debug bar for the surface observer. It
// shows a rendered document, the observed selection and a log of the
// events the observer emits while the document is edited from the keyboard.
package inspect

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"github.com/iw2rmb/ceobserve/clock"
	"github.com/iw2rmb/ceobserve/dom"
	"github.com/iw2rmb/ceobserve/observer"
)

// PollIntervalMsg retunes the observer's poll interval.
type PollIntervalMsg time.Duration

type tickMsg struct{}

// Model is a Bubble Tea component hosting an observer over a dom.Document.
//
// Observer time is a clock.Manual advanced on every tick, so timer
// callbacks run inside Update with the edits that triggered them.
type Model struct {
	cfg Config
	doc *dom.Document
	clk *clock.Manual
	obs *observer.Observer

	events   *eventLog
	seen     int
	viewport viewport.Model
	width    int
	height   int
}

func New(cfg Config) Model {
	cfg.defaults()
	events := &eventLog{limit: cfg.LogLimit}
	clk := clock.NewManual()
	obs := observer.New(cfg.Doc, surface{events: events}, observer.Config{
		PollInterval:  cfg.PollInterval,
		PositionDelay: cfg.PositionDelay,
		Clock:         clk,
		Logger:        cfg.Logger,
	})
	m := Model{
		cfg:      cfg,
		doc:      cfg.Doc,
		clk:      clk,
		obs:      obs,
		events:   events,
		viewport: viewport.New(0, 0),
	}

	obs.OnContentChange(func(ev observer.ContentChange) {
		kind := "text"
		if ev.Previous.Text == ev.Next.Text {
			kind = "structure"
		}
		events.add("content %s %s: %q → %q", m.describe(ev.Node), kind, ev.Previous.Text, ev.Next.Text)
	})
	obs.OnRangeChange(func(ev observer.RangeChange) {
		events.add("range %s → %s", ev.Old, ev.New)
	})
	obs.OnSlugEnter(func() { events.add("slug enter") })

	obs.Clear()
	obs.StartTimerLoop()
	m.refresh()
	return m
}

func (m Model) Observer() *observer.Observer { return m.obs }
func (m Model) Document() *dom.Document      { return m.doc }

// Events returns the event log lines, oldest first.
func (m Model) Events() []string { return append([]string(nil), m.events.lines...) }

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Frame, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width, m.height = width, height
	m.viewport.Width = width
	m.refresh()
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tickMsg:
		m.clk.Advance(m.cfg.Frame)
		m.refresh()
		return m, m.tick()
	case PollIntervalMsg:
		m.obs.SetPollInterval(time.Duration(msg))
		m.events.add("poll interval %s", m.obs.PollInterval())
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		m = m.updateKey(msg)
		m.refresh()
		return m, nil
	}
	return m, nil
}

// SelectionLabel renders the observed range as "from - to", or "Null" when
// no range is known.
func (m Model) SelectionLabel() string {
	r := m.obs.Snapshot().Range
	if !r.Valid {
		return "Null"
	}
	return fmt.Sprintf("%d - %d", r.Range.From, r.Range.To)
}

func (m Model) View() string {
	st := m.cfg.Style
	var b strings.Builder

	state := "stopped"
	if m.obs.Polling() {
		state = "polling " + m.obs.PollInterval().String()
	}
	if m.obs.Disabled() {
		state += ", disabled"
	}
	b.WriteString(st.Header.Render("ceobserve " + state))
	b.WriteByte('\n')

	for _, line := range m.blockLines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	label := m.SelectionLabel()
	if label == "Null" {
		label = st.Null.Render(label)
	} else {
		label = st.Label.Render(label)
	}
	b.WriteString("Selection: " + label)
	b.WriteByte('\n')

	sepWidth := m.width
	if sepWidth <= 0 {
		sepWidth = 20
	}
	b.WriteString(st.Separator.Render(strings.Repeat("─", sepWidth)))
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	return b.String()
}

// blockLines renders one line per top-level block, marking the block the
// observer currently has in focus.
func (m Model) blockLines() []string {
	st := m.cfg.Style
	snap := m.obs.Snapshot()
	var target *html.Node
	switch {
	case snap.Slug != nil:
		if s, ok := snap.Slug.(dom.Slug); ok {
			target = s.Node()
		}
	case snap.Node != nil:
		target, _ = snap.Node.(*html.Node)
	}

	var out []string
	for c := m.doc.Root().FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		text := m.doc.Text(c)
		if hasClassToken(c, dom.ClassSlugWrapper) {
			text = "[slug]"
		}
		if target != nil && within(c, target) {
			out = append(out, st.Focused.Render("> "+text))
			continue
		}
		out = append(out, st.Block.Render("  "+text))
	}
	return out
}

func (m *Model) refresh() {
	h := m.height - len(m.blockLines()) - 3
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
	m.viewport.SetContent(m.events.render(m.width))
	if m.events.total != m.seen {
		m.seen = m.events.total
		m.viewport.GotoBottom()
	}
}

func (m Model) describe(node observer.Node) string {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return "?"
	}
	for _, a := range n.Attr {
		if a.Key == "id" && a.Val != "" {
			return "#" + a.Val
		}
	}
	if p, ok := m.doc.PathOf(n); ok {
		return "<" + n.Data + ">@" + p.Key()
	}
	return "<" + n.Data + ">"
}

func within(anc, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == anc {
			return true
		}
	}
	return false
}

func hasClassToken(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
