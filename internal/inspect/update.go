package inspect

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"github.com/iw2rmb/ceobserve/dom"
	"github.com/iw2rmb/ceobserve/internal/grapheme"
)

func (m Model) updateKey(msg tea.KeyMsg) Model {
	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Left):
		m.moveCaret(-1)
	case key.Matches(msg, km.Right):
		m.moveCaret(1)
	case key.Matches(msg, km.PrevNode):
		m.jumpNode(-1)
	case key.Matches(msg, km.NextNode):
		m.jumpNode(1)

	case key.Matches(msg, km.Backspace):
		m.edit("delete", m.doc.DeleteBackward())
	case key.Matches(msg, km.Paste):
		m.edit("paste", m.doc.PasteHTML(m.cfg.PasteFragment))
	case key.Matches(msg, km.Split):
		sel, ok := m.doc.Selection()
		if !ok || sel.Focus.Node.Type != html.TextNode {
			m.events.add("split: caret is not in text")
			break
		}
		_, err := m.doc.SplitText(sel.Focus.Node, sel.Focus.Offset)
		m.edit("split", err)

	case key.Matches(msg, km.ToggleDisabled):
		if m.obs.Disabled() {
			m.obs.Enable()
			m.events.add("observer enabled")
		} else {
			m.obs.Disable()
			m.events.add("observer disabled")
		}
	case key.Matches(msg, km.TogglePolling):
		if m.obs.Polling() {
			m.obs.StopTimerLoop()
			m.events.add("polling stopped")
		} else {
			m.obs.StartTimerLoop()
			m.events.add("polling started")
		}
	case key.Matches(msg, km.Poll):
		m.obs.PollOnce()
	case key.Matches(msg, km.DumpMarkdown):
		m.dumpMarkdown()

	case key.Matches(msg, km.ScrollUp):
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
	case key.Matches(msg, km.ScrollDown):
		m.viewport.SetYOffset(m.viewport.YOffset + 1)

	case msg.Type == tea.KeySpace:
		m.edit("type", m.doc.InsertText(" "))
	case msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 0:
		m.edit("type", m.doc.InsertText(string(msg.Runes)))
	}
	return m
}

func (m Model) edit(op string, err error) {
	if err != nil {
		m.events.add("%s: %v", op, err)
	}
}

// moveCaret moves the caret by one grapheme, crossing into the neighbouring
// text node at either end. Without a caret it goes to the start of the
// first text node.
func (m Model) moveCaret(dir int) {
	nodes := m.doc.TextNodes()
	if len(nodes) == 0 {
		return
	}
	i, off := m.caretIn(nodes)
	if i < 0 {
		m.doc.Collapse(dom.Point{Node: nodes[0]})
		return
	}
	off += dir
	n := grapheme.Count(nodes[i].Data)
	switch {
	case off < 0 && i > 0:
		prev := nodes[i-1]
		m.doc.Collapse(dom.Point{Node: prev, Offset: grapheme.Count(prev.Data)})
	case off > n && i+1 < len(nodes):
		m.doc.Collapse(dom.Point{Node: nodes[i+1]})
	default:
		m.doc.Collapse(dom.Point{Node: nodes[i], Offset: max(0, min(off, n))})
	}
}

// jumpNode moves the caret to the start of the previous or next text node.
func (m Model) jumpNode(dir int) {
	nodes := m.doc.TextNodes()
	if len(nodes) == 0 {
		return
	}
	i, _ := m.caretIn(nodes)
	switch {
	case i < 0:
		i = 0
	case i+dir >= 0 && i+dir < len(nodes):
		i += dir
	}
	m.doc.Collapse(dom.Point{Node: nodes[i]})
}

func (m Model) caretIn(nodes []*html.Node) (int, int) {
	sel, ok := m.doc.Selection()
	if !ok {
		return -1, 0
	}
	for i, n := range nodes {
		if n == sel.Focus.Node {
			return i, sel.Focus.Offset
		}
	}
	return -1, 0
}

func (m Model) dumpMarkdown() {
	n, ok := m.obs.Snapshot().Node.(*html.Node)
	if !ok || n == nil {
		m.events.add("md: no focused node")
		return
	}
	md, err := m.doc.Markdown(n)
	if err != nil {
		m.events.add("md: %v", err)
		return
	}
	m.events.add("md %s: %s", m.describe(n), md)
}
