package dom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/ceobserve/internal/grapheme"
)

// The edits below change the tree the way a browser does during native
// editing: they bypass any observer and only move the selection.

// pastePolicy keeps inline formatting only. Block markup is unwrapped to its
// text, and editor classes never survive.
var pastePolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("a", "b", "i", "u", "em", "strong", "s", "sub", "sup", "code", "span", "br")
	return p
})

// caret returns the collapsed selection.
func (d *Document) caret() (Point, bool) {
	if !d.hasSel || !d.sel.Collapsed() {
		return Point{}, false
	}
	return d.sel.Anchor, true
}

// InsertText types s at the caret. A caret inside an element gets a new text
// node at its position. The caret ends up after the inserted text.
func (d *Document) InsertText(s string) error {
	p, ok := d.caret()
	if !ok {
		return ErrNoCaret
	}
	if s == "" {
		return nil
	}
	if p.Node.Type == html.TextNode {
		b := grapheme.ByteOffset(p.Node.Data, p.Offset)
		p.Node.Data = p.Node.Data[:b] + s + p.Node.Data[b:]
		d.Collapse(Point{Node: p.Node, Offset: grapheme.Count(p.Node.Data[:b+len(s)])})
		d.log.Debug("dom: insert text", "len", len(s))
		return nil
	}
	t := &html.Node{Type: html.TextNode, Data: s}
	p.Node.InsertBefore(t, childAt(p.Node, p.Offset))
	d.Collapse(Point{Node: t, Offset: grapheme.Count(s)})
	d.log.Debug("dom: insert text node", "len", len(s))
	return nil
}

// DeleteBackward removes the grapheme before a caret inside a text node. At
// the start of a text node it does nothing.
func (d *Document) DeleteBackward() error {
	p, ok := d.caret()
	if !ok || p.Node.Type != html.TextNode {
		return ErrNoCaret
	}
	if p.Offset <= 0 {
		return nil
	}
	data := p.Node.Data
	start := grapheme.ByteOffset(data, p.Offset-1)
	end := grapheme.ByteOffset(data, p.Offset)
	p.Node.Data = data[:start] + data[end:]
	d.Collapse(Point{Node: p.Node, Offset: p.Offset - 1})
	return nil
}

// SetText replaces the content of text node n, as spellcheck or IME
// composition do. Selection endpoints in n are clamped to the new length.
func (d *Document) SetText(n *html.Node, s string) error {
	if n == nil || n.Type != html.TextNode {
		return fmt.Errorf("dom: set text: not a text node")
	}
	n.Data = s
	if d.hasSel {
		end := grapheme.Count(s)
		if d.sel.Anchor.Node == n {
			d.sel.Anchor.Offset = clamp(d.sel.Anchor.Offset, 0, end)
		}
		if d.sel.Focus.Node == n {
			d.sel.Focus.Offset = clamp(d.sel.Focus.Offset, 0, end)
		}
	}
	return nil
}

// SplitText splits text node n at grapheme offset g and returns the new
// second half. The text is unchanged; only the structure differs.
func (d *Document) SplitText(n *html.Node, g int) (*html.Node, error) {
	if n == nil || n.Type != html.TextNode || n.Parent == nil {
		return nil, fmt.Errorf("dom: split text: not an attached text node")
	}
	b := grapheme.ByteOffset(n.Data, g)
	rest := &html.Node{Type: html.TextNode, Data: n.Data[b:]}
	n.Data = n.Data[:b]
	n.Parent.InsertBefore(rest, n.NextSibling)

	if d.hasSel {
		for _, pt := range []*Point{&d.sel.Anchor, &d.sel.Focus} {
			if pt.Node == n && pt.Offset > g {
				pt.Node, pt.Offset = rest, pt.Offset-g
			}
		}
	}
	return rest, nil
}

// PasteHTML inserts a sanitised HTML fragment at the caret and places the
// caret after it. Editor classes and scripts are stripped, as a browser
// paste would carry neither.
func (d *Document) PasteHTML(fragment string) error {
	p, ok := d.caret()
	if !ok {
		return ErrNoCaret
	}
	clean := pastePolicy().Sanitize(fragment)
	nodes, err := html.ParseFragment(strings.NewReader(clean), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fmt.Errorf("dom: paste: %w", err)
	}
	if len(nodes) == 0 {
		return nil
	}

	parent, before := d.splitAt(p)
	for _, n := range nodes {
		parent.InsertBefore(n, before)
	}
	last := nodes[len(nodes)-1]
	if last.Type == html.TextNode {
		d.Collapse(Point{Node: last, Offset: grapheme.Count(last.Data)})
	} else {
		d.Collapse(Point{Node: parent, Offset: indexOf(last) + 1})
	}
	d.log.Debug("dom: paste", "nodes", len(nodes))
	return nil
}

// splitAt returns the parent and next sibling bounding an insertion at p,
// splitting a text node when p falls inside it.
func (d *Document) splitAt(p Point) (parent, before *html.Node) {
	if p.Node.Type != html.TextNode {
		return p.Node, childAt(p.Node, p.Offset)
	}
	n := p.Node
	switch b := grapheme.ByteOffset(n.Data, p.Offset); {
	case b == 0:
		return n.Parent, n
	case b >= len(n.Data):
		return n.Parent, n.NextSibling
	}
	rest, _ := d.SplitText(n, p.Offset)
	return n.Parent, rest
}

func childAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

func indexOf(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}
