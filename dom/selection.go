package dom

import (
	"golang.org/x/net/html"

	"github.com/iw2rmb/ceobserve/internal/grapheme"
	"github.com/iw2rmb/ceobserve/observer"
)

// Point is a DOM position. In a text node Offset counts grapheme clusters;
// in an element it is a child index.
type Point struct {
	Node   *html.Node
	Offset int
}

// Selection is the native selection of the surface.
type Selection struct {
	Anchor Point
	Focus  Point
}

func (s Selection) Collapsed() bool { return s.Anchor == s.Focus }

// Select sets the native selection. A nil anchor or focus clears it.
func (d *Document) Select(anchor, focus Point) {
	if anchor.Node == nil || focus.Node == nil {
		d.ClearSelection()
		return
	}
	d.sel = Selection{Anchor: anchor, Focus: focus}
	d.hasSel = true
}

// Collapse places a caret at p.
func (d *Document) Collapse(p Point) { d.Select(p, p) }

func (d *Document) ClearSelection() {
	d.sel = Selection{}
	d.hasSel = false
}

func (d *Document) Selection() (Selection, bool) { return d.sel, d.hasSel }

// NativeRange implements observer.DocumentView. Anchor and focus identities
// are the *html.Node values of the selection endpoints.
func (d *Document) NativeRange() (observer.NativeRange, bool) {
	if !d.hasSel {
		return observer.NativeRange{}, false
	}
	return observer.NativeRange{
		Anchor:       d.sel.Anchor.Node,
		AnchorOffset: d.sel.Anchor.Offset,
		Focus:        d.sel.Focus.Node,
		FocusOffset:  d.sel.Focus.Offset,
	}, true
}

// RangeFromNative implements observer.DocumentView.
func (d *Document) RangeFromNative(r observer.NativeRange) (observer.Range, bool) {
	an, ok := r.Anchor.(*html.Node)
	if !ok {
		return observer.Range{}, false
	}
	fn, ok := r.Focus.(*html.Node)
	if !ok {
		return observer.Range{}, false
	}
	from, ok := d.Offset(Point{Node: an, Offset: r.AnchorOffset})
	if !ok {
		return observer.Range{}, false
	}
	to, ok := d.Offset(Point{Node: fn, Offset: r.FocusOffset})
	if !ok {
		return observer.Range{}, false
	}
	return observer.Range{From: from, To: to}, true
}

// Offset maps p to a linear model offset.
//
// Branch nodes occupy an open and a close position, text one position per
// grapheme cluster, and shielded nodes two positions. Annotation elements
// and slugs occupy none. A point inside a shielded node or a slug maps to
// the position before it.
func (d *Document) Offset(p Point) (int, bool) {
	if p.Node == nil || !contains(d.root, p.Node) {
		return 0, false
	}
	w := offsetWalker{d: d, target: p}
	if !w.children(d.root) {
		return 0, false
	}
	return w.found, true
}

type offsetWalker struct {
	d      *Document
	target Point
	pos    int
	found  int
}

func (w *offsetWalker) hit(at int) bool {
	w.found = at
	return true
}

// children walks the children of n and reports whether the target was
// reached.
func (w *offsetWalker) children(n *html.Node) bool {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if w.target.Node == n && w.target.Offset <= i {
			return w.hit(w.pos)
		}
		if w.visit(c) {
			return true
		}
		i++
	}
	if w.target.Node == n {
		return w.hit(w.pos)
	}
	return false
}

func (w *offsetWalker) visit(c *html.Node) bool {
	switch {
	case c.Type == html.TextNode:
		if ignorable(c) {
			if w.target.Node == c {
				return w.hit(w.pos)
			}
			return false
		}
		n := grapheme.Count(c.Data)
		if w.target.Node == c {
			return w.hit(w.pos + clamp(w.target.Offset, 0, n))
		}
		w.pos += n
	case c.Type != html.ElementNode:
		if w.target.Node == c {
			return w.hit(w.pos)
		}
	case w.d.isShielded(c):
		if contains(c, w.target.Node) {
			return w.hit(w.pos)
		}
		w.pos += 2
	case isSlug(c):
		if contains(c, w.target.Node) {
			return w.hit(w.pos)
		}
	case isBranch(c):
		w.pos++
		if w.children(c) {
			return true
		}
		w.pos++
	default:
		if w.children(c) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
