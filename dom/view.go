package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/iw2rmb/ceobserve/observer"
)

// Slug is a block slug wrapper element. Values compare equal when they wrap
// the same element.
type Slug struct {
	n *html.Node
}

func (s Slug) Node() *html.Node { return s.n }

// SetFocused swaps the focused and unfocused marker classes.
func (s Slug) SetFocused(focused bool) {
	setClass(s.n, ClassSlugFocused, focused)
	setClass(s.n, ClassSlugUnfocused, !focused)
}

// Resolve implements observer.DocumentView. It returns the closest branch
// node or slug wrapper enclosing anchor, which must be an *html.Node inside
// the observed document node.
func (d *Document) Resolve(anchor any) observer.Resolution {
	n, ok := anchor.(*html.Node)
	if !ok || n == nil || !contains(d.root, n) {
		return observer.Resolution{}
	}
	for ; n != nil; n = n.Parent {
		switch {
		case isSlug(n):
			return observer.Resolution{Slug: Slug{n: n}}
		case isBranch(n), hasClass(n, ClassDocument):
			return observer.Resolution{Node: n}
		}
		if n == d.root {
			break
		}
	}
	return observer.Resolution{}
}

// Owns implements observer.DocumentView: node belongs to this document when
// its closest document node is the observed one.
func (d *Document) Owns(node observer.Node) bool {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return false
	}
	return documentOf(n) == d.root
}

func documentOf(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if hasClass(n, ClassDocument) {
			return n
		}
	}
	return nil
}

// Text implements observer.DocumentView. Shielded nodes render as U+2603 and
// slugs are skipped.
func (d *Document) Text(node observer.Node) string {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	d.writeText(&sb, n)
	return sb.String()
}

func (d *Document) writeText(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if !ignorable(c) {
				sb.WriteString(c.Data)
			}
		case c.Type != html.ElementNode, isSlug(c):
		case d.isShielded(c):
			sb.WriteRune('☃')
		default:
			d.writeText(sb, c)
		}
	}
}

// Hash implements observer.DocumentView. The fingerprint lists element tags
// in document order, "#" for each text node and a shield marker for opaque
// nodes, whose content is not inspected.
func (d *Document) Hash(node observer.Node) string {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return ""
	}
	var sb strings.Builder
	d.writeHash(&sb, n)
	return sb.String()
}

func (d *Document) writeHash(sb *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		if !ignorable(n) {
			sb.WriteByte('#')
		}
		return
	case n.Type != html.ElementNode, isSlug(n):
		return
	case d.isShielded(n):
		sb.WriteString("<" + n.Data + " shield/>")
		return
	}
	sb.WriteString("<" + n.Data + ">")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.writeHash(sb, c)
	}
	sb.WriteString("</" + n.Data + ">")
}
