// Package dom is a document view over a parsed ContentEditable surface.
//
// A Document wraps a golang.org/x/net/html tree containing one element with
// the ve-ce-documentNode class. It tracks a native selection, maps it to
// linear model offsets, resolves DOM positions to branch nodes and block slug
// wrappers, and extracts per-node text and structural hashes, which makes it
// an observer.DocumentView. It also offers the edits a browser performs on
// its own (typing, deleting, splitting text nodes, pasting) so those can be
// replayed against an observer.
//
// Offsets inside text nodes are grapheme-cluster offsets.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

const (
	ClassDocument      = "ve-ce-documentNode"
	ClassBranch        = "ve-ce-branchNode"
	ClassSlugWrapper   = "ve-ce-branchNode-blockSlugWrapper"
	ClassSlugFocused   = ClassSlugWrapper + "-focused"
	ClassSlugUnfocused = ClassSlugWrapper + "-unfocused"
	ClassLeaf          = "ve-ce-leafNode"
	ClassAlien         = "ve-ce-alienNode"
)

var (
	ErrNoDocumentNode = errors.New("dom: no " + ClassDocument + " element")
	ErrNoCaret        = errors.New("dom: selection is not a caret")
)

// Document is a rendered editor document. It is not safe for concurrent
// use.
type Document struct {
	id   uuid.UUID
	tree *html.Node
	root *html.Node
	log  *slog.Logger

	sel    Selection
	hasSel bool
}

type Option func(*Document)

func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// Parse reads an HTML document and observes its first ve-ce-documentNode
// element. Document nodes nested inside it belong to other documents.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	tree, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	root := findFirst(tree, func(n *html.Node) bool { return hasClass(n, ClassDocument) })
	if root == nil {
		return nil, ErrNoDocumentNode
	}
	d := &Document{
		id:   uuid.Must(uuid.NewV7()),
		tree: tree,
		root: root,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With("document", d.id.String())
	return d, nil
}

func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ID identifies this document instance in logs.
func (d *Document) ID() uuid.UUID { return d.id }

// Root returns the observed ve-ce-documentNode element.
func (d *Document) Root() *html.Node { return d.root }

// Render returns the outer HTML of the document node.
func (d *Document) Render() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		d.log.Warn("dom: render failed", "error", err)
	}
	return buf.String()
}

// Find returns the element with the given id attribute anywhere in the
// parsed page, or nil.
func (d *Document) Find(id string) *html.Node {
	return findFirst(d.tree, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
}

// FirstText returns the first text node under n that carries content.
func (d *Document) FirstText(n *html.Node) *html.Node {
	return findFirst(n, func(c *html.Node) bool {
		return c.Type == html.TextNode && !ignorable(c)
	})
}

// TextNodes returns the text nodes of the document in order, skipping
// whitespace between blocks and the content of shielded nodes.
func (d *Document) TextNodes() []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				if !ignorable(c) {
					out = append(out, c)
				}
			case c.Type == html.ElementNode && !d.isShielded(c):
				walk(c)
			}
		}
	}
	walk(d.root)
	return out
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// contains reports whether n is anc or one of its descendants.
func contains(anc, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == anc {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func setClass(n *html.Node, class string, on bool) {
	if n == nil || n.Type != html.ElementNode || hasClass(n, class) == on {
		return
	}
	classes := strings.Fields(attr(n, "class"))
	if on {
		classes = append(classes, class)
	} else {
		kept := classes[:0]
		for _, c := range classes {
			if c != class {
				kept = append(kept, c)
			}
		}
		classes = kept
	}
	val := strings.Join(classes, " ")
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == "class" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: val})
}

func isBranch(n *html.Node) bool { return hasClass(n, ClassBranch) }
func isSlug(n *html.Node) bool   { return hasClass(n, ClassSlugWrapper) }

// isShielded reports whether n is opaque content: leaf and alien nodes, and
// document nodes of nested documents.
func (d *Document) isShielded(n *html.Node) bool {
	if n == d.root {
		return false
	}
	return hasClass(n, ClassLeaf) || hasClass(n, ClassAlien) || hasClass(n, ClassDocument)
}

// ignorable reports whether n is whitespace between blocks, which the
// renderer never produces and which has no model position.
func ignorable(n *html.Node) bool {
	if n.Type != html.TextNode || strings.TrimSpace(n.Data) != "" {
		return false
	}
	if n.Parent != nil && hasClass(n.Parent, ClassDocument) {
		return true
	}
	for _, s := range []*html.Node{n.PrevSibling, n.NextSibling} {
		if s != nil && (isBranch(s) || isSlug(s)) {
			return true
		}
	}
	return false
}
