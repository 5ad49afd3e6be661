// Package cdpview observes the ContentEditable surface of a live Chrome page.
//
// Each native range read captures the document node's outer HTML and the
// selection endpoints as child-index paths in one evaluation. The capture is
// parsed into a dom.Document and every other view operation is answered from
// it, so the observer sees a consistent state for the whole poll. Node and
// anchor identities are path keys, which stay comparable across captures.
package cdpview

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"

	"github.com/iw2rmb/ceobserve/dom"
	"github.com/iw2rmb/ceobserve/internal/grapheme"
	"github.com/iw2rmb/ceobserve/observer"
)

// DefaultSelector finds the observed document node.
const DefaultSelector = "." + dom.ClassDocument

// outside is the anchor key of selection endpoints outside the document
// node.
const outside = "outside"

// Evaluator runs a JavaScript function in the page. *rod.Page satisfies it.
type Evaluator interface {
	Eval(js string, args ...interface{}) (*proto.RuntimeRemoteObject, error)
}

// View is an observer.DocumentView backed by a page.
type View struct {
	page     Evaluator
	selector string
	log      *slog.Logger

	doc *dom.Document
}

type Option func(*View)

func WithSelector(sel string) Option {
	return func(v *View) {
		if sel != "" {
			v.selector = sel
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.log = l
		}
	}
}

func New(page Evaluator, opts ...Option) *View {
	v := &View{
		page:     page,
		selector: DefaultSelector,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Document returns the last capture, or nil before the first one.
func (v *View) Document() *dom.Document { return v.doc }

const captureJS = `(selector) => {
	const root = document.querySelector(selector);
	if (!root) return JSON.stringify({found: false});
	const pathOf = (n) => {
		if (!n || !root.contains(n)) return null;
		const p = [];
		while (n !== root) {
			let i = 0;
			for (let c = n.previousSibling; c; c = c.previousSibling) i++;
			p.unshift(i);
			n = n.parentNode;
		}
		return p;
	};
	const out = {found: true, html: root.outerHTML, hasSel: false};
	const sel = window.getSelection();
	if (sel && sel.rangeCount > 0 && sel.anchorNode) {
		out.hasSel = true;
		out.anchor = pathOf(sel.anchorNode);
		out.anchorOffset = sel.anchorOffset;
		out.focus = pathOf(sel.focusNode);
		out.focusOffset = sel.focusOffset;
	}
	return JSON.stringify(out);
}`

type capture struct {
	Found        bool   `json:"found"`
	HTML         string `json:"html"`
	HasSel       bool   `json:"hasSel"`
	Anchor       []int  `json:"anchor"`
	AnchorOffset int    `json:"anchorOffset"`
	Focus        []int  `json:"focus"`
	FocusOffset  int    `json:"focusOffset"`
}

func (v *View) capture() (capture, error) {
	res, err := v.page.Eval(captureJS, v.selector)
	if err != nil {
		return capture{}, fmt.Errorf("cdpview: capture: %w", err)
	}
	var c capture
	if err := json.Unmarshal([]byte(res.Value.Str()), &c); err != nil {
		return capture{}, fmt.Errorf("cdpview: decode capture: %w", err)
	}
	return c, nil
}

// NativeRange implements observer.DocumentView. A failed capture is logged
// and reported as no selection.
func (v *View) NativeRange() (observer.NativeRange, bool) {
	c, err := v.capture()
	if err != nil {
		v.log.Warn("cdpview: capture failed", "error", err)
		return observer.NativeRange{}, false
	}
	if !c.Found {
		v.doc = nil
		return observer.NativeRange{}, false
	}
	doc, err := dom.ParseString(c.HTML, dom.WithLogger(v.log))
	if err != nil {
		v.log.Warn("cdpview: parse capture failed", "error", err)
		return observer.NativeRange{}, false
	}
	v.doc = doc
	if !c.HasSel {
		return observer.NativeRange{}, false
	}
	akey, aoff := v.endpoint(c.Anchor, c.AnchorOffset)
	fkey, foff := v.endpoint(c.Focus, c.FocusOffset)
	return observer.NativeRange{Anchor: akey, AnchorOffset: aoff, Focus: fkey, FocusOffset: foff}, true
}

// endpoint converts a captured path and DOM offset into a path key and an
// offset in dom units: graphemes in text nodes, child indices in elements.
func (v *View) endpoint(path []int, offset int) (string, int) {
	if path == nil {
		return outside, offset
	}
	p := dom.Path(path)
	if n := v.doc.NodeAt(p); n != nil && n.Type == html.TextNode {
		offset = grapheme.FromUTF16(n.Data, offset)
	}
	return p.Key(), offset
}

func (v *View) node(key any) *html.Node {
	k, ok := key.(string)
	if !ok || v.doc == nil || k == outside {
		return nil
	}
	p, ok := dom.ParsePath(k)
	if !ok {
		return nil
	}
	return v.doc.NodeAt(p)
}

func (v *View) key(n *html.Node) (string, bool) {
	p, ok := v.doc.PathOf(n)
	if !ok {
		return "", false
	}
	return p.Key(), true
}

// RangeFromNative implements observer.DocumentView.
func (v *View) RangeFromNative(r observer.NativeRange) (observer.Range, bool) {
	an, fn := v.node(r.Anchor), v.node(r.Focus)
	if an == nil || fn == nil {
		return observer.Range{}, false
	}
	from, ok := v.doc.Offset(dom.Point{Node: an, Offset: r.AnchorOffset})
	if !ok {
		return observer.Range{}, false
	}
	to, ok := v.doc.Offset(dom.Point{Node: fn, Offset: r.FocusOffset})
	if !ok {
		return observer.Range{}, false
	}
	return observer.Range{From: from, To: to}, true
}

// Resolve implements observer.DocumentView.
func (v *View) Resolve(anchor any) observer.Resolution {
	n := v.node(anchor)
	if n == nil {
		return observer.Resolution{}
	}
	res := v.doc.Resolve(n)
	switch {
	case res.Slug != nil:
		s, ok := res.Slug.(dom.Slug)
		if !ok {
			return observer.Resolution{}
		}
		k, ok := v.key(s.Node())
		if !ok {
			return observer.Resolution{}
		}
		return observer.Resolution{Slug: Slug{view: v, key: k}}
	case res.Node != nil:
		hn, _ := res.Node.(*html.Node)
		k, ok := v.key(hn)
		if !ok {
			return observer.Resolution{}
		}
		return observer.Resolution{Node: k}
	}
	return observer.Resolution{}
}

// Owns implements observer.DocumentView.
func (v *View) Owns(node observer.Node) bool {
	n := v.node(node)
	return n != nil && v.doc.Owns(n)
}

// Text implements observer.DocumentView.
func (v *View) Text(node observer.Node) string {
	n := v.node(node)
	if n == nil {
		return ""
	}
	return v.doc.Text(n)
}

// Hash implements observer.DocumentView.
func (v *View) Hash(node observer.Node) string {
	n := v.node(node)
	if n == nil {
		return ""
	}
	return v.doc.Hash(n)
}
