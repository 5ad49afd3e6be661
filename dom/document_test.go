package dom

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/iw2rmb/ceobserve/observer"
)

const fixture = `<!DOCTYPE html>
<html><body>
<div id="toolbar"><span id="tb">Bold</span></div>
<div class="ve-ce-documentNode ve-ce-branchNode" id="doc">
  <p class="ve-ce-branchNode" id="p1">ab<b>cd</b></p>
  <div class="ve-ce-branchNode-blockSlugWrapper ve-ce-branchNode-blockSlugWrapper-unfocused" id="slug"><p class="ve-ce-branchNode-blockSlug">&nbsp;</p></div>
  <p class="ve-ce-branchNode" id="p2">x<span class="ve-ce-leafNode ve-ce-alienNode" id="alien"><i>opaque</i></span>y</p>
  <div class="ve-ce-alienNode" id="host"><div class="ve-ce-documentNode ve-ce-branchNode"><p class="ve-ce-branchNode" id="inner">zz</p></div></div>
</div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	d, err := ParseString(fixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return d
}

func textIn(t *testing.T, d *Document, id string) *html.Node {
	t.Helper()
	el := d.Find(id)
	if el == nil {
		t.Fatalf("no element #%s", id)
	}
	n := d.FirstText(el)
	if n == nil {
		t.Fatalf("no text in #%s", id)
	}
	return n
}

func TestParse_RequiresDocumentNode(t *testing.T) {
	_, err := ParseString(`<p>plain</p>`)
	if !errors.Is(err, ErrNoDocumentNode) {
		t.Fatalf("err: got %v, want %v", err, ErrNoDocumentNode)
	}
	d := mustParse(t)
	if d.Root() != d.Find("doc") {
		t.Fatalf("root is not the outer document node")
	}
}

func TestOffset_LinearModel(t *testing.T) {
	d := mustParse(t)
	b := d.Find("p1").LastChild

	cases := []struct {
		name string
		p    Point
		want int
	}{
		{name: "start of paragraph", p: Point{Node: d.Find("p1"), Offset: 0}, want: 1},
		{name: "inside text", p: Point{Node: textIn(t, d, "p1"), Offset: 1}, want: 2},
		{name: "inside annotation", p: Point{Node: b.FirstChild, Offset: 2}, want: 5},
		{name: "offset clamped", p: Point{Node: b.FirstChild, Offset: 9}, want: 5},
		{name: "end of paragraph", p: Point{Node: d.Find("p1"), Offset: 2}, want: 5},
		{name: "inside slug", p: Point{Node: d.Find("slug"), Offset: 0}, want: 6},
		{name: "after alien", p: Point{Node: d.Find("alien").NextSibling, Offset: 0}, want: 10},
		{name: "inside alien", p: Point{Node: d.FirstText(d.Find("alien")), Offset: 3}, want: 8},
		{name: "inside nested document", p: Point{Node: textIn(t, d, "inner"), Offset: 1}, want: 12},
	}
	for _, tc := range cases {
		got, ok := d.Offset(tc.p)
		if !ok {
			t.Fatalf("%s: offset not resolved", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}

	if _, ok := d.Offset(Point{Node: textIn(t, d, "tb"), Offset: 0}); ok {
		t.Fatalf("toolbar point resolved to an offset")
	}
}

func TestRangeFromNative_Backwards(t *testing.T) {
	d := mustParse(t)
	d.Select(Point{Node: textIn(t, d, "p2"), Offset: 1}, Point{Node: textIn(t, d, "p1"), Offset: 0})
	nr, ok := d.NativeRange()
	if !ok {
		t.Fatalf("native range missing")
	}
	r, ok := d.RangeFromNative(nr)
	if !ok {
		t.Fatalf("range not resolved")
	}
	if want := (observer.Range{From: 8, To: 1}); r != want {
		t.Fatalf("range: got %v, want %v", r, want)
	}

	d.ClearSelection()
	if _, ok := d.NativeRange(); ok {
		t.Fatalf("native range after clear")
	}
}

func TestResolve(t *testing.T) {
	d := mustParse(t)

	if got := d.Resolve(d.Find("p1").LastChild.FirstChild); got.Node != d.Find("p1") {
		t.Fatalf("annotation text resolved to %v, want #p1", got.Node)
	}
	res := d.Resolve(d.FirstText(d.Find("slug")))
	s, ok := res.Slug.(Slug)
	if !ok || s.Node() != d.Find("slug") || res.Node != nil {
		t.Fatalf("slug text resolved to %+v, want slug wrapper", res)
	}
	if got := d.Resolve(textIn(t, d, "tb")); got != (observer.Resolution{}) {
		t.Fatalf("toolbar resolved to %+v, want nothing", got)
	}
	if got := d.Resolve(d.Root().FirstChild); got.Node != d.Root() {
		t.Fatalf("inter-block whitespace resolved to %v, want document node", got.Node)
	}

	inner := d.Resolve(textIn(t, d, "inner"))
	if inner.Node != d.Find("inner") {
		t.Fatalf("nested text resolved to %v, want #inner", inner.Node)
	}
	if d.Owns(inner.Node) {
		t.Fatalf("nested document node reported as owned")
	}
	if !d.Owns(d.Find("p1")) {
		t.Fatalf("#p1 reported as foreign")
	}
}

func TestTextAndHash(t *testing.T) {
	d := mustParse(t)
	cases := []struct {
		id   string
		text string
		hash string
	}{
		{id: "p1", text: "abcd", hash: "<p>#<b>#</b></p>"},
		{id: "p2", text: "x☃y", hash: "<p>#<span shield/>#</p>"},
	}
	for _, tc := range cases {
		n := d.Find(tc.id)
		if got := d.Text(n); got != tc.text {
			t.Fatalf("text #%s: got %q, want %q", tc.id, got, tc.text)
		}
		if got := d.Hash(n); got != tc.hash {
			t.Fatalf("hash #%s: got %q, want %q", tc.id, got, tc.hash)
		}
	}
	if got := d.Text(d.Root()); got != "abcdx☃y☃" {
		t.Fatalf("document text: got %q", got)
	}
}

func TestTextNodes(t *testing.T) {
	d := mustParse(t)
	var got []string
	for _, n := range d.TextNodes() {
		got = append(got, n.Data)
	}
	want := []string{"ab", "cd", "\u00a0", "x", "y"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("text nodes: got %q, want %q", got, want)
	}
}

func TestSplitText_ChangesHashOnly(t *testing.T) {
	d := mustParse(t)
	p1 := d.Find("p1")
	text, hash := d.Text(p1), d.Hash(p1)

	caret := textIn(t, d, "p1")
	d.Collapse(Point{Node: caret, Offset: 2})
	rest, err := d.SplitText(caret, 1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if d.Text(p1) != text {
		t.Fatalf("text changed by split: got %q, want %q", d.Text(p1), text)
	}
	if d.Hash(p1) == hash {
		t.Fatalf("hash unchanged by split: %q", hash)
	}
	sel, _ := d.Selection()
	if sel.Anchor != (Point{Node: rest, Offset: 1}) {
		t.Fatalf("caret after split: got %+v, want offset 1 in second half", sel.Anchor)
	}
}

func TestInsertAndDelete(t *testing.T) {
	d := mustParse(t)
	n := textIn(t, d, "p1")
	d.Collapse(Point{Node: n, Offset: 2})

	if err := d.InsertText("Zé"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := d.Text(d.Find("p1")); got != "abZécd" {
		t.Fatalf("text after insert: got %q", got)
	}
	sel, _ := d.Selection()
	if sel.Anchor.Offset != 4 {
		t.Fatalf("caret after insert: got %d, want 4", sel.Anchor.Offset)
	}

	if err := d.DeleteBackward(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := n.Data; got != "abZ" {
		t.Fatalf("text after delete: got %q, want %q", got, "abZ")
	}

	d.Select(Point{Node: n, Offset: 0}, Point{Node: n, Offset: 1})
	if err := d.InsertText("q"); !errors.Is(err, ErrNoCaret) {
		t.Fatalf("insert over range: got %v, want %v", err, ErrNoCaret)
	}
}

func TestInsertText_IntoEmptyElement(t *testing.T) {
	d := mustParse(t)
	slugP := d.Find("slug").FirstChild
	slugP.RemoveChild(slugP.FirstChild)
	d.Collapse(Point{Node: slugP, Offset: 0})

	if err := d.InsertText("new"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	sel, _ := d.Selection()
	if sel.Anchor.Node.Type != html.TextNode || sel.Anchor.Node.Data != "new" || sel.Anchor.Offset != 3 {
		t.Fatalf("caret: got %+v", sel.Anchor)
	}
}

func TestPasteHTML_Sanitises(t *testing.T) {
	d := mustParse(t)
	n := textIn(t, d, "p1")
	d.Collapse(Point{Node: n, Offset: 1})

	err := d.PasteHTML(`<b class="ve-ce-branchNode">X</b><script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	p1 := d.Find("p1")
	if got := d.Text(p1); got != "aXbcd" {
		t.Fatalf("text after paste: got %q, want %q", got, "aXbcd")
	}
	if got, want := d.Hash(p1), "<p>#<b>#</b>#<b>#</b></p>"; got != want {
		t.Fatalf("hash after paste: got %q, want %q", got, want)
	}
	if strings.Contains(d.Render(), "alert") {
		t.Fatalf("script survived paste: %s", d.Render())
	}
	if pasted := p1.FirstChild.NextSibling; pasted.Data != "b" || attr(pasted, "class") != "" {
		t.Fatalf("pasted node: got <%s class=%q>, want bare <b>", pasted.Data, attr(pasted, "class"))
	}
	sel, _ := d.Selection()
	if sel.Anchor != (Point{Node: p1, Offset: 2}) {
		t.Fatalf("caret after paste: got %+v", sel.Anchor)
	}
}

func TestSlug_SetFocused(t *testing.T) {
	d := mustParse(t)
	s := Slug{n: d.Find("slug")}
	s.SetFocused(true)
	if !hasClass(s.n, ClassSlugFocused) || hasClass(s.n, ClassSlugUnfocused) {
		t.Fatalf("focused classes: %q", attr(s.n, "class"))
	}
	s.SetFocused(false)
	if hasClass(s.n, ClassSlugFocused) || !hasClass(s.n, ClassSlugUnfocused) {
		t.Fatalf("unfocused classes: %q", attr(s.n, "class"))
	}
}

func TestPathRoundTrip(t *testing.T) {
	d := mustParse(t)
	n := d.Find("p1").LastChild.FirstChild
	p, ok := d.PathOf(n)
	if !ok {
		t.Fatalf("path not found")
	}
	back, ok := ParsePath(p.Key())
	if !ok {
		t.Fatalf("parse %q failed", p.Key())
	}
	if d.NodeAt(back) != n {
		t.Fatalf("node at %q is not the original", p.Key())
	}
	if _, ok := d.PathOf(textIn(t, d, "tb")); ok {
		t.Fatalf("toolbar node has a path")
	}
	if _, ok := ParsePath("1/x"); ok {
		t.Fatalf("malformed key parsed")
	}
}

func TestMarkdown(t *testing.T) {
	d := mustParse(t)
	md, err := d.Markdown(d.Find("p1"))
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if md != "ab**cd**" {
		t.Fatalf("markdown: got %q, want %q", md, "ab**cd**")
	}
}
