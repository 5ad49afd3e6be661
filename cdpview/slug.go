package cdpview

import (
	"github.com/iw2rmb/ceobserve/dom"
)

// Slug is a block slug wrapper in the page, addressed by its path key.
type Slug struct {
	view *View
	key  string
}

func (s Slug) Key() string { return s.key }

const focusJS = `(selector, path, focused) => {
	let n = document.querySelector(selector);
	for (const i of path) {
		if (!n) return false;
		n = n.childNodes[i];
	}
	if (!n || !n.classList) return false;
	n.classList.toggle('ve-ce-branchNode-blockSlugWrapper-focused', focused);
	n.classList.toggle('ve-ce-branchNode-blockSlugWrapper-unfocused', !focused);
	return true;
}`

// SetFocused toggles the focus marker classes on the wrapper, both in the
// page and in the last capture.
func (s Slug) SetFocused(focused bool) {
	v := s.view
	p, ok := dom.ParsePath(s.key)
	if !ok {
		return
	}
	path := []int(p)
	if path == nil {
		path = []int{}
	}
	if _, err := v.page.Eval(focusJS, v.selector, path, focused); err != nil {
		v.log.Warn("cdpview: set slug focus failed", "slug", s.key, "focused", focused, "error", err)
	}
	if v.doc == nil {
		return
	}
	if r := v.doc.Resolve(v.doc.NodeAt(p)); r.Slug != nil {
		r.Slug.SetFocused(focused)
	}
}
