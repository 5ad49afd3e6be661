package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Path addresses a node by child indices from the document node. The
// document node itself has an empty path.
type Path []int

// Key returns a comparable form of p, e.g. "0/2/1".
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "/")
}

// ParsePath parses a key produced by Path.Key.
func ParsePath(key string) (Path, bool) {
	if key == "" {
		return Path{}, true
	}
	parts := strings.Split(key, "/")
	p := make(Path, len(parts))
	for i, s := range parts {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, false
		}
		p[i] = v
	}
	return p, true
}

// PathOf returns the path of n, or false when n is outside the document
// node.
func (d *Document) PathOf(n *html.Node) (Path, bool) {
	if !contains(d.root, n) {
		return nil, false
	}
	var rev Path
	for ; n != d.root; n = n.Parent {
		rev = append(rev, indexOf(n))
	}
	p := make(Path, len(rev))
	for i := range rev {
		p[i] = rev[len(rev)-1-i]
	}
	return p, true
}

// NodeAt returns the node at p, or nil.
func (d *Document) NodeAt(p Path) *html.Node {
	n := d.root
	for _, i := range p {
		if i < 0 {
			return nil
		}
		n = childAt(n, i)
		if n == nil {
			return nil
		}
	}
	return n
}
