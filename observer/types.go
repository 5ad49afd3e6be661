package observer

import "fmt"

// Range is a selection in linear document-model offsets. From is the anchor
// side and To the focus side, so From may be greater than To for a backwards
// selection.
type Range struct {
	From int
	To   int
}

func (r Range) IsCollapsed() bool { return r.From == r.To }

func (r Range) String() string { return fmt.Sprintf("(%d,%d)", r.From, r.To) }

// RangeState is a Range that may be absent. The zero value is absent, which
// is distinct from a present zero-length range.
type RangeState struct {
	Range Range
	Valid bool
}

// Present wraps r as a present range.
func Present(r Range) RangeState { return RangeState{Range: r, Valid: true} }

// Equal treats two absent ranges as equal and an absent range as unequal to
// any present one.
func (s RangeState) Equal(o RangeState) bool {
	if !s.Valid || !o.Valid {
		return s.Valid == o.Valid
	}
	return s.Range == o.Range
}

func (s RangeState) String() string {
	if !s.Valid {
		return "null"
	}
	return s.Range.String()
}

// NativeRange is the raw selection read from the rendered surface.
//
// Anchor and Focus are opaque identities of the DOM nodes holding the two
// selection endpoints. The observer only compares them; it never dereferences
// them. They must be comparable values (pointers or strings).
type NativeRange struct {
	Anchor       any
	AnchorOffset int
	Focus        any
	FocusOffset  int
}

// Node is an opaque, comparable handle to a structural node of the document
// view. The observer uses it as a lookup key and hands it back to the view.
type Node any

// Slug is a block slug wrapper: a placeholder rendered where no block
// content exists yet. Implementations must be comparable so the observer can
// tell whether the same wrapper is still focused.
type Slug interface {
	SetFocused(focused bool)
}

// Resolution is the structural unit enclosing a native anchor. At most one
// of Node and Slug is set; both nil means the anchor lies outside any unit
// of the observed document.
type Resolution struct {
	Node Node
	Slug Slug
}

// DocumentView is the rendered document the observer reconciles against.
type DocumentView interface {
	// NativeRange reads the current native selection. ok is false when
	// there is none.
	NativeRange() (r NativeRange, ok bool)
	// RangeFromNative maps a native range to model offsets. ok is false when
	// either endpoint does not resolve to a position in the document.
	RangeFromNative(r NativeRange) (Range, bool)
	// Resolve finds the closest branch node or block slug wrapper enclosing
	// anchor.
	Resolve(anchor any) Resolution
	// Owns reports whether node belongs to this document rather than to a
	// nested or foreign one.
	Owns(node Node) bool
	// Text returns the plain text rendered inside node.
	Text(node Node) string
	// Hash returns a structural fingerprint of the content rendered inside
	// node.
	Hash(node Node) string
}

// Surface is notified after the focused slug changed so it can reposition
// dependent overlays.
type Surface interface {
	Position()
}
