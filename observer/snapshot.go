package observer

// Snapshot is the observer's last-known view of the surface.
//
// Text and Hash are meaningful only while Node is set. Native is the raw
// selection seen by the last poll that read one; NativeSet is false before
// the first such poll and after Clear.
type Snapshot struct {
	Native    NativeRange
	NativeSet bool

	Range RangeState
	Node  Node
	Text  string
	Hash  string
	Slug  Slug
}

// Focused reports whether a structural node is focused.
func (s Snapshot) Focused() bool { return s.Node != nil }

// Anchor returns the identity of the native anchor node, or nil.
func (s Snapshot) Anchor() any {
	if !s.NativeSet {
		return nil
	}
	return s.Native.Anchor
}

// ContentState is one side of a content change.
type ContentState struct {
	Text  string
	Hash  string
	Range RangeState
}

func (s Snapshot) content() ContentState {
	return ContentState{Text: s.Text, Hash: s.Hash, Range: s.Range}
}
