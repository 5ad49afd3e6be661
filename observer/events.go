package observer

// ContentChange is emitted when the text or structure rendered inside the
// focused node changed between two polls. Previous matches the snapshot
// before the poll and Next the snapshot after it.
type ContentChange struct {
	Node     Node
	Previous ContentState
	Next     ContentState
}

// RangeChange is emitted when the model selection differs from the last
// committed one.
type RangeChange struct {
	Old RangeState
	New RangeState
}

// listeners is an ordered subscriber list. Handlers run synchronously in
// subscription order.
type listeners[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	l.next++
	id := l.next
	l.subs = append(l.subs, subscriber[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *listeners[T]) remove(id int) {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) emit(v T) {
	// Handlers may unsubscribe while being called.
	subs := l.subs
	for _, s := range subs {
		s.fn(v)
	}
}

// emitter groups the three event kinds the observer publishes.
type emitter struct {
	content   listeners[ContentChange]
	rng       listeners[RangeChange]
	slugEnter listeners[struct{}]
}

// OnContentChange subscribes fn to content changes. The returned func
// unsubscribes.
func (o *Observer) OnContentChange(fn func(ContentChange)) (cancel func()) {
	return o.events.content.add(fn)
}

// OnRangeChange subscribes fn to selection range changes.
func (o *Observer) OnRangeChange(fn func(RangeChange)) (cancel func()) {
	return o.events.rng.add(fn)
}

// OnSlugEnter subscribes fn to the cursor entering a block slug.
func (o *Observer) OnSlugEnter(fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	return o.events.slugEnter.add(func(struct{}) { fn() })
}
