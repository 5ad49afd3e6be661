package observer

func (o *Observer) poll(emit, selectionOnly bool) {
	view := o.view
	if view == nil || o.disabled {
		return
	}

	prev := o.snap
	rng := prev.Range
	node := prev.Node

	native, hasNative := view.NativeRange()
	if !hasNative {
		native = NativeRange{}
	}

	nativeChanged := !prev.NativeSet || prev.Native != native
	anchorChange := false
	if nativeChanged {
		if !prev.NativeSet || prev.Native.Anchor != native.Anchor {
			anchorChange = true
		}
		rng = RangeState{}
		if hasNative && (anchorChange || !o.foreign) {
			if r, ok := view.RangeFromNative(native); ok {
				rng = Present(r)
			}
		}
	}

	enteredSlug, leftSlug := false, false
	if anchorChange {
		node = nil
		o.foreign = false

		var slug Slug
		if hasNative && native.Anchor != nil {
			res := view.Resolve(native.Anchor)
			switch {
			case res.Slug != nil:
				slug = res.Slug
			case res.Node != nil:
				if view.Owns(res.Node) {
					node = res.Node
				} else {
					// The selection is inside another document rendered within
					// this one.
					o.foreign = true
					rng = RangeState{}
				}
			}
		}

		if o.snap.Slug != nil && o.snap.Slug != slug {
			o.snap.Slug.SetFocused(false)
			o.snap.Slug = nil
			leftSlug = true
		}
		if slug != nil && slug != o.snap.Slug {
			slug.SetFocused(true)
			o.snap.Slug = slug
			enteredSlug = true
		}
		if enteredSlug || leftSlug {
			o.log.Debug("observer slug focus changed", "entered", enteredSlug, "left", leftSlug)
			o.schedulePosition()
		}
	}

	if nativeChanged {
		o.snap.Native = native
		o.snap.NativeSet = true
	}

	if prev.Node != node {
		if node == nil {
			o.snap.Node, o.snap.Text, o.snap.Hash = nil, "", ""
		} else {
			o.snap.Node = node
			o.snap.Text = view.Text(node)
			o.snap.Hash = view.Hash(node)
		}
	} else if !selectionOnly && node != nil {
		text, hash := view.Text(node), view.Hash(node)
		if text != o.snap.Text || hash != o.snap.Hash {
			if emit {
				ev := ContentChange{
					Node:     node,
					Previous: o.snap.content(),
					Next:     ContentState{Text: text, Hash: hash, Range: rng},
				}
				o.log.Debug("observer content change", "prev_text", ev.Previous.Text, "next_text", ev.Next.Text)
				o.events.content.emit(ev)
				if o.view != view {
					return
				}
			}
			o.snap.Text, o.snap.Hash = text, hash
		}
	}

	if !o.snap.Range.Equal(rng) {
		if emit {
			o.log.Debug("observer range change", "old", o.snap.Range.String(), "new", rng.String())
			o.events.rng.emit(RangeChange{Old: o.snap.Range, New: rng})
			if o.view != view {
				return
			}
		}
		o.snap.Range = rng
	}

	if emit && enteredSlug {
		o.events.slugEnter.emit(struct{}{})
	}
}

// schedulePosition tells the surface to reposition once slug focus
// transitions have finished. The callback is not cancelled by
// StopTimerLoop or Detach.
func (o *Observer) schedulePosition() {
	o.clk.AfterFunc(o.cfg.PositionDelay, func() {
		if o.surface != nil {
			o.surface.Position()
		}
	})
}
