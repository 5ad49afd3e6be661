// Package observer reconciles an editor's model with its rendered surface.
//
// The rendered document can change without the editor's involvement: the
// browser inserts typed characters, IME composition replaces text, spellcheck
// rewrites words, and the user moves the caret. An Observer polls a
// DocumentView on a fixed interval, compares what it sees with the last
// committed Snapshot and emits ContentChange, RangeChange and slug-enter
// events before committing the new state, so subscribers always see both the
// previous and the next values.
//
// Polls come in three flavours: PollOnce checks content and selection,
// PollOnceSelection skips the content diff, and PollOnceNoEmit resyncs
// silently.
package observer
