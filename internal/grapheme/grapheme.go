// Package grapheme converts between grapheme-cluster offsets and the other
// offset units a rendered document uses (bytes, UTF-16 code units).
package grapheme

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n++
	}
	return n
}

// ByteOffset returns the byte index at which the cluster with index g
// starts. g is clamped to [0, Count(text)].
func ByteOffset(text string, g int) int {
	if g <= 0 || text == "" {
		return 0
	}
	gr := uniseg.NewGraphemes(text)
	idx := 0
	for gr.Next() {
		if idx == g {
			start, _ := gr.Positions()
			return start
		}
		idx++
	}
	return len(text)
}

// Slice returns the grapheme-safe substring for [start, end).
func Slice(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return text[ByteOffset(text, start):ByteOffset(text, end)]
}

// FromUTF16 converts an offset in UTF-16 code units, as reported by browser
// selection APIs, into a grapheme offset. An offset that falls inside a
// cluster is rounded down to the cluster start.
func FromUTF16(text string, units int) int {
	if units <= 0 || text == "" {
		return 0
	}
	gr := uniseg.NewGraphemes(text)
	seen := 0
	idx := 0
	for gr.Next() {
		w := utf16Len(gr.Str())
		if seen+w > units {
			return idx
		}
		seen += w
		idx++
	}
	return idx
}

// ToUTF16 converts a grapheme offset into UTF-16 code units.
func ToUTF16(text string, g int) int {
	return utf16Len(text[:ByteOffset(text, g)])
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
