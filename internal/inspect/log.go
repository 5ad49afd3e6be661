package inspect

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// eventLog is shared by all copies of a Model, so observer callbacks
// registered once keep writing to the log the host renders.
type eventLog struct {
	lines []string
	limit int
	total int
}

func (l *eventLog) add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.total++
	if over := len(l.lines) - l.limit; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

func (l *eventLog) render(width int) string {
	if width <= 0 {
		return strings.Join(l.lines, "\n")
	}
	out := make([]string, len(l.lines))
	for i, line := range l.lines {
		out[i] = runewidth.Truncate(line, width, "…")
	}
	return strings.Join(out, "\n")
}

// surface records repositioning requests in the log.
type surface struct {
	events *eventLog
}

func (s surface) Position() { s.events.add("surface positioned") }
