package term

import (
	"strings"
	"unicode/utf8"
)

// Tracker accumulates raw output since the last incremental read. It backs
// the "new" view and feeds the prompt detector.
type Tracker struct {
	buf []byte
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Append records a chunk of PTY output.
func (t *Tracker) Append(data []byte) {
	t.buf = append(t.buf, data...)
}

// Take returns the accumulated output and clears it.
func (t *Tracker) Take(f Format) string {
	out := t.render(f)
	t.buf = t.buf[:0]
	return out
}

// Peek returns the accumulated output without clearing it.
func (t *Tracker) Peek(f Format) string {
	return t.render(f)
}

// HasContent reports whether output arrived since the last Take.
func (t *Tracker) HasContent() bool { return len(t.buf) > 0 }

// Clear drops accumulated output without returning it.
func (t *Tracker) Clear() { t.buf = t.buf[:0] }

// Len returns the buffered byte count.
func (t *Tracker) Len() int { return len(t.buf) }

func (t *Tracker) render(f Format) string {
	raw := strings.ToValidUTF8(string(t.buf), string(utf8.RuneError))
	if f == FormatPlain {
		return StripANSI(raw)
	}
	return raw
}
