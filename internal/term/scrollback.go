package term

import "strings"

// Scrollback retains lines evicted from the primary grid, oldest first,
// bounded by a fixed capacity.
type Scrollback struct {
	lines []Line
	max   int
}

// NewScrollback creates a buffer capped at max lines. A non-positive max
// retains nothing.
func NewScrollback(max int) *Scrollback {
	return &Scrollback{max: max}
}

// Push appends lines, evicting the oldest once the cap is reached.
func (s *Scrollback) Push(lines ...Line) {
	if s.max <= 0 {
		return
	}
	for _, ln := range lines {
		if len(s.lines) >= s.max {
			s.lines = s.lines[1:]
		}
		s.lines = append(s.lines, ln)
	}
}

// Get returns up to limit lines ending offset lines back from the newest;
// offset zero addresses the most recently evicted line.
func (s *Scrollback) Get(offset, limit int, f Format) string {
	total := len(s.lines)
	if total == 0 || offset < 0 || offset >= total || limit <= 0 {
		return ""
	}
	start := total - offset - limit
	if start < 0 {
		start = 0
	}
	end := total - offset

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		if f == FormatRaw {
			b.WriteString(s.lines[i].Raw)
		} else {
			b.WriteString(s.lines[i].Plain)
		}
	}
	return b.String()
}

// All returns every retained line.
func (s *Scrollback) All(f Format) string {
	return s.Get(0, len(s.lines), f)
}

// Len returns the number of retained lines.
func (s *Scrollback) Len() int { return len(s.lines) }

// Clear drops all retained lines.
func (s *Scrollback) Clear() { s.lines = nil }

// Cap returns the configured maximum.
func (s *Scrollback) Cap() int { return s.max }
