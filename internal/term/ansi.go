package term

import "strings"

type stripState uint8

const (
	stripGround stripState = iota
	stripEscape
	stripCSI
	stripString // OSC, DCS, SOS, PM, APC bodies
	stripStringEscape
	stripCharset
)

// StripANSI removes escape sequences from s, keeping printable text and
// plain control characters such as newlines and tabs. It is independent of
// the full parser so callers can strip already-buffered text cheaply.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	state := stripGround

	for _, r := range s {
		switch state {
		case stripGround:
			if r == 0x1b {
				state = stripEscape
			} else {
				b.WriteRune(r)
			}
		case stripEscape:
			switch r {
			case '[':
				state = stripCSI
			case ']', 'P', 'X', '^', '_':
				state = stripString
			case '(', ')', '*', '+', '-', '.', '/':
				state = stripCharset
			default:
				// Single-character sequence.
				state = stripGround
			}
		case stripCharset:
			// The designation byte itself.
			state = stripGround
		case stripCSI:
			if r >= 0x40 && r <= 0x7e {
				state = stripGround
			}
		case stripString:
			if r == 0x07 {
				state = stripGround
			} else if r == 0x1b {
				state = stripStringEscape
			}
		case stripStringEscape:
			if r == '\\' {
				state = stripGround
			} else {
				state = stripString
			}
		}
	}
	return b.String()
}
