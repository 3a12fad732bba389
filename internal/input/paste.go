package input

import (
	"fmt"
	"strings"
)

// Bracketed paste markers.
const (
	PasteStart = "\x1b[200~"
	PasteEnd   = "\x1b[201~"
)

// PasteMode controls when literal text is wrapped in bracketed-paste
// markers.
type PasteMode int

const (
	// PasteAuto wraps text containing a newline.
	PasteAuto PasteMode = iota

	// PasteAlways wraps all text.
	PasteAlways

	// PasteNever sends text unwrapped.
	PasteNever
)

// ParsePasteMode resolves a paste mode name; empty means auto.
func ParsePasteMode(s string) (PasteMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PasteAuto, nil
	case "always":
		return PasteAlways, nil
	case "never":
		return PasteNever, nil
	default:
		return 0, fmt.Errorf("unknown paste mode: %q", s)
	}
}

// ShouldPaste reports whether text should be wrapped under mode.
func ShouldPaste(text string, mode PasteMode) bool {
	switch mode {
	case PasteAlways:
		return true
	case PasteNever:
		return false
	default:
		return strings.Contains(text, "\n")
	}
}

// WrapPaste surrounds text with bracketed-paste markers.
func WrapPaste(text string) []byte {
	out := make([]byte, 0, len(PasteStart)+len(text)+len(PasteEnd))
	out = append(out, PasteStart...)
	out = append(out, text...)
	out = append(out, PasteEnd...)
	return out
}

// EncodeText encodes literal text, wrapping it when the mode calls for it.
func EncodeText(text string, mode PasteMode) []byte {
	if ShouldPaste(text, mode) {
		return WrapPaste(text)
	}
	return []byte(text)
}
