package term

import "fmt"

// Format selects how buffered output is rendered.
type Format uint8

const (
	// FormatPlain strips escape sequences, returning printable text.
	FormatPlain Format = iota
	// FormatRaw preserves attribute and color sequences.
	FormatRaw
)

// ParseFormat maps the wire names "plain" and "raw". An empty string is
// plain.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "plain":
		return FormatPlain, nil
	case "raw":
		return FormatRaw, nil
	default:
		return FormatPlain, fmt.Errorf("unknown output format %q", s)
	}
}

func (f Format) String() string {
	if f == FormatRaw {
		return "raw"
	}
	return "plain"
}

// View selects which buffer a read returns.
type View uint8

const (
	// ViewNew returns output accumulated since the last read.
	ViewNew View = iota
	// ViewScreen renders the current grid.
	ViewScreen
	// ViewScrollback pages through lines evicted from the grid.
	ViewScrollback
)

// ParseView maps the wire names "new", "screen" and "scrollback". An empty
// string is new.
func ParseView(s string) (View, error) {
	switch s {
	case "", "new":
		return ViewNew, nil
	case "screen":
		return ViewScreen, nil
	case "scrollback":
		return ViewScrollback, nil
	default:
		return ViewNew, fmt.Errorf("unknown view %q", s)
	}
}

func (v View) String() string {
	switch v {
	case ViewScreen:
		return "screen"
	case ViewScrollback:
		return "scrollback"
	default:
		return "new"
	}
}
