package term

// ColorMode selects how a Color value is interpreted.
type ColorMode uint8

const (
	// ColorDefault is the terminal's default foreground or background.
	ColorDefault ColorMode = iota
	// ColorIndexed references one of the 256 palette entries.
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a cell foreground or background color. The zero value is the
// terminal default.
type Color struct {
	Mode  ColorMode
	Index uint8
	R     uint8
	G     uint8
	B     uint8
}

// Indexed returns a palette color.
func Indexed(i uint8) Color { return Color{Mode: ColorIndexed, Index: i} }

// RGB returns a truecolor value.
func RGB(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

// Attributes is the graphic rendition a cell was written with.
type Attributes struct {
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Blink         bool
	Reverse       bool
	Hidden        bool
	Strikethrough bool
	Foreground    Color
	Background    Color
}

// IsDefault reports whether the attributes carry no styling.
func (a Attributes) IsDefault() bool { return a == Attributes{} }

// Cell is a single character position in the grid.
type Cell struct {
	// Rune is the character stored at this position.
	Rune rune
	// Width is the display width: 0 marks the continuation cell of a
	// wide character, 1 a normal character, 2 a wide character.
	Width uint8
	// Attrs is the rendition the cell was written with.
	Attrs Attributes
}

func blankCell() Cell { return Cell{Rune: ' ', Width: 1} }

// blank reports whether the cell is an unstyled space.
func blank(c Cell) bool {
	return c.Width == 1 && c.Rune == ' ' && c.Attrs.IsDefault()
}
