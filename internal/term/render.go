package term

import (
	"strconv"
	"strings"
)

// renderRow renders one grid row in both forms. The plain form skips
// continuation cells and trims trailing spaces; the raw form re-emits the
// cell attributes as SGR sequences, trimming only trailing unstyled
// blanks.
func renderRow(cells []Cell) (plain, raw string) {
	end := len(cells)
	for end > 0 && blank(cells[end-1]) {
		end--
	}

	var p, r strings.Builder
	var pen Attributes
	for _, c := range cells[:end] {
		if c.Width == 0 {
			continue
		}
		p.WriteRune(c.Rune)
		if c.Attrs != pen {
			r.WriteString(sgrCodes(c.Attrs))
			pen = c.Attrs
		}
		r.WriteRune(c.Rune)
	}
	if !pen.IsDefault() {
		r.WriteString("\x1b[0m")
	}
	return strings.TrimRight(p.String(), " "), r.String()
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// sgrCodes returns the escape sequence switching the pen to attrs from any
// prior state. The sequence always resets first, so runs stay independent.
func sgrCodes(attrs Attributes) string {
	if attrs.IsDefault() {
		return "\x1b[0m"
	}
	codes := make([]string, 0, 8)
	codes = append(codes, "0")
	if attrs.Bold {
		codes = append(codes, "1")
	}
	if attrs.Dim {
		codes = append(codes, "2")
	}
	if attrs.Italic {
		codes = append(codes, "3")
	}
	if attrs.Underline {
		codes = append(codes, "4")
	}
	if attrs.Blink {
		codes = append(codes, "5")
	}
	if attrs.Reverse {
		codes = append(codes, "7")
	}
	if attrs.Hidden {
		codes = append(codes, "8")
	}
	if attrs.Strikethrough {
		codes = append(codes, "9")
	}
	codes = append(codes, colorCodes(attrs.Foreground, false)...)
	codes = append(codes, colorCodes(attrs.Background, true)...)
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// colorCodes picks the 30/90/38 code family for foregrounds and the
// 40/100/48 family for backgrounds.
func colorCodes(c Color, background bool) []string {
	switch c.Mode {
	case ColorIndexed:
		idx := int(c.Index)
		switch {
		case idx < 8:
			base := 30
			if background {
				base = 40
			}
			return []string{strconv.Itoa(base + idx)}
		case idx < 16:
			base := 90
			if background {
				base = 100
			}
			return []string{strconv.Itoa(base + idx - 8)}
		default:
			lead := "38"
			if background {
				lead = "48"
			}
			return []string{lead, "5", strconv.Itoa(idx)}
		}
	case ColorRGB:
		lead := "38"
		if background {
			lead = "48"
		}
		return []string{
			lead, "2",
			strconv.Itoa(int(c.R)),
			strconv.Itoa(int(c.G)),
			strconv.Itoa(int(c.B)),
		}
	default:
		return nil
	}
}
