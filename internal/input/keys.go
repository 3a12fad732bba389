package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNoInput indicates neither a key nor text was supplied.
	ErrNoInput = errors.New("no input provided")

	// ErrInvalidKey indicates an unrecognized key name.
	ErrInvalidKey = errors.New("invalid key")
)

// Key is a named special key.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyTab
	KeyEnter
	KeyEscape
	KeySpace
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// ParseKey resolves a case-insensitive key name, accepting common aliases.
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(name) {
	case "up":
		return KeyUp, nil
	case "down":
		return KeyDown, nil
	case "left":
		return KeyLeft, nil
	case "right":
		return KeyRight, nil
	case "home":
		return KeyHome, nil
	case "end":
		return KeyEnd, nil
	case "pageup", "page_up":
		return KeyPageUp, nil
	case "pagedown", "page_down":
		return KeyPageDown, nil
	case "backspace":
		return KeyBackspace, nil
	case "delete", "del":
		return KeyDelete, nil
	case "insert", "ins":
		return KeyInsert, nil
	case "tab":
		return KeyTab, nil
	case "enter", "return":
		return KeyEnter, nil
	case "escape", "esc":
		return KeyEscape, nil
	case "space":
		return KeySpace, nil
	case "f1":
		return KeyF1, nil
	case "f2":
		return KeyF2, nil
	case "f3":
		return KeyF3, nil
	case "f4":
		return KeyF4, nil
	case "f5":
		return KeyF5, nil
	case "f6":
		return KeyF6, nil
	case "f7":
		return KeyF7, nil
	case "f8":
		return KeyF8, nil
	case "f9":
		return KeyF9, nil
	case "f10":
		return KeyF10, nil
	case "f11":
		return KeyF11, nil
	case "f12":
		return KeyF12, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
}

// base returns the unmodified xterm sequence for the key.
func (k Key) base() string {
	switch k {
	case KeyUp:
		return "\x1b[A"
	case KeyDown:
		return "\x1b[B"
	case KeyRight:
		return "\x1b[C"
	case KeyLeft:
		return "\x1b[D"
	case KeyHome:
		return "\x1b[H"
	case KeyEnd:
		return "\x1b[F"
	case KeyPageUp:
		return "\x1b[5~"
	case KeyPageDown:
		return "\x1b[6~"
	case KeyInsert:
		return "\x1b[2~"
	case KeyDelete:
		return "\x1b[3~"
	case KeyBackspace:
		return "\x7f"
	case KeyTab:
		return "\t"
	case KeyEnter:
		return "\r"
	case KeyEscape:
		return "\x1b"
	case KeySpace:
		return " "
	case KeyF1:
		return "\x1bOP"
	case KeyF2:
		return "\x1bOQ"
	case KeyF3:
		return "\x1bOR"
	case KeyF4:
		return "\x1bOS"
	case KeyF5:
		return "\x1b[15~"
	case KeyF6:
		return "\x1b[17~"
	case KeyF7:
		return "\x1b[18~"
	case KeyF8:
		return "\x1b[19~"
	case KeyF9:
		return "\x1b[20~"
	case KeyF10:
		return "\x1b[21~"
	case KeyF11:
		return "\x1b[23~"
	case KeyF12:
		return "\x1b[24~"
	default:
		return ""
	}
}

// sequence returns the xterm sequence for the key with the given modifier
// parameter. Keys without a modified form fall back to their base sequence.
func (k Key) sequence(mod int) string {
	if mod == 1 {
		return k.base()
	}
	switch k {
	case KeyUp:
		return fmt.Sprintf("\x1b[1;%dA", mod)
	case KeyDown:
		return fmt.Sprintf("\x1b[1;%dB", mod)
	case KeyRight:
		return fmt.Sprintf("\x1b[1;%dC", mod)
	case KeyLeft:
		return fmt.Sprintf("\x1b[1;%dD", mod)
	case KeyHome:
		return fmt.Sprintf("\x1b[1;%dH", mod)
	case KeyEnd:
		return fmt.Sprintf("\x1b[1;%dF", mod)
	case KeyPageUp:
		return fmt.Sprintf("\x1b[5;%d~", mod)
	case KeyPageDown:
		return fmt.Sprintf("\x1b[6;%d~", mod)
	case KeyInsert:
		return fmt.Sprintf("\x1b[2;%d~", mod)
	case KeyDelete:
		return fmt.Sprintf("\x1b[3;%d~", mod)
	case KeyF1:
		return fmt.Sprintf("\x1b[1;%dP", mod)
	case KeyF2:
		return fmt.Sprintf("\x1b[1;%dQ", mod)
	case KeyF3:
		return fmt.Sprintf("\x1b[1;%dR", mod)
	case KeyF4:
		return fmt.Sprintf("\x1b[1;%dS", mod)
	case KeyF5:
		return fmt.Sprintf("\x1b[15;%d~", mod)
	case KeyF6:
		return fmt.Sprintf("\x1b[17;%d~", mod)
	case KeyF7:
		return fmt.Sprintf("\x1b[18;%d~", mod)
	case KeyF8:
		return fmt.Sprintf("\x1b[19;%d~", mod)
	case KeyF9:
		return fmt.Sprintf("\x1b[20;%d~", mod)
	case KeyF10:
		return fmt.Sprintf("\x1b[21;%d~", mod)
	case KeyF11:
		return fmt.Sprintf("\x1b[23;%d~", mod)
	case KeyF12:
		return fmt.Sprintf("\x1b[24;%d~", mod)
	default:
		return k.base()
	}
}

// Input describes one send operation: a named key or literal text, plus
// modifiers and the paste mode applied to plain text.
type Input struct {
	Key   string
	Text  string
	Ctrl  bool
	Alt   bool
	Shift bool
	Paste PasteMode
}

// Encode builds the bytes to write to the terminal for in. A named key
// takes precedence over text; text with ctrl or alt is encoded per
// character; plain text goes through the paste-mode wrapper.
func Encode(in Input) ([]byte, error) {
	switch {
	case in.Key != "":
		k, err := ParseKey(in.Key)
		if err != nil {
			return nil, err
		}
		return []byte(k.sequence(modifierCode(in))), nil
	case in.Text != "":
		if in.Ctrl || in.Alt {
			return encodeModifiedText(in), nil
		}
		return EncodeText(in.Text, in.Paste), nil
	default:
		return nil, ErrNoInput
	}
}

// modifierCode computes the xterm modifier parameter:
// 1 + shift(1) + alt(2) + ctrl(4).
func modifierCode(in Input) int {
	mod := 1
	if in.Shift {
		mod++
	}
	if in.Alt {
		mod += 2
	}
	if in.Ctrl {
		mod += 4
	}
	return mod
}

func encodeModifiedText(in Input) []byte {
	out := make([]byte, 0, len(in.Text)*2)
	for _, r := range in.Text {
		if in.Alt {
			out = append(out, 0x1b)
		}
		if in.Ctrl && isASCIILetter(r) {
			out = append(out, byte(unicode.ToUpper(r))-'A'+1)
		} else {
			out = utf8.AppendRune(out, r)
		}
	}
	return out
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
