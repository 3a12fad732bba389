package term

import "strings"

// apply mutates the screen according to one parsed event. Events the
// emulator does not recognize are dropped without touching cursor or grid
// state.
func (t *State) apply(ev Event) {
	switch ev.Action {
	case ActionPrint:
		t.screen.PutChar(ev.Rune)
	case ActionExecute:
		t.execute(ev.Byte)
	case ActionCSI:
		t.dispatchCSI(ev)
	case ActionESC:
		t.dispatchESC(ev)
	case ActionOSC:
		t.dispatchOSC(ev.Text)
	}
}

func (t *State) execute(b byte) {
	switch b {
	case 0x08: // BS
		t.screen.Backspace()
	case 0x09: // HT
		t.screen.Tab()
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		t.screen.LineFeed()
	case 0x0d: // CR
		t.screen.CarriageReturn()
	}
}

// csiParam returns the first value of the idx'th parameter group, treating
// omitted and zero values as def.
func csiParam(params [][]int, idx, def int) int {
	if idx >= len(params) || len(params[idx]) == 0 {
		return def
	}
	if v := params[idx][0]; v != 0 {
		return v
	}
	return def
}

func (t *State) dispatchCSI(ev Event) {
	if ev.Inter != 0 {
		return
	}
	if ev.Private != 0 {
		if ev.Private == '?' && (ev.Final == 'h' || ev.Final == 'l') {
			t.setPrivateModes(ev.Params, ev.Final == 'h')
		}
		return
	}

	scr := t.screen
	rows, cols := scr.Size()

	switch ev.Final {
	case 'A': // CUU
		scr.cursor.Up(csiParam(ev.Params, 0, 1))
	case 'B': // CUD
		scr.cursor.Down(csiParam(ev.Params, 0, 1), rows)
	case 'C': // CUF
		scr.cursor.Right(csiParam(ev.Params, 0, 1), cols)
	case 'D': // CUB
		scr.cursor.Left(csiParam(ev.Params, 0, 1))
	case 'E': // CNL
		scr.cursor.Down(csiParam(ev.Params, 0, 1), rows)
		scr.cursor.CarriageReturn()
	case 'F': // CPL
		scr.cursor.Up(csiParam(ev.Params, 0, 1))
		scr.cursor.CarriageReturn()
	case 'G': // CHA, 1-based column
		scr.cursor.SetColumn(csiParam(ev.Params, 0, 1)-1, cols)
	case 'H', 'f': // CUP / HVP, 1-based position
		row := csiParam(ev.Params, 0, 1) - 1
		col := csiParam(ev.Params, 1, 1) - 1
		scr.cursor.MoveTo(row, col, rows, cols)
	case 'd': // VPA, 1-based row
		scr.cursor.SetRow(csiParam(ev.Params, 0, 1)-1, rows)
	case 'J': // ED
		switch csiParam(ev.Params, 0, 0) {
		case 0:
			scr.EraseBelow()
		case 1:
			scr.EraseAbove()
		case 2, 3:
			scr.EraseAll()
		}
	case 'K': // EL
		switch csiParam(ev.Params, 0, 0) {
		case 0:
			scr.EraseLineRight()
		case 1:
			scr.EraseLineLeft()
		case 2:
			scr.EraseLine()
		}
	case 'L': // IL
		scr.InsertLines(csiParam(ev.Params, 0, 1))
	case 'M': // DL
		scr.DeleteLines(csiParam(ev.Params, 0, 1))
	case '@': // ICH
		scr.InsertChars(csiParam(ev.Params, 0, 1))
	case 'P': // DCH
		scr.DeleteChars(csiParam(ev.Params, 0, 1))
	case 'S': // SU
		scr.ScrollUp(csiParam(ev.Params, 0, 1))
	case 'T': // SD
		scr.ScrollDown(csiParam(ev.Params, 0, 1))
	case 'm': // SGR
		t.applySGR(ev.Params)
	case 's':
		scr.cursor.Save()
	case 'u':
		scr.cursor.Restore()
	}
}

// setPrivateModes handles the DECSET/DECRST modes the emulator supports:
// cursor visibility and the alternate screen variants.
func (t *State) setPrivateModes(params [][]int, enable bool) {
	for _, group := range params {
		if len(group) == 0 {
			continue
		}
		switch group[0] {
		case 25: // DECTCEM
			t.screen.cursor.Visible = enable
		case 47, 1047:
			if enable {
				t.screen.EnterAlternate()
			} else {
				t.screen.ExitAlternate()
			}
		case 1049:
			if enable {
				t.screen.cursor.Save()
				t.screen.EnterAlternate()
			} else {
				t.screen.ExitAlternate()
				t.screen.cursor.Restore()
			}
		}
	}
}

func (t *State) dispatchESC(ev Event) {
	if ev.Inter != 0 {
		// Charset designations and similar sequences.
		return
	}
	switch ev.Byte {
	case '7': // DECSC
		t.screen.cursor.Save()
	case '8': // DECRC
		t.screen.cursor.Restore()
	case 'D': // IND
		t.screen.LineFeed()
	case 'E': // NEL
		t.screen.Newline()
	case 'M': // RI
		t.screen.ReverseIndex()
	case 'c': // RIS
		t.screen.Reset()
	}
}

func (t *State) dispatchOSC(payload string) {
	cmd, rest, ok := strings.Cut(payload, ";")
	if !ok {
		return
	}
	switch cmd {
	case "0", "2":
		t.screen.SetTitle(rest)
	}
}

// applySGR walks the attribute codes, consuming extra parameter groups for
// the 38/48 extended color forms.
func (t *State) applySGR(params [][]int) {
	attrs := &t.screen.attrs
	if len(params) == 0 {
		*attrs = Attributes{}
		return
	}
	for i := 0; i < len(params); i++ {
		code := 0
		if len(params[i]) > 0 {
			code = params[i][0]
		}
		switch {
		case code == 0:
			*attrs = Attributes{}
		case code == 1:
			attrs.Bold = true
		case code == 2:
			attrs.Dim = true
		case code == 3:
			attrs.Italic = true
		case code == 4:
			attrs.Underline = true
		case code == 5 || code == 6:
			attrs.Blink = true
		case code == 7:
			attrs.Reverse = true
		case code == 8:
			attrs.Hidden = true
		case code == 9:
			attrs.Strikethrough = true
		case code == 21:
			attrs.Bold = false
		case code == 22:
			attrs.Bold = false
			attrs.Dim = false
		case code == 23:
			attrs.Italic = false
		case code == 24:
			attrs.Underline = false
		case code == 25:
			attrs.Blink = false
		case code == 27:
			attrs.Reverse = false
		case code == 28:
			attrs.Hidden = false
		case code == 29:
			attrs.Strikethrough = false
		case code >= 30 && code <= 37:
			attrs.Foreground = Indexed(uint8(code - 30))
		case code == 38:
			c, skip, ok := extendedColor(params[i:])
			if ok {
				attrs.Foreground = c
			}
			i += skip
		case code == 39:
			attrs.Foreground = Color{}
		case code >= 40 && code <= 47:
			attrs.Background = Indexed(uint8(code - 40))
		case code == 48:
			c, skip, ok := extendedColor(params[i:])
			if ok {
				attrs.Background = c
			}
			i += skip
		case code == 49:
			attrs.Background = Color{}
		case code >= 90 && code <= 97:
			attrs.Foreground = Indexed(uint8(code - 90 + 8))
		case code >= 100 && code <= 107:
			attrs.Background = Indexed(uint8(code - 100 + 8))
		}
	}
}

// extendedColor decodes the parameter groups following a 38 or 48 code:
// "5;n" for a palette index, "2;r;g;b" for truecolor. It returns the
// number of extra groups consumed even when the form is unrecognized.
func extendedColor(params [][]int) (Color, int, bool) {
	if len(params) < 2 {
		return Color{}, 0, false
	}
	sub := 0
	if len(params[1]) > 0 {
		sub = params[1][0]
	}
	switch sub {
	case 5:
		if len(params) < 3 {
			return Color{}, 1, false
		}
		idx := 0
		if len(params[2]) > 0 {
			idx = params[2][0]
		}
		return Indexed(clamp8(idx)), 2, true
	case 2:
		var rgb [3]uint8
		used := 1
		for j := 0; j < 3; j++ {
			if 2+j >= len(params) {
				break
			}
			v := 0
			if len(params[2+j]) > 0 {
				v = params[2+j][0]
			}
			rgb[j] = clamp8(v)
			used++
		}
		return RGB(rgb[0], rgb[1], rgb[2]), used, true
	default:
		return Color{}, 1, false
	}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
