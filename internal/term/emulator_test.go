package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return NewState(24, 80, 1000, nil)
}

func feed(t *State, input string) {
	t.ProcessOutput([]byte(input))
}

func TestEmulatorSimpleText(t *testing.T) {
	st := newTestState()
	feed(st, "Hello, World!")

	assert.Equal(t, "Hello, World!", st.screen.Render(FormatPlain))
	assert.Equal(t, 13, st.Cursor().Col)
}

func TestEmulatorCursorMovement(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "cursor back overwrites",
			input: "ABC\x1b[2D*",
			want:  "A*C",
		},
		{
			name:  "cursor position",
			input: "\x1b[2;3Hx",
			want:  "\n  x",
		},
		{
			name:  "cursor column",
			input: "abc\x1b[2G*",
			want:  "a*c",
		},
		{
			name:  "next line",
			input: "one\x1b[Etwo",
			want:  "one\ntwo",
		},
		{
			name:  "vertical absolute",
			input: "a\x1b[3dx",
			want:  "a\n\n x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState()
			feed(st, tt.input)
			assert.Equal(t, tt.want, st.screen.Render(FormatPlain))
		})
	}
}

func TestEmulatorNewlines(t *testing.T) {
	st := newTestState()
	feed(st, "Line1\r\nLine2")

	assert.Equal(t, "Line1\nLine2", st.screen.Render(FormatPlain))
	assert.Equal(t, 1, st.Cursor().Row)
}

func TestEmulatorEraseDisplayAndHome(t *testing.T) {
	st := newTestState()
	feed(st, "some previous content\r\nmore")
	feed(st, "\x1b[2J\x1b[H")

	assert.Equal(t, "", st.screen.Render(FormatPlain))
	cursor := st.Cursor()
	assert.Equal(t, 0, cursor.Row)
	assert.Equal(t, 0, cursor.Col)
}

func TestEmulatorSGRAttributes(t *testing.T) {
	st := newTestState()
	feed(st, "\x1b[1;4;31mX")

	attrs := st.screen.Cell(0, 0).Attrs
	assert.True(t, attrs.Bold)
	assert.True(t, attrs.Underline)
	assert.Equal(t, Indexed(1), attrs.Foreground)

	feed(st, "\x1b[0mY")
	assert.True(t, st.screen.Cell(0, 1).Attrs.IsDefault())
}

func TestEmulatorSGRColors(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		fg   Color
		bg   Color
	}{
		{
			name: "basic foreground and background",
			seq:  "\x1b[31;42m",
			fg:   Indexed(1),
			bg:   Indexed(2),
		},
		{
			name: "bright foreground",
			seq:  "\x1b[95m",
			fg:   Indexed(13),
		},
		{
			name: "bright background",
			seq:  "\x1b[103m",
			bg:   Indexed(11),
		},
		{
			name: "256-color foreground",
			seq:  "\x1b[38;5;196m",
			fg:   Indexed(196),
		},
		{
			name: "truecolor foreground",
			seq:  "\x1b[38;2;10;20;30m",
			fg:   RGB(10, 20, 30),
		},
		{
			name: "truecolor background",
			seq:  "\x1b[48;2;1;2;3m",
			bg:   RGB(1, 2, 3),
		},
		{
			name: "defaults restored",
			seq:  "\x1b[31;42m\x1b[39;49m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState()
			feed(st, tt.seq+"X")

			attrs := st.screen.Cell(0, 0).Attrs
			assert.Equal(t, tt.fg, attrs.Foreground)
			assert.Equal(t, tt.bg, attrs.Background)
		})
	}
}

func TestEmulatorSGRClearsCompound(t *testing.T) {
	st := newTestState()
	feed(st, "\x1b[1;2;31mA\x1b[22mB")

	a := st.screen.Cell(0, 0).Attrs
	b := st.screen.Cell(0, 1).Attrs
	assert.True(t, a.Bold)
	assert.True(t, a.Dim)
	assert.False(t, b.Bold)
	assert.False(t, b.Dim)
	assert.Equal(t, Indexed(1), b.Foreground)
}

func TestEmulatorCursorVisibility(t *testing.T) {
	st := newTestState()
	require.True(t, st.Cursor().Visible)

	feed(st, "\x1b[?25l")
	assert.False(t, st.Cursor().Visible)

	feed(st, "\x1b[?25h")
	assert.True(t, st.Cursor().Visible)
}

func TestEmulatorAlternateScreen(t *testing.T) {
	st := newTestState()
	feed(st, "shell prompt $")
	feed(st, "\x1b[?1049h")

	assert.True(t, st.screen.Alternate())
	assert.Equal(t, "", st.screen.Render(FormatPlain))

	feed(st, "fullscreen app")
	feed(st, "\x1b[?1049l")

	assert.False(t, st.screen.Alternate())
	assert.Equal(t, "shell prompt $", st.screen.Render(FormatPlain))
	assert.Equal(t, 14, st.Cursor().Col)
}

func TestEmulatorAlternateScreenPlain47(t *testing.T) {
	st := newTestState()
	feed(st, "\x1b[?47h")
	assert.True(t, st.screen.Alternate())
	feed(st, "\x1b[?47l")
	assert.False(t, st.screen.Alternate())
}

func TestEmulatorSaveRestoreCursor(t *testing.T) {
	st := newTestState()
	feed(st, "abc\x1b7\r\n\r\nmore")
	require.Equal(t, 2, st.Cursor().Row)

	feed(st, "\x1b8")
	cursor := st.Cursor()
	assert.Equal(t, 0, cursor.Row)
	assert.Equal(t, 3, cursor.Col)

	// The ANSI.SYS forms behave the same way.
	feed(st, "\x1b[s\r\nx\x1b[u")
	assert.Equal(t, 0, st.Cursor().Row)
	assert.Equal(t, 3, st.Cursor().Col)
}

func TestEmulatorWindowTitle(t *testing.T) {
	st := newTestState()
	require.Empty(t, st.Title())

	feed(st, "\x1b]0;session one\x07")
	assert.Equal(t, "session one", st.Title())

	feed(st, "\x1b]2;session two\x1b\\")
	assert.Equal(t, "session two", st.Title())
}

func TestEmulatorReverseIndexAtTop(t *testing.T) {
	st := newTestState()
	feed(st, "below")
	feed(st, "\x1b[H\x1bMtop")

	assert.Equal(t, "top\nbelow", st.screen.Render(FormatPlain))
}

func TestEmulatorScrollSequences(t *testing.T) {
	st := NewState(3, 20, 100, nil)
	feed(st, "one\r\ntwo\r\nthree")
	feed(st, "\x1b[2S")

	assert.Equal(t, "three", st.screen.Render(FormatPlain))
	assert.Equal(t, 2, st.Scrollback().Len())
	assert.Equal(t, "one\ntwo", st.Scrollback().All(FormatPlain))

	feed(st, "\x1b[T")
	assert.Equal(t, "\nthree", st.screen.Render(FormatPlain))
}

func TestEmulatorInsertDeleteSequences(t *testing.T) {
	st := newTestState()
	feed(st, "abcdef\x1b[3G")

	feed(st, "\x1b[2@")
	assert.Equal(t, "ab  cdef", st.screen.Render(FormatPlain))

	feed(st, "\x1b[2P")
	assert.Equal(t, "abcdef", st.screen.Render(FormatPlain))

	feed(st, "\x1b[2;1Hsecond\x1b[1;1H\x1b[L")
	assert.Equal(t, "\nabcdef\nsecond", st.screen.Render(FormatPlain))

	feed(st, "\x1b[M")
	assert.Equal(t, "abcdef\nsecond", st.screen.Render(FormatPlain))
}

func TestEmulatorResetSequence(t *testing.T) {
	st := newTestState()
	feed(st, "\x1b]0;title\x07\x1b[1;31mcontent")
	feed(st, "\x1bc")

	assert.Equal(t, "", st.screen.Render(FormatPlain))
	assert.Empty(t, st.Title())
	feed(st, "x")
	assert.True(t, st.screen.Cell(0, 0).Attrs.IsDefault())
}

func TestEmulatorIgnoresUnknownSequences(t *testing.T) {
	st := newTestState()
	feed(st, "a\x1b[999Zb\x1bPdiscard me\x1b\\c\x1b[>1mD")

	assert.Equal(t, "abcD", st.screen.Render(FormatPlain))
	cursor := st.Cursor()
	assert.Equal(t, 0, cursor.Row)
	assert.Equal(t, 4, cursor.Col)
}

func TestEmulatorAdversarialStream(t *testing.T) {
	st := NewState(4, 10, 50, nil)

	// Garbage, truncated sequences and raw bytes must never corrupt state.
	inputs := []string{
		"\x1b[",
		"\x1b[;;;",
		"\xff\xfe\x80",
		"\x1b]0;unterminated",
		"\x07",
		"ok",
	}
	for _, in := range inputs {
		feed(st, in)
	}

	rows, cols := st.Size()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 10, cols)
	cursor := st.Cursor()
	assert.GreaterOrEqual(t, cursor.Row, 0)
	assert.Less(t, cursor.Row, rows)
}
