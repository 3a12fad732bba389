package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putString(s *Screen, text string) {
	for _, r := range text {
		s.PutChar(r)
	}
}

func TestScreenPutChar(t *testing.T) {
	s := NewScreen(24, 80)
	putString(s, "Hi")

	assert.Equal(t, 'H', s.Cell(0, 0).Rune)
	assert.Equal(t, 'i', s.Cell(0, 1).Rune)
	assert.Equal(t, 2, s.Cursor().Col)
	assert.Equal(t, 0, s.Cursor().Row)
}

func TestScreenWideChar(t *testing.T) {
	s := NewScreen(24, 80)
	s.PutChar('世')

	wide := s.Cell(0, 0)
	cont := s.Cell(0, 1)
	assert.Equal(t, '世', wide.Rune)
	assert.Equal(t, uint8(2), wide.Width)
	assert.Equal(t, uint8(0), cont.Width)
	assert.Equal(t, 2, s.Cursor().Col)
}

func TestScreenWideCharAtLastColumn(t *testing.T) {
	s := NewScreen(24, 10)
	putString(s, "123456789")
	require.Equal(t, 9, s.Cursor().Col)

	// No room for two cells, so the character wraps first.
	s.PutChar('世')
	assert.Equal(t, '世', s.Cell(1, 0).Rune)
	assert.Equal(t, ' ', s.Cell(0, 9).Rune)
	assert.Equal(t, 1, s.Cursor().Row)
	assert.Equal(t, 2, s.Cursor().Col)
}

func TestScreenPendingWrap(t *testing.T) {
	s := NewScreen(24, 10)
	putString(s, "0123456789")

	// The last column is filled but the cursor has not wrapped yet.
	assert.Equal(t, 0, s.Cursor().Row)
	assert.Equal(t, 10, s.Cursor().Col)

	s.PutChar('x')
	assert.Equal(t, 1, s.Cursor().Row)
	assert.Equal(t, 1, s.Cursor().Col)
	assert.Equal(t, 'x', s.Cell(1, 0).Rune)
	assert.Equal(t, '9', s.Cell(0, 9).Rune)
}

func TestScreenLineFeedScrollsAtBottom(t *testing.T) {
	s := NewScreen(3, 10)
	putString(s, "a")
	s.Newline()
	putString(s, "b")
	s.Newline()
	putString(s, "c")
	require.Equal(t, 2, s.Cursor().Row)

	s.Newline()
	putString(s, "d")

	assert.Equal(t, 2, s.Cursor().Row)
	assert.Equal(t, "b\nc\nd", s.Render(FormatPlain))

	evicted := s.TakeEvicted()
	require.Len(t, evicted, 1)
	assert.Equal(t, "a", evicted[0].Plain)
}

func TestScreenScrollUpEvictsInOrder(t *testing.T) {
	s := NewScreen(3, 10)
	putString(s, "one")
	s.Newline()
	putString(s, "two")
	s.Newline()
	putString(s, "three")

	s.ScrollUp(2)

	evicted := s.TakeEvicted()
	require.Len(t, evicted, 2)
	assert.Equal(t, "one", evicted[0].Plain)
	assert.Equal(t, "two", evicted[1].Plain)
	assert.Equal(t, "three", s.Render(FormatPlain))

	// A second take returns nothing.
	assert.Empty(t, s.TakeEvicted())
}

func TestScreenScrollDown(t *testing.T) {
	s := NewScreen(3, 10)
	putString(s, "top")
	s.ScrollDown(1)

	assert.Equal(t, ' ', s.Cell(0, 0).Rune)
	assert.Equal(t, 't', s.Cell(1, 0).Rune)
	assert.Empty(t, s.TakeEvicted())
}

func TestScreenEraseOps(t *testing.T) {
	fill := func() *Screen {
		s := NewScreen(3, 5)
		putString(s, "aaaaa")
		s.cursor.MoveTo(1, 0, 3, 5)
		putString(s, "bbbbb")
		s.cursor.MoveTo(2, 0, 3, 5)
		putString(s, "ccccc")
		s.cursor.MoveTo(1, 2, 3, 5)
		return s
	}

	tests := []struct {
		name string
		op   func(*Screen)
		want string
	}{
		{
			name: "erase below",
			op:   (*Screen).EraseBelow,
			want: "aaaaa\nbb",
		},
		{
			name: "erase above",
			op:   (*Screen).EraseAbove,
			want: "\n   bb\nccccc",
		},
		{
			name: "erase all",
			op:   (*Screen).EraseAll,
			want: "",
		},
		{
			name: "erase line right",
			op:   (*Screen).EraseLineRight,
			want: "aaaaa\nbb\nccccc",
		},
		{
			name: "erase line left",
			op:   (*Screen).EraseLineLeft,
			want: "aaaaa\n   bb\nccccc",
		},
		{
			name: "erase line",
			op:   (*Screen).EraseLine,
			want: "aaaaa\n\nccccc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fill()
			tt.op(s)
			assert.Equal(t, tt.want, s.Render(FormatPlain))
		})
	}
}

func TestScreenInsertDeleteLines(t *testing.T) {
	s := NewScreen(3, 10)
	putString(s, "one")
	s.Newline()
	putString(s, "two")
	s.Newline()
	putString(s, "three")
	s.cursor.MoveTo(1, 0, 3, 10)

	s.InsertLines(1)
	assert.Equal(t, "one\n\ntwo", s.Render(FormatPlain))

	s.DeleteLines(1)
	assert.Equal(t, "one\ntwo", s.Render(FormatPlain))
}

func TestScreenInsertDeleteChars(t *testing.T) {
	s := NewScreen(24, 10)
	putString(s, "abcdef")
	s.cursor.MoveTo(0, 2, 24, 10)

	s.InsertChars(2)
	assert.Equal(t, "ab  cdef", s.Render(FormatPlain))

	s.DeleteChars(2)
	assert.Equal(t, "abcdef", s.Render(FormatPlain))
}

func TestScreenAlternateBuffer(t *testing.T) {
	s := NewScreen(24, 80)
	putString(s, "primary")
	mainCursor := s.Cursor()

	s.EnterAlternate()
	require.True(t, s.Alternate())
	assert.Equal(t, "", s.Render(FormatPlain))
	assert.Equal(t, 0, s.Cursor().Col)

	putString(s, "fullscreen")
	// Scrolling the alternate grid never reaches scrollback.
	s.ScrollUp(1)
	assert.Empty(t, s.TakeEvicted())

	s.ExitAlternate()
	assert.False(t, s.Alternate())
	assert.Equal(t, "primary", s.Render(FormatPlain))
	assert.Equal(t, mainCursor.Col, s.Cursor().Col)
}

func TestScreenTab(t *testing.T) {
	s := NewScreen(24, 20)
	s.Tab()
	assert.Equal(t, 8, s.Cursor().Col)
	s.Tab()
	assert.Equal(t, 16, s.Cursor().Col)
	s.Tab()
	assert.Equal(t, 19, s.Cursor().Col)
}

func TestScreenBackspace(t *testing.T) {
	s := NewScreen(24, 80)
	putString(s, "ab")
	s.Backspace()
	assert.Equal(t, 1, s.Cursor().Col)
	s.Backspace()
	s.Backspace()
	assert.Equal(t, 0, s.Cursor().Col)
}

func TestScreenReset(t *testing.T) {
	s := NewScreen(24, 80)
	putString(s, "content")
	s.SetTitle("title")
	s.Reset()

	assert.Equal(t, "", s.Render(FormatPlain))
	assert.Equal(t, "", s.Title())
	assert.Equal(t, 0, s.Cursor().Col)
}

func TestScreenRenderTrims(t *testing.T) {
	s := NewScreen(24, 80)
	putString(s, "text   ")

	out := s.Render(FormatPlain)
	assert.Equal(t, "text", out)
	assert.False(t, strings.Contains(out, "\n"))
}

func TestScreenRenderRawEmitsAttributes(t *testing.T) {
	s := NewScreen(24, 80)
	s.attrs = Attributes{Bold: true, Foreground: Indexed(1)}
	putString(s, "red")
	s.attrs = Attributes{}
	putString(s, " plain")

	raw := s.Render(FormatRaw)
	assert.Equal(t, "\x1b[0;1;31mred\x1b[0m plain", raw)

	plain := s.Render(FormatPlain)
	assert.Equal(t, "red plain", plain)
}
