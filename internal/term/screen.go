package term

import "github.com/mattn/go-runewidth"

// Line is one row handed to the scrollback store, rendered both with and
// without escape sequences.
type Line struct {
	Plain string
	Raw   string
}

// Screen models the visible character grid of a fixed-size terminal.
//
// A primary and an alternate grid are kept; full-screen programs switch to
// the alternate grid, which never feeds scrollback. Rows that scroll off
// the top of the primary grid accumulate in evicted until collected with
// TakeEvicted.
type Screen struct {
	rows int
	cols int

	cells  [][]Cell
	cursor Cursor
	attrs  Attributes
	title  string

	alternate  bool
	mainCells  [][]Cell
	mainCursor Cursor

	evicted []Line
}

// NewScreen creates an empty grid of the given dimensions.
func NewScreen(rows, cols int) *Screen {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &Screen{
		rows:   rows,
		cols:   cols,
		cells:  blankGrid(rows, cols),
		cursor: Cursor{Visible: true},
	}
}

func blankGrid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = blankRow(cols)
	}
	return g
}

func blankRow(cols int) []Cell {
	r := make([]Cell, cols)
	for i := range r {
		r[i] = blankCell()
	}
	return r
}

// Size returns the fixed grid dimensions.
func (s *Screen) Size() (rows, cols int) { return s.rows, s.cols }

// Cursor returns a copy of the cursor state.
func (s *Screen) Cursor() Cursor { return s.cursor }

// Alternate reports whether the alternate grid is active.
func (s *Screen) Alternate() bool { return s.alternate }

// Title returns the window title set by the program, empty if unset.
func (s *Screen) Title() string { return s.title }

// SetTitle records the window title.
func (s *Screen) SetTitle(title string) { s.title = title }

// Cell returns the cell at a zero-based position.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return blankCell()
	}
	return s.cells[row][col]
}

// PutChar writes a printable rune at the cursor. Wide characters occupy
// two cells, the second a continuation cell. A character placed in the
// last column leaves the cursor past the edge; the wrap to the next row is
// deferred until the next printable character.
func (s *Screen) PutChar(r rune) {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return
	}
	if s.cursor.Col+w > s.cols {
		s.cursor.Col = 0
		s.LineFeed()
	}
	row, col := s.cursor.Row, s.cursor.Col
	s.cells[row][col] = Cell{Rune: r, Width: uint8(w), Attrs: s.attrs}
	if w == 2 && col+1 < s.cols {
		s.cells[row][col+1] = Cell{Rune: ' ', Width: 0, Attrs: s.attrs}
	}
	s.cursor.Col += w
}

// LineFeed moves the cursor down one row, scrolling when at the bottom.
func (s *Screen) LineFeed() {
	if s.cursor.Col > s.cols-1 {
		s.cursor.Col = s.cols - 1
	}
	if s.cursor.Row+1 >= s.rows {
		s.ScrollUp(1)
		s.cursor.Row = s.rows - 1
	} else {
		s.cursor.Row++
	}
}

// CarriageReturn moves the cursor to the first column.
func (s *Screen) CarriageReturn() { s.cursor.CarriageReturn() }

// Newline is a carriage return followed by a line feed.
func (s *Screen) Newline() {
	s.CarriageReturn()
	s.LineFeed()
}

// Backspace moves the cursor one column left.
func (s *Screen) Backspace() {
	if s.cursor.Col > s.cols-1 {
		s.cursor.Col = s.cols - 1
	}
	s.cursor.Left(1)
}

// Tab advances the cursor to the next 8-column tab stop.
func (s *Screen) Tab() {
	next := (s.cursor.Col/8 + 1) * 8
	if next > s.cols-1 {
		next = s.cols - 1
	}
	s.cursor.Col = next
}

// ReverseIndex moves the cursor up one row, scrolling down when at the top.
func (s *Screen) ReverseIndex() {
	if s.cursor.Row == 0 {
		s.ScrollDown(1)
	} else {
		s.cursor.Row--
	}
}

// ScrollUp removes n rows from the top and appends blank rows at the
// bottom. Rows leaving the primary grid are queued for scrollback; the
// alternate grid drops them. The cursor does not move.
func (s *Screen) ScrollUp(n int) {
	if n <= 0 {
		return
	}
	if n > s.rows {
		n = s.rows
	}
	for i := 0; i < n; i++ {
		if !s.alternate {
			plain, raw := renderRow(s.cells[0])
			s.evicted = append(s.evicted, Line{Plain: plain, Raw: raw})
		}
		copy(s.cells, s.cells[1:])
		s.cells[s.rows-1] = blankRow(s.cols)
	}
}

// ScrollDown inserts n blank rows at the top, dropping rows off the
// bottom. Nothing reaches scrollback. The cursor does not move.
func (s *Screen) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	if n > s.rows {
		n = s.rows
	}
	for i := 0; i < n; i++ {
		copy(s.cells[1:], s.cells[:s.rows-1])
		s.cells[0] = blankRow(s.cols)
	}
}

// EraseBelow clears from the cursor to the end of the screen.
func (s *Screen) EraseBelow() {
	s.EraseLineRight()
	for r := s.cursor.Row + 1; r < s.rows; r++ {
		s.clearRow(r)
	}
}

// EraseAbove clears from the start of the screen through the cursor.
func (s *Screen) EraseAbove() {
	s.EraseLineLeft()
	for r := 0; r < s.cursor.Row; r++ {
		s.clearRow(r)
	}
}

// EraseAll clears the entire grid.
func (s *Screen) EraseAll() {
	for r := 0; r < s.rows; r++ {
		s.clearRow(r)
	}
}

// EraseLineRight clears from the cursor to the end of the line.
func (s *Screen) EraseLineRight() {
	row := s.cells[s.cursor.Row]
	for c := s.cursor.Col; c < s.cols; c++ {
		row[c] = blankCell()
	}
}

// EraseLineLeft clears from the start of the line through the cursor.
func (s *Screen) EraseLineLeft() {
	end := s.cursor.Col
	if end > s.cols-1 {
		end = s.cols - 1
	}
	row := s.cells[s.cursor.Row]
	for c := 0; c <= end; c++ {
		row[c] = blankCell()
	}
}

// EraseLine clears the cursor's entire line.
func (s *Screen) EraseLine() { s.clearRow(s.cursor.Row) }

func (s *Screen) clearRow(r int) {
	row := s.cells[r]
	for c := range row {
		row[c] = blankCell()
	}
}

// InsertLines inserts n blank rows at the cursor, pushing lower rows off
// the bottom.
func (s *Screen) InsertLines(n int) {
	row := s.cursor.Row
	if n <= 0 {
		return
	}
	if n > s.rows-row {
		n = s.rows - row
	}
	for r := s.rows - 1; r >= row+n; r-- {
		s.cells[r] = s.cells[r-n]
	}
	for r := row; r < row+n; r++ {
		s.cells[r] = blankRow(s.cols)
	}
}

// DeleteLines removes n rows at the cursor, pulling lower rows up and
// filling the bottom with blanks.
func (s *Screen) DeleteLines(n int) {
	row := s.cursor.Row
	if n <= 0 {
		return
	}
	if n > s.rows-row {
		n = s.rows - row
	}
	for r := row; r < s.rows-n; r++ {
		s.cells[r] = s.cells[r+n]
	}
	for r := s.rows - n; r < s.rows; r++ {
		s.cells[r] = blankRow(s.cols)
	}
}

// InsertChars inserts n blank cells at the cursor, shifting the rest of
// the line right.
func (s *Screen) InsertChars(n int) {
	col := s.cursor.Col
	if n <= 0 || col >= s.cols {
		return
	}
	if n > s.cols-col {
		n = s.cols - col
	}
	line := s.cells[s.cursor.Row]
	copy(line[col+n:], line[col:s.cols-n])
	for c := col; c < col+n; c++ {
		line[c] = blankCell()
	}
}

// DeleteChars removes n cells at the cursor, shifting the rest of the line
// left and filling the end with blanks.
func (s *Screen) DeleteChars(n int) {
	col := s.cursor.Col
	if n <= 0 || col >= s.cols {
		return
	}
	if n > s.cols-col {
		n = s.cols - col
	}
	line := s.cells[s.cursor.Row]
	copy(line[col:], line[col+n:])
	for c := s.cols - n; c < s.cols; c++ {
		line[c] = blankCell()
	}
}

// EnterAlternate switches to a fresh alternate grid, keeping the primary
// grid and cursor aside. No history is exchanged between grids.
func (s *Screen) EnterAlternate() {
	if s.alternate {
		return
	}
	s.alternate = true
	s.mainCells = s.cells
	s.mainCursor = s.cursor
	s.cells = blankGrid(s.rows, s.cols)
	s.cursor = Cursor{Visible: true}
}

// ExitAlternate restores the primary grid and its cursor.
func (s *Screen) ExitAlternate() {
	if !s.alternate {
		return
	}
	s.alternate = false
	s.cells = s.mainCells
	s.cursor = s.mainCursor
	s.mainCells = nil
}

// Reset reinitializes the grid, cursor, attributes and title. Evicted rows
// not yet collected are preserved.
func (s *Screen) Reset() {
	s.cells = blankGrid(s.rows, s.cols)
	s.cursor = Cursor{Visible: true}
	s.attrs = Attributes{}
	s.title = ""
	s.alternate = false
	s.mainCells = nil
}

// TakeEvicted returns and clears rows that scrolled off the primary grid
// since the last call.
func (s *Screen) TakeEvicted() []Line {
	lines := s.evicted
	s.evicted = nil
	return lines
}

// Render produces the visible screen content. Trailing blanks within a row
// and trailing empty rows are trimmed.
func (s *Screen) Render(f Format) string {
	lines := make([]string, 0, s.rows)
	for _, row := range s.cells {
		plain, raw := renderRow(row)
		if f == FormatRaw {
			lines = append(lines, raw)
		} else {
			lines = append(lines, plain)
		}
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return joinLines(lines)
}
