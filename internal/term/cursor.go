package term

// Cursor tracks the write position within the grid. Row and Col are
// zero-based. After a character fills the last column, Col equals the grid
// width; the wrap happens when the next printable character arrives.
type Cursor struct {
	Row     int
	Col     int
	Visible bool

	savedRow int
	savedCol int
	hasSaved bool
}

// Up moves the cursor up n rows, stopping at the top.
func (c *Cursor) Up(n int) {
	c.Row -= n
	if c.Row < 0 {
		c.Row = 0
	}
}

// Down moves the cursor down n rows, stopping at the bottom.
func (c *Cursor) Down(n, rows int) {
	c.Row += n
	if c.Row > rows-1 {
		c.Row = rows - 1
	}
}

// Left moves the cursor left n columns, stopping at the first column.
func (c *Cursor) Left(n int) {
	c.Col -= n
	if c.Col < 0 {
		c.Col = 0
	}
}

// Right moves the cursor right n columns, stopping at the last column.
func (c *Cursor) Right(n, cols int) {
	c.Col += n
	if c.Col > cols-1 {
		c.Col = cols - 1
	}
}

// MoveTo places the cursor at a zero-based position, clamped to the grid.
func (c *Cursor) MoveTo(row, col, rows, cols int) {
	c.Row = clamp(row, rows-1)
	c.Col = clamp(col, cols-1)
}

// SetColumn places the cursor at a zero-based column, clamped to the grid.
func (c *Cursor) SetColumn(col, cols int) {
	c.Col = clamp(col, cols-1)
}

// SetRow places the cursor at a zero-based row, clamped to the grid.
func (c *Cursor) SetRow(row, rows int) {
	c.Row = clamp(row, rows-1)
}

// CarriageReturn moves the cursor to the first column.
func (c *Cursor) CarriageReturn() {
	c.Col = 0
}

// Save records the current position for a later Restore.
func (c *Cursor) Save() {
	c.savedRow = c.Row
	c.savedCol = c.Col
	c.hasSaved = true
}

// Restore returns to the saved position. Without a prior Save it does
// nothing.
func (c *Cursor) Restore() {
	if c.hasSaved {
		c.Row = c.savedRow
		c.Col = c.savedCol
	}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
