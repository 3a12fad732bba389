package term

// State ties the parser, screen, scrollback, tracker and prompt detector
// together behind a single mutation entry point. All five stay mutually
// consistent because every byte of output flows through ProcessOutput.
//
// State is not safe for concurrent use; the owning session serializes
// access with its lock.
type State struct {
	parser     *Parser
	screen     *Screen
	scrollback *Scrollback
	tracker    *Tracker
	prompt     *PromptDetector

	exited   bool
	exitCode *int
	err      error
}

// NewState creates terminal state for a grid of rows x cols with the given
// scrollback capacity. The detector may be nil, disabling prompt checks.
func NewState(rows, cols, scrollback int, prompt *PromptDetector) *State {
	return &State{
		parser:     NewParser(),
		screen:     NewScreen(rows, cols),
		scrollback: NewScrollback(scrollback),
		tracker:    NewTracker(),
		prompt:     prompt,
	}
}

// ProcessOutput feeds raw PTY bytes to the tracker and the parser, applies
// the parsed events to the screen, and moves any rows the screen evicted
// into scrollback. Events are applied in stream order.
func (t *State) ProcessOutput(data []byte) {
	if len(data) == 0 {
		return
	}
	t.tracker.Append(data)
	for _, ev := range t.parser.Advance(data) {
		t.apply(ev)
		if lines := t.screen.TakeEvicted(); len(lines) > 0 {
			t.scrollback.Push(lines...)
		}
	}
}

// ReadView renders one of the three read views. The new view consumes the
// tracker; offset and limit only apply to scrollback.
func (t *State) ReadView(v View, f Format, offset, limit int) string {
	switch v {
	case ViewScreen:
		return t.screen.Render(f)
	case ViewScrollback:
		return t.scrollback.Get(offset, limit, f)
	default:
		return t.tracker.Take(f)
	}
}

// PeekNew returns pending new-view output without consuming it.
func (t *State) PeekNew(f Format) string { return t.tracker.Peek(f) }

// HasNewContent reports whether output arrived since the last new-view
// read.
func (t *State) HasNewContent() bool { return t.tracker.HasContent() }

// ClearNew drops pending new-view output, as after a readiness wait.
func (t *State) ClearNew() { t.tracker.Clear() }

// PromptDetected reports whether the tail of recent output ends at a shell
// prompt.
func (t *State) PromptDetected() bool {
	if t.prompt == nil {
		return false
	}
	return t.prompt.Detect(t.tracker.Peek(FormatPlain))
}

// MarkExited records the child's exit as observed by the reader.
func (t *State) MarkExited(code *int) {
	t.exited = true
	t.exitCode = code
}

// Exited returns the exit flag and, when known, the exit code.
func (t *State) Exited() (bool, *int) { return t.exited, t.exitCode }

// SetErr records a fatal reader error. The first error wins; it is
// surfaced on subsequent operations against the session.
func (t *State) SetErr(err error) {
	if t.err == nil {
		t.err = err
	}
}

// Err returns the recorded reader error, if any.
func (t *State) Err() error { return t.err }

// Cursor returns a copy of the cursor state.
func (t *State) Cursor() Cursor { return t.screen.Cursor() }

// Size returns the fixed grid dimensions.
func (t *State) Size() (rows, cols int) { return t.screen.Size() }

// Title returns the window title set by the program, empty if unset.
func (t *State) Title() string { return t.screen.Title() }

// Screen exposes the grid for rendering and inspection.
func (t *State) Screen() *Screen { return t.screen }

// Scrollback exposes the evicted-line store.
func (t *State) Scrollback() *Scrollback { return t.scrollback }
