package session

import (
	"strings"
	"time"

	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

const (
	// DefaultScrollbackLimit is the scrollback page size when a read does
	// not give one.
	DefaultScrollbackLimit = 1000

	// pollInterval paces the wait loop between drains.
	pollInterval = 10 * time.Millisecond
)

// ReadOptions selects a view and optional wait conditions. With all
// conditions zero the read returns immediately.
type ReadOptions struct {
	View   term.View
	Format term.Format

	// TimeoutMS caps how long the read may block. Zero with no other
	// condition means no blocking at all.
	TimeoutMS int

	// WaitIdleMS, when positive, holds the read open until no output has
	// arrived for this many milliseconds.
	WaitIdleMS int

	// WaitForPrompt holds the read open until recent output ends at a
	// shell prompt.
	WaitForPrompt bool

	// Offset and Limit page the scrollback view. Limit defaults to
	// DefaultScrollbackLimit.
	Offset int
	Limit  int
}

// ReadResult carries the rendered view plus the state flags observed at
// the moment the wait stopped.
type ReadResult struct {
	Content string
	Lines   int

	// Cursor is set for screen views only.
	Cursor *term.Cursor
	Rows   int
	Cols   int

	HasNewContent  bool
	PromptDetected bool
	Idle           bool
	Exited         bool
	ExitCode       *int
}

// Read renders a view of the session's output, optionally waiting first.
// The wait loop drains output, then stops on process exit, a detected
// prompt (when requested), an elapsed idle window, or the deadline.
// Hitting the deadline is not an error; the flags say what happened.
func (s *Session) Read(opts ReadOptions) (*ReadResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultScrollbackLimit
	}

	hasConditions := opts.TimeoutMS > 0 || opts.WaitIdleMS > 0 || opts.WaitForPrompt
	deadline := time.Now().Add(time.Duration(max(opts.TimeoutMS, 1)) * time.Millisecond)
	lastOutput := time.Now()
	idle := false

	for {
		s.mu.Lock()
		if s.destroyed {
			s.mu.Unlock()
			return nil, ErrSessionDestroyed
		}
		if s.drainLocked() {
			lastOutput = time.Now()
		}
		exited, _ := s.state.Exited()
		prompt := opts.WaitForPrompt && s.state.PromptDetected()
		s.mu.Unlock()

		if exited || prompt {
			break
		}
		if opts.WaitIdleMS > 0 && time.Since(lastOutput) >= time.Duration(opts.WaitIdleMS)*time.Millisecond {
			idle = true
			break
		}
		if time.Now().After(deadline) {
			break
		}
		if !hasConditions {
			break
		}
		time.Sleep(pollInterval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return nil, ErrSessionDestroyed
	}
	s.drainLocked()

	res := &ReadResult{Idle: idle}

	// Flags reflect the state at stop time, before the view take consumes
	// the tracker.
	res.HasNewContent = s.state.HasNewContent()
	res.PromptDetected = s.state.PromptDetected()
	res.Exited, res.ExitCode = s.state.Exited()
	res.Rows, res.Cols = s.state.Size()
	if opts.View == term.ViewScreen {
		c := s.state.Cursor()
		res.Cursor = &c
	}

	res.Content = s.state.ReadView(opts.View, opts.Format, opts.Offset, limit)
	res.Lines = countLines(res.Content)
	return res, nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
