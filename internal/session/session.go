package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/pty"
	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

// Sentinel errors for session operations. Callers match with errors.Is.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrMaxSessions      = errors.New("session limit reached")
	ErrSessionDestroyed = errors.New("session destroyed")
	ErrProcessExited    = errors.New("process has exited")
	ErrSessionFailed    = errors.New("session in error state")
	ErrWaitTimeout      = errors.New("wait timed out")
	ErrAttachLimit      = errors.New("attach client limit reached")
)

// subBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind starts losing chunks rather than stalling drains.
const subBuffer = 64

// Session binds one PTY child process to its terminal state. All state
// transitions happen under mu; the PTY write path has its own lock so a
// blocked write never stalls reads or info calls.
type Session struct {
	ID        string
	Program   string
	Args      []string
	CreatedAt time.Time

	mu        sync.Mutex
	state     *term.State
	handle    *pty.Handle
	reader    *reader
	destroyed bool

	writeMu sync.Mutex

	subMu   sync.Mutex
	subs    map[string]chan []byte
	maxSubs int

	log *logging.Logger
}

func newSession(id string, h *pty.Handle, st *term.State, program string, args []string, maxSubs int, log *logging.Logger) *Session {
	s := &Session{
		ID:        id,
		Program:   program,
		Args:      args,
		CreatedAt: time.Now(),
		state:     st,
		handle:    h,
		maxSubs:   maxSubs,
		subs:      make(map[string]chan []byte),
		log:       log.WithSession(id),
	}
	s.reader = startReader(h)
	return s
}

// drainLocked applies everything the reader has queued. Reports whether
// any output bytes arrived. Callers hold s.mu.
func (s *Session) drainLocked() bool {
	had := false
	for {
		select {
		case m := <-s.reader.ch:
			switch m.kind {
			case msgData:
				s.state.ProcessOutput(m.data)
				s.broadcast(m.data)
				had = true
			case msgExited:
				s.state.MarkExited(m.code)
			case msgError:
				s.state.SetErr(m.err)
				s.log.Warn("reader failed", zap.Error(m.err))
			}
		default:
			return had
		}
	}
}

// Drain applies pending output without reading a view. Used by attach
// handlers to keep subscribers fed between client reads.
func (s *Session) Drain() {
	s.mu.Lock()
	s.drainLocked()
	s.mu.Unlock()
}

// Write sends raw bytes to the child process. The session lock is released
// before the PTY write so a full kernel buffer cannot block other callers;
// writeMu keeps concurrent writers ordered.
func (s *Session) Write(data []byte) error {
	s.mu.Lock()
	s.drainLocked()
	if s.destroyed {
		s.mu.Unlock()
		return ErrSessionDestroyed
	}
	if err := s.state.Err(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrSessionFailed, err)
	}
	if exited, _ := s.state.Exited(); exited {
		s.mu.Unlock()
		return ErrProcessExited
	}
	h := s.handle
	s.mu.Unlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return h.Write(data)
}

// Info is a point-in-time description of a session.
type Info struct {
	SessionID string      `json:"session_id"`
	Program   string      `json:"program"`
	Args      []string    `json:"args"`
	Pid       int         `json:"pid"`
	CreatedAt time.Time   `json:"created_at"`
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Cursor    term.Cursor `json:"cursor"`
	Title     string      `json:"title,omitempty"`
	Exited    bool        `json:"exited"`
	ExitCode  *int        `json:"exit_code,omitempty"`
	Healthy   bool        `json:"healthy"`
	Cwd       string      `json:"cwd,omitempty"`
}

// Info drains pending output and reports the session's current state.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainLocked()
	return s.infoLocked()
}

func (s *Session) infoLocked() Info {
	exited, code := s.state.Exited()
	rows, cols := s.state.Size()
	info := Info{
		SessionID: s.ID,
		Program:   s.Program,
		Args:      s.Args,
		Pid:       s.handle.Pid(),
		CreatedAt: s.CreatedAt,
		Rows:      rows,
		Cols:      cols,
		Cursor:    s.state.Cursor(),
		Title:     s.state.Title(),
		Exited:    exited,
		ExitCode:  code,
		Healthy:   !exited && !s.destroyed && s.state.Err() == nil,
	}
	if !exited {
		info.Cwd = s.handle.Cwd()
	}
	return info
}

// Exited drains pending output and reports whether the child is gone.
func (s *Session) Exited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainLocked()
	exited, _ := s.state.Exited()
	return exited
}

// Snapshot returns the session info and a raw render of the current
// screen, for seeding a freshly attached client.
func (s *Session) Snapshot() (Info, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainLocked()
	return s.infoLocked(), s.state.Screen().Render(term.FormatRaw)
}

// Subscribe registers a live output feed. Chunks are delivered as they
// are drained; a slow subscriber misses chunks instead of blocking.
func (s *Session) Subscribe(clientID string) (<-chan []byte, error) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) >= s.maxSubs {
		return nil, ErrAttachLimit
	}
	ch := make(chan []byte, subBuffer)
	s.subs[clientID] = ch
	return ch, nil
}

// Unsubscribe removes a feed and closes its channel.
func (s *Session) Unsubscribe(clientID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[clientID]; ok {
		delete(s.subs, clientID)
		close(ch)
	}
}

func (s *Session) broadcast(data []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

func (s *Session) closeSubs() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// destroy terminates the child, stops the reader, and marks the session
// dead. Idempotent; the second call returns the recorded exit code.
func (s *Session) destroy(force bool) *int {
	s.mu.Lock()
	if s.destroyed {
		_, code := s.state.Exited()
		s.mu.Unlock()
		return code
	}
	s.destroyed = true
	h := s.handle
	r := s.reader
	s.mu.Unlock()

	code := h.Terminate(force)
	r.signalStop()
	h.Close()
	if !r.join(joinGrace) {
		s.log.Debug("reader did not stop in time, detaching")
	}

	s.mu.Lock()
	s.drainLocked()
	s.state.MarkExited(code)
	s.mu.Unlock()

	s.closeSubs()
	s.log.Info("session destroyed", zap.Bool("force", force))
	return code
}
