package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/pty"
	"github.com/GriffinCanCode/AgentTerm/internal/shared/id"
	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

// Config carries the manager's tunables. Zero values fall back to the
// documented defaults; an empty PromptPattern disables prompt detection.
type Config struct {
	Shell           string
	Term            string
	Rows            int
	Cols            int
	ScrollbackLimit int
	PromptPattern   string
	MaxSessions     int
	ReadyTimeoutMS  int
	AttachClients   int
}

func (c *Config) applyDefaults() {
	if c.Term == "" {
		c.Term = "xterm-256color"
	}
	if c.Rows <= 0 {
		c.Rows = 24
	}
	if c.Cols <= 0 {
		c.Cols = 80
	}
	if c.ScrollbackLimit <= 0 {
		c.ScrollbackLimit = 10000
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 10
	}
	if c.ReadyTimeoutMS <= 0 {
		c.ReadyTimeoutMS = 5000
	}
	if c.AttachClients <= 0 {
		c.AttachClients = 10
	}
}

// Manager owns every live session. It bounds the total, hands out ids,
// and is the single place sessions are created and destroyed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg     Config
	prompt  *term.PromptDetector
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewManager compiles the prompt pattern once and returns an empty
// registry. The error is ErrInvalidPattern when the pattern is malformed.
func NewManager(cfg Config, log *logging.Logger) (*Manager, error) {
	cfg.applyDefaults()

	var prompt *term.PromptDetector
	if cfg.PromptPattern != "" {
		var err error
		prompt, err = term.NewPromptDetector(cfg.PromptPattern)
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		prompt:   prompt,
		log:      log,
	}, nil
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// CreateOptions describe the process to spawn. Unset fields take the
// manager defaults. WaitReady nil means "wait when the program is a
// known shell".
type CreateOptions struct {
	Program        string
	Args           []string
	Rows           int
	Cols           int
	Env            map[string]string
	Cwd            string
	WaitReady      *bool
	ReadyTimeoutMS int
}

// CreateResult is the created session's info plus, when a ready wait was
// performed, whether a prompt appeared in time.
type CreateResult struct {
	Info  Info
	Ready *bool
}

// Create spawns a process on a fresh PTY and registers the session. The
// session count never exceeds MaxSessions: the limit is re-checked at
// insert, and a session spawned past it is torn down before the error
// returns.
func (m *Manager) Create(opts CreateOptions) (*CreateResult, error) {
	m.mu.RLock()
	count := len(m.sessions)
	m.mu.RUnlock()
	if count >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("%w: %d active", ErrMaxSessions, count)
	}

	program := opts.Program
	if program == "" {
		program = m.defaultProgram()
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = m.cfg.Rows
	}
	if cols <= 0 {
		cols = m.cfg.Cols
	}

	sid := id.NewSessionID().String()
	handle, err := pty.Spawn(pty.Options{
		Program: program,
		Args:    opts.Args,
		Rows:    rows,
		Cols:    cols,
		Env:     opts.Env,
		Cwd:     opts.Cwd,
		Term:    m.cfg.Term,
	})
	if err != nil {
		return nil, err
	}

	state := term.NewState(rows, cols, m.cfg.ScrollbackLimit, m.prompt)
	sess := newSession(sid, handle, state, program, opts.Args, m.cfg.AttachClients, m.log)

	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		sess.destroy(true)
		return nil, fmt.Errorf("%w: %d active", ErrMaxSessions, m.cfg.MaxSessions)
	}
	m.sessions[sid] = sess
	m.mu.Unlock()

	m.recordCreated()
	m.log.Info("session created",
		zap.String("session_id", sid),
		zap.String("program", program),
		zap.Int("pid", handle.Pid()),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
	)

	res := &CreateResult{}
	wait := isShellProgram(program)
	if opts.WaitReady != nil {
		wait = *opts.WaitReady
	}
	if wait {
		timeout := opts.ReadyTimeoutMS
		if timeout <= 0 {
			timeout = m.cfg.ReadyTimeoutMS
		}
		ready := true
		if err := m.waitReady(sess, timeout); err != nil {
			ready = false
			m.log.Warn("session not ready", zap.String("session_id", sid), zap.Error(err))
		}
		res.Ready = &ready
	}

	res.Info = sess.Info()
	return res, nil
}

// waitReady blocks until a prompt shows up or the timeout lapses. The
// read consumes the startup banner either way, so the caller's first
// "new" read starts clean.
func (m *Manager) waitReady(s *Session, timeoutMS int) error {
	res, err := s.Read(ReadOptions{
		View:          term.ViewNew,
		Format:        term.FormatPlain,
		TimeoutMS:     timeoutMS,
		WaitForPrompt: true,
	})
	if err != nil {
		return err
	}
	if res.PromptDetected {
		return nil
	}
	return fmt.Errorf("%w after %dms", ErrWaitTimeout, timeoutMS)
}

func (m *Manager) defaultProgram() string {
	if m.cfg.Shell != "" {
		return m.cfg.Shell
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

var shellNames = map[string]bool{
	"bash": true, "zsh": true, "sh": true, "fish": true, "dash": true,
	"ksh": true, "tcsh": true, "csh": true, "ash": true, "pwsh": true,
}

func isShellProgram(program string) bool {
	return shellNames[filepath.Base(program)]
}

// Get looks up a live session.
func (m *Manager) Get(sid string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	return sess, nil
}

// Destroy removes a session from the registry and terminates its process.
// Returns the exit code when one was observed.
func (m *Manager) Destroy(sid string, force bool) (*int, error) {
	m.mu.Lock()
	sess, ok := m.sessions[sid]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	delete(m.sessions, sid)
	m.mu.Unlock()

	code := sess.destroy(force)
	m.recordDestroyed(1)
	return code, nil
}

// List snapshots every registered session, including exited ones not yet
// cleaned up.
func (m *Manager) List() []Info {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(all))
	for _, s := range all {
		infos = append(infos, s.Info())
	}
	return infos
}

// CleanupExited removes every session whose process has exited and
// returns their ids.
func (m *Manager) CleanupExited() []string {
	m.mu.RLock()
	exited := make([]*Session, 0)
	for _, s := range m.sessions {
		if s.Exited() {
			exited = append(exited, s)
		}
	}
	m.mu.RUnlock()

	removed := make([]string, 0, len(exited))
	m.mu.Lock()
	for _, s := range exited {
		if _, ok := m.sessions[s.ID]; ok {
			delete(m.sessions, s.ID)
			removed = append(removed, s.ID)
		}
	}
	m.mu.Unlock()

	for _, s := range exited {
		s.destroy(false)
	}
	if len(removed) > 0 {
		m.recordDestroyed(len(removed))
		m.log.Info("cleaned up exited sessions", zap.Int("count", len(removed)))
	}
	return removed
}

// Count reports how many sessions are registered.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown force-terminates every session. The manager is unusable for
// the sessions it held, but Create keeps working; callers stop routing
// to it first.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for sid, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, sid)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.destroy(true)
	}
	if len(all) > 0 {
		m.recordDestroyed(len(all))
	}
	m.log.Info("session manager shut down", zap.Int("terminated", len(all)))
}

func (m *Manager) recordCreated() {
	if m.metrics == nil {
		return
	}
	m.metrics.SessionCreated()
	m.metrics.SetSessionsActive(m.Count())
}

func (m *Manager) recordDestroyed(n int) {
	if m.metrics == nil {
		return
	}
	for i := 0; i < n; i++ {
		m.metrics.SessionDestroyed()
	}
	m.metrics.SetSessionsActive(m.Count())
}
