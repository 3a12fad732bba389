package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/pty"
	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

const shellPattern = `\$\s*$|#\s*$|>\s*$`

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m, err := NewManager(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m
}

// waitFor polls cond until it holds or the deadline lapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestCreateListDestroy(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})

	res, err := m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)
	require.Nil(t, res.Ready)

	info := res.Info
	assert.True(t, strings.HasPrefix(info.SessionID, "sess_"), "id %q", info.SessionID)
	assert.Equal(t, "/bin/cat", info.Program)
	assert.Greater(t, info.Pid, 0)
	assert.Equal(t, 24, info.Rows)
	assert.Equal(t, 80, info.Cols)
	assert.False(t, info.Exited)
	assert.True(t, info.Healthy)

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, info.SessionID, list[0].SessionID)

	code, err := m.Destroy(info.SessionID, false)
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, 143, *code) // SIGTERM

	assert.Empty(t, m.List())
	_, err = m.Destroy(info.SessionID, false)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreateCustomDimensions(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})

	res, err := m.Create(CreateOptions{Program: "/bin/cat", Rows: 10, Cols: 40})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Info.Rows)
	assert.Equal(t, 40, res.Info.Cols)
}

func TestCreateProgramNotFound(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})

	_, err := m.Create(CreateOptions{Program: "/no/such/program"})
	require.ErrorIs(t, err, pty.ErrProgramNotFound)
	assert.Equal(t, 0, m.Count())
}

func TestMaxSessions(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 2})

	first, err := m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)
	_, err = m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)

	_, err = m.Create(CreateOptions{Program: "/bin/cat"})
	require.ErrorIs(t, err, ErrMaxSessions)
	assert.Equal(t, 2, m.Count())

	// Destroying one frees a slot.
	_, err = m.Destroy(first.Info.SessionID, true)
	require.NoError(t, err)
	_, err = m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)
}

func TestGetNotFound(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})

	_, err := m.Get("sess_does_not_exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCleanupExited(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})

	gone, err := m.Create(CreateOptions{Program: "/bin/echo", Args: []string{"bye"}})
	require.NoError(t, err)
	alive, err := m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)

	sess, err := m.Get(gone.Info.SessionID)
	require.NoError(t, err)
	require.True(t, waitFor(t, 5*time.Second, sess.Exited), "echo did not exit")

	// Exited sessions still answer list until cleaned up.
	assert.Len(t, m.List(), 2)

	removed := m.CleanupExited()
	require.Equal(t, []string{gone.Info.SessionID}, removed)
	assert.Equal(t, 1, m.Count())

	_, err = m.Get(gone.Info.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(alive.Info.SessionID)
	assert.NoError(t, err)

	// Nothing left to clean.
	assert.Empty(t, m.CleanupExited())
}

func TestShutdownTerminatesAll(t *testing.T) {
	m, err := NewManager(Config{MaxSessions: 5}, logging.NewNop())
	require.NoError(t, err)

	_, err = m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)
	_, err = m.Create(CreateOptions{Program: "/bin/cat"})
	require.NoError(t, err)

	m.Shutdown()
	assert.Equal(t, 0, m.Count())
}

func TestInvalidPromptPattern(t *testing.T) {
	_, err := NewManager(Config{PromptPattern: "[unclosed"}, logging.NewNop())
	require.ErrorIs(t, err, term.ErrInvalidPattern)
}

func TestShellReadyWait(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5, PromptPattern: shellPattern})

	res, err := m.Create(CreateOptions{
		Program: "/bin/sh",
		Env:     map[string]string{"PS1": "$ "},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Ready, "shells wait for a prompt by default")
	assert.True(t, *res.Ready)
}

func TestReadyWaitTimeoutKeepsSession(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5, PromptPattern: shellPattern})

	wait := true
	res, err := m.Create(CreateOptions{
		Program:        "/bin/cat",
		WaitReady:      &wait,
		ReadyTimeoutMS: 300,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Ready)
	assert.False(t, *res.Ready)

	// The timeout is reported, not fatal.
	assert.Equal(t, 1, m.Count())
	sess, err := m.Get(res.Info.SessionID)
	require.NoError(t, err)
	assert.False(t, sess.Exited())
}

func TestShellEchoRoundTrip(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5, PromptPattern: shellPattern})

	res, err := m.Create(CreateOptions{
		Program: "/bin/sh",
		Env:     map[string]string{"PS1": "$ "},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Ready)
	require.True(t, *res.Ready)

	sess, err := m.Get(res.Info.SessionID)
	require.NoError(t, err)
	require.NoError(t, sess.Write([]byte("echo round-trip\r")))

	// Collect new output until the command result shows up.
	var out strings.Builder
	ok := waitFor(t, 5*time.Second, func() bool {
		r, err := sess.Read(ReadOptions{View: term.ViewNew, TimeoutMS: 100})
		require.NoError(t, err)
		out.WriteString(r.Content)
		return strings.Contains(out.String(), "round-trip")
	})
	require.True(t, ok, "command output never arrived: %q", out.String())

	// Once the shell redraws its prompt, a prompt wait on the new view
	// stops immediately and the flag survives the view take.
	r, err := sess.Read(ReadOptions{
		View:          term.ViewNew,
		TimeoutMS:     3000,
		WaitForPrompt: true,
	})
	require.NoError(t, err)
	assert.True(t, r.PromptDetected)
	assert.False(t, r.Exited)
}
