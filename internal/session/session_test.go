package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

func createSession(t *testing.T, m *Manager, program string, args ...string) *Session {
	t.Helper()
	res, err := m.Create(CreateOptions{Program: program, Args: args})
	require.NoError(t, err)
	sess, err := m.Get(res.Info.SessionID)
	require.NoError(t, err)
	return sess
}

func TestWriteEchoesBack(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	require.NoError(t, sess.Write([]byte("ping\r")))

	var out strings.Builder
	ok := waitFor(t, 5*time.Second, func() bool {
		r, err := sess.Read(ReadOptions{View: term.ViewNew, TimeoutMS: 100})
		require.NoError(t, err)
		out.WriteString(r.Content)
		return strings.Contains(out.String(), "ping")
	})
	assert.True(t, ok, "echo never arrived: %q", out.String())
}

func TestWriteAfterExit(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/echo", "done")

	require.True(t, waitFor(t, 5*time.Second, sess.Exited))
	err := sess.Write([]byte("anyone there?"))
	assert.ErrorIs(t, err, ErrProcessExited)
}

func TestExitedSessionStillAnswersInfo(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/echo", "done")

	require.True(t, waitFor(t, 5*time.Second, sess.Exited))

	info := sess.Info()
	assert.True(t, info.Exited)
	require.NotNil(t, info.ExitCode)
	assert.Equal(t, 0, *info.ExitCode)
	assert.False(t, info.Healthy)
	assert.Empty(t, info.Cwd)
}

func TestDestroyedSessionRejectsOps(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	_, err := m.Destroy(sess.ID, true)
	require.NoError(t, err)

	assert.ErrorIs(t, sess.Write([]byte("x")), ErrSessionDestroyed)
	_, err = sess.Read(ReadOptions{View: term.ViewNew})
	assert.ErrorIs(t, err, ErrSessionDestroyed)
}

func TestInfoFields(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	info := sess.Info()
	assert.Equal(t, sess.ID, info.SessionID)
	assert.Equal(t, "/bin/cat", info.Program)
	assert.Greater(t, info.Pid, 0)
	assert.WithinDuration(t, time.Now(), info.CreatedAt, 5*time.Second)
	assert.True(t, info.Healthy)
	assert.Nil(t, info.ExitCode)
}

func TestSubscribeReceivesOutput(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	ch, err := sess.Subscribe("client-1")
	require.NoError(t, err)
	defer sess.Unsubscribe("client-1")

	require.NoError(t, sess.Write([]byte("broadcast\r")))

	var got strings.Builder
	deadline := time.After(5 * time.Second)
	for !strings.Contains(got.String(), "broadcast") {
		sess.Drain()
		select {
		case data := <-ch:
			got.Write(data)
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("subscriber never saw output: %q", got.String())
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	ch, err := sess.Subscribe("client-1")
	require.NoError(t, err)
	sess.Unsubscribe("client-1")

	_, open := <-ch
	assert.False(t, open)
}

func TestSubscribeLimit(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5, AttachClients: 1})
	sess := createSession(t, m, "/bin/cat")

	_, err := sess.Subscribe("client-1")
	require.NoError(t, err)
	_, err = sess.Subscribe("client-2")
	assert.ErrorIs(t, err, ErrAttachLimit)

	// Leaving frees the slot.
	sess.Unsubscribe("client-1")
	_, err = sess.Subscribe("client-2")
	assert.NoError(t, err)
}

func TestDestroyClosesSubscribers(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	ch, err := sess.Subscribe("client-1")
	require.NoError(t, err)

	_, err = m.Destroy(sess.ID, true)
	require.NoError(t, err)

	ok := waitFor(t, time.Second, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	})
	assert.True(t, ok, "subscriber channel not closed")
}

func TestSnapshotRendersScreen(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/echo", "snapshot-line")

	require.True(t, waitFor(t, 5*time.Second, sess.Exited))

	info, screen := sess.Snapshot()
	assert.Equal(t, sess.ID, info.SessionID)
	assert.Contains(t, screen, "snapshot-line")
}
