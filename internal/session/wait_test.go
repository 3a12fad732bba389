package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentTerm/internal/term"
)

func TestReadNoConditionsReturnsImmediately(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	start := time.Now()
	r, err := sess.Read(ReadOptions{View: term.ViewNew})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Empty(t, r.Content)
	assert.Zero(t, r.Lines)
	assert.False(t, r.HasNewContent)
	assert.False(t, r.Idle)
	assert.False(t, r.Exited)
}

func TestReadTimeoutIsNotAnError(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	start := time.Now()
	r, err := sess.Read(ReadOptions{View: term.ViewNew, TimeoutMS: 150})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
	assert.False(t, r.Idle)
	assert.False(t, r.Exited)
}

func TestReadIdleFlag(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	require.NoError(t, sess.Write([]byte("ping\r")))

	// The echo lands quickly, then nothing follows; the idle window
	// closes the read with the echo already drained.
	r, err := sess.Read(ReadOptions{View: term.ViewNew, WaitIdleMS: 250, TimeoutMS: 5000})
	require.NoError(t, err)
	assert.True(t, r.Idle)
	assert.True(t, r.HasNewContent)
	assert.Contains(t, r.Content, "ping")
}

func TestReadIdleOnQuietSession(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	start := time.Now()
	r, err := sess.Read(ReadOptions{View: term.ViewNew, WaitIdleMS: 100, TimeoutMS: 3000})
	require.NoError(t, err)
	assert.True(t, r.Idle)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, r.Content)
}

func TestReadStopsOnExit(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/sh", "-c", "sleep 0.2; echo bye")

	r, err := sess.Read(ReadOptions{View: term.ViewNew, TimeoutMS: 10000})
	require.NoError(t, err)
	assert.True(t, r.Exited)
	require.NotNil(t, r.ExitCode)
	assert.Equal(t, 0, *r.ExitCode)
	assert.Contains(t, r.Content, "bye")
}

func TestReadCursorOnlyForScreenView(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	r, err := sess.Read(ReadOptions{View: term.ViewScreen})
	require.NoError(t, err)
	assert.NotNil(t, r.Cursor)
	assert.Equal(t, 24, r.Rows)
	assert.Equal(t, 80, r.Cols)

	r, err = sess.Read(ReadOptions{View: term.ViewNew})
	require.NoError(t, err)
	assert.Nil(t, r.Cursor)
}

func TestReadNewViewDrainsOnce(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/cat")

	require.NoError(t, sess.Write([]byte("once\r")))

	var out strings.Builder
	ok := waitFor(t, 5*time.Second, func() bool {
		r, err := sess.Read(ReadOptions{View: term.ViewNew, TimeoutMS: 100})
		require.NoError(t, err)
		out.WriteString(r.Content)
		return strings.Contains(out.String(), "once")
	})
	require.True(t, ok)

	// A second read finds nothing new.
	r, err := sess.Read(ReadOptions{View: term.ViewNew})
	require.NoError(t, err)
	assert.Empty(t, r.Content)
	assert.False(t, r.HasNewContent)
}

func TestReadScrollbackPaging(t *testing.T) {
	m := newTestManager(t, Config{MaxSessions: 5})
	sess := createSession(t, m, "/bin/sh", "-c", "seq 1 60")

	require.True(t, waitFor(t, 5*time.Second, sess.Exited))

	r, err := sess.Read(ReadOptions{View: term.ViewScrollback, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Lines)

	// An offset past the retained lines yields nothing.
	r, err = sess.Read(ReadOptions{View: term.ViewScrollback, Offset: 100000})
	require.NoError(t, err)
	assert.Empty(t, r.Content)
	assert.Zero(t, r.Lines)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 2},
		{"\n", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countLines(tt.content), "content %q", tt.content)
	}
}
