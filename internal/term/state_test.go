package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateNewViewDrains(t *testing.T) {
	st := newTestState()
	feed(st, "first chunk")

	require.True(t, st.HasNewContent())
	assert.Equal(t, "first chunk", st.ReadView(ViewNew, FormatPlain, 0, 0))

	// Draining is destructive: an immediate second read is empty.
	assert.False(t, st.HasNewContent())
	assert.Equal(t, "", st.ReadView(ViewNew, FormatPlain, 0, 0))

	feed(st, "second")
	assert.Equal(t, "second", st.ReadView(ViewNew, FormatPlain, 0, 0))
}

func TestStateNewViewFormats(t *testing.T) {
	st := newTestState()
	feed(st, "\x1b[31mred\x1b[0m")

	raw := st.PeekNew(FormatRaw)
	assert.Contains(t, raw, "\x1b[31m")
	plain := st.ReadView(ViewNew, FormatPlain, 0, 0)
	assert.Equal(t, "red", plain)
}

func TestStateScreenViewSurvivesReads(t *testing.T) {
	st := newTestState()
	feed(st, "persistent")

	st.ReadView(ViewNew, FormatPlain, 0, 0)
	assert.Equal(t, "persistent", st.ReadView(ViewScreen, FormatPlain, 0, 0))
	assert.Equal(t, "persistent", st.ReadView(ViewScreen, FormatPlain, 0, 0))
}

func TestStateScrollbackView(t *testing.T) {
	st := NewState(2, 20, 100, nil)
	feed(st, "l1\r\nl2\r\nl3\r\nl4\r\nl5")

	// Grid holds the last two lines; everything older was evicted.
	assert.Equal(t, "l4\nl5", st.ReadView(ViewScreen, FormatPlain, 0, 0))
	assert.Equal(t, 3, st.Scrollback().Len())
	assert.Equal(t, "l1\nl2\nl3", st.ReadView(ViewScrollback, FormatPlain, 0, 10))
	assert.Equal(t, "l3", st.ReadView(ViewScrollback, FormatPlain, 0, 1))
	assert.Equal(t, "l1\nl2", st.ReadView(ViewScrollback, FormatPlain, 1, 2))
}

func TestStateScrollbackCapped(t *testing.T) {
	st := NewState(2, 20, 3, nil)
	feed(st, "a\r\nb\r\nc\r\nd\r\ne\r\nf\r\ng")

	assert.Equal(t, 3, st.Scrollback().Len())
	assert.Equal(t, "c\nd\ne", st.Scrollback().All(FormatPlain))
}

func TestStatePromptDetection(t *testing.T) {
	detector, err := NewPromptDetector(`\$\s*$|#\s*$|>\s*$`)
	require.NoError(t, err)
	st := NewState(24, 80, 100, detector)

	feed(st, "running command output")
	assert.False(t, st.PromptDetected())

	feed(st, "\r\nuser@host:~$ ")
	assert.True(t, st.PromptDetected())

	// Draining the tracker clears the tail the detector looks at.
	st.ReadView(ViewNew, FormatPlain, 0, 0)
	assert.False(t, st.PromptDetected())
}

func TestStatePromptDetectionNilDetector(t *testing.T) {
	st := NewState(24, 80, 100, nil)
	feed(st, "$ ")
	assert.False(t, st.PromptDetected())
}

func TestStateExitTracking(t *testing.T) {
	st := newTestState()
	exited, code := st.Exited()
	require.False(t, exited)
	require.Nil(t, code)

	status := 137
	st.MarkExited(&status)

	exited, code = st.Exited()
	assert.True(t, exited)
	require.NotNil(t, code)
	assert.Equal(t, 137, *code)
}

func TestStateErrRecordsFirst(t *testing.T) {
	st := newTestState()
	require.NoError(t, st.Err())

	st.SetErr(assert.AnError)
	st.SetErr(nil)
	assert.Equal(t, assert.AnError, st.Err())
}

func TestStateClearNew(t *testing.T) {
	st := newTestState()
	feed(st, "banner noise")
	st.ClearNew()

	assert.False(t, st.HasNewContent())
	assert.Equal(t, "banner noise", st.ReadView(ViewScreen, FormatPlain, 0, 0))
}

func TestStateConsistencyAfterBurst(t *testing.T) {
	st := NewState(3, 10, 100, nil)

	// One drained batch updates grid, scrollback and tracker together.
	feed(st, "a\r\nb\r\nc\r\nd\r\ne")

	assert.Equal(t, "c\nd\ne", st.ReadView(ViewScreen, FormatPlain, 0, 0))
	assert.Equal(t, 2, st.Scrollback().Len())
	assert.True(t, st.HasNewContent())
	assert.Contains(t, st.PeekNew(FormatPlain), "e")
}
