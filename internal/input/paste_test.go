package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePasteMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PasteMode
		wantErr bool
	}{
		{"", PasteAuto, false},
		{"auto", PasteAuto, false},
		{"always", PasteAlways, false},
		{"never", PasteNever, false},
		{"ALWAYS", PasteAlways, false},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePasteMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestShouldPaste(t *testing.T) {
	assert.False(t, ShouldPaste("hello", PasteAuto))
	assert.True(t, ShouldPaste("hello\nworld", PasteAuto))
	assert.True(t, ShouldPaste("hello", PasteAlways))
	assert.False(t, ShouldPaste("hello\nworld", PasteNever))
}

func TestWrapPaste(t *testing.T) {
	got := string(WrapPaste("hello"))

	assert.Equal(t, PasteStart+"hello"+PasteEnd, got)
}

func TestEncodeTextPasteModes(t *testing.T) {
	assert.Equal(t, "hello", string(EncodeText("hello", PasteAuto)))
	assert.Equal(t, PasteStart+"a\nb"+PasteEnd, string(EncodeText("a\nb", PasteAuto)))
	assert.Equal(t, PasteStart+"one"+PasteEnd, string(EncodeText("one", PasteAlways)))
	assert.Equal(t, "a\nb", string(EncodeText("a\nb", PasteNever)))
}
