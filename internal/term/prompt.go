package term

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrInvalidPattern reports a prompt pattern that failed to compile.
var ErrInvalidPattern = errors.New("invalid prompt pattern")

// PromptDetector matches shell prompts against the tail of recent output.
type PromptDetector struct {
	re *regexp.Regexp
}

// NewPromptDetector compiles pattern. A malformed pattern fails here, never
// at detection time.
func NewPromptDetector(pattern string) (*PromptDetector, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &PromptDetector{re: re}, nil
}

// Pattern returns the pattern the detector was built from.
func (d *PromptDetector) Pattern() string { return d.re.String() }

// Detect reports whether content ends at a prompt. Only the last two lines
// are considered, so prompts echoed earlier in the output do not match.
func (d *PromptDetector) Detect(content string) bool {
	if content == "" {
		return false
	}
	lines := strings.Split(content, "\n")
	// A trailing newline produces an empty final element; drop it so the
	// true last line is inspected.
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i := 0; i < 2 && len(lines)-1-i >= 0; i++ {
		trimmed := strings.TrimRightFunc(lines[len(lines)-1-i], unicode.IsSpace)
		if trimmed != "" && d.re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
