package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output to a buffer for the duration of the test.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		log     func(string, ...any)
		verbose bool
		want    string
	}{
		{"debug verbose", Debug, true, "[DEBUG] stored prd_1\n"},
		{"debug quiet", Debug, false, ""},
		{"info verbose", Info, true, "[INFO] stored prd_1\n"},
		{"info quiet", Info, false, ""},
		{"warn verbose", Warn, true, "[WARN] stored prd_1\n"},
		{"warn quiet", Warn, false, "[WARN] stored prd_1\n"},
		{"error quiet", Error, false, "[ERROR] stored prd_1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)

			tt.log("stored %s", "prd_1")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)
	Section("Search Execution")
	assert.Equal(t, "\n=== Search Execution ===\n", buf.String())

	buf = capture(t, false)
	Section("Search Execution")
	assert.Empty(t, buf.String())
}

func TestNoColourForNonTerminal(t *testing.T) {
	buf := capture(t, false)

	Error("boom")

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConcurrentAccess(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); Info("info") }()
		go func() { defer wg.Done(); Warn("warn") }()
		go func() { defer wg.Done(); _ = IsVerbose() }()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 100)
	for _, line := range lines {
		assert.True(t, line == "[INFO] info" || line == "[WARN] warn", "interleaved line %q", line)
	}
}

func TestConcurrentSections(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); Section("Store") }()
		go func() { defer wg.Done(); Warn("warn") }()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 150)
	var headers, warnings int
	for _, line := range lines {
		switch line {
		case "":
		case "=== Store ===":
			headers++
		case "[WARN] warn":
			warnings++
		default:
			t.Errorf("interleaved line %q", line)
		}
	}
	assert.Equal(t, 50, headers)
	assert.Equal(t, 50, warnings)
}
