// Package logger provides levelled logging for prdstore.
// Debug, Info and Section lines print only in verbose mode (--verbose or
// log.verbose); Warn and Error always print. Output goes to stderr by default.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	mu       sync.RWMutex
	verbose  bool
	output   io.Writer = os.Stderr
	colorful           = isTerminal(os.Stderr)
)

var (
	debugTag = color.New(color.FgHiBlack).SprintFunc()
	infoTag  = color.New(color.FgCyan).SprintFunc()
	warnTag  = color.New(color.FgYellow).SprintFunc()
	errorTag = color.New(color.FgRed, color.Bold).SprintFunc()
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) && !color.NoColor
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	colorful = isTerminal(w)
}

// writeMu serialises writes; mu only guards configuration.
var writeMu sync.Mutex

func write(tag string, paint func(a ...any) string, format string, args ...any) {
	writeMu.Lock()
	defer writeMu.Unlock()
	if colorful {
		tag = paint(tag)
	}
	fmt.Fprintf(output, tag+" "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		write("[DEBUG]", debugTag, format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		writeMu.Lock()
		defer writeMu.Unlock()
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		write("[INFO]", infoTag, format, args...)
	}
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write("[WARN]", warnTag, format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write("[ERROR]", errorTag, format, args...)
}
