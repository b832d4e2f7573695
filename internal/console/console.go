package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Logger prints prefixed, colorized status lines. Info, Success and Debug
// go to the out stream and respect quiet mode; Warn and Error always go to
// the err stream and are never mixed into results.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	quiet   bool
	verbose bool
}

// New creates a Logger writing to out and errw
func New(out, errw io.Writer, quiet, verbose bool) *Logger {
	return &Logger{out: out, err: errw, quiet: quiet, verbose: verbose}
}

// Default returns a Logger on stdout/stderr
func Default(quiet, verbose bool) *Logger {
	return New(os.Stdout, os.Stderr, quiet, verbose)
}

// Discard returns a Logger that drops everything
func Discard() *Logger {
	return New(io.Discard, io.Discard, true, false)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.print(l.out, blue("INFO:"), format, args...)
}

func (l *Logger) Success(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.print(l.out, green("SUCCESS:"), format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.quiet || !l.verbose {
		return
	}
	l.print(l.out, cyan("DEBUG:"), format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.print(l.err, yellow("WARN:"), format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.print(l.err, red("ERROR:"), format, args...)
}

// Quiet reports whether informational output is suppressed
func (l *Logger) Quiet() bool {
	return l.quiet
}

func (l *Logger) print(w io.Writer, prefix, format string, args ...interface{}) {
	line := prefix + " " + fmt.Sprintf(format, args...) + "\n"
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(w, line)
}
