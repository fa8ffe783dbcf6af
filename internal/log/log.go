// Package log provides context-aware, levelled logging for pre-commit-vauxoo.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/pre-commit-vauxoo/internal/ui/styles"
)

// Name is the logger name printed on every line.
const Name = "pre-commit-vauxoo"

type ctxKey struct{}

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level tag.
func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(lv))
	}
}

// Logger writes levelled lines to out and, optionally, to a plain file sink.
type Logger struct {
	out     io.Writer
	file    io.Writer
	verbose bool
	quiet   bool
	styled  bool
	now     func() time.Time
}

// New creates a new logger.
// When quiet is set only warnings and errors are written to out.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet, now: time.Now}
}

// WithStyle enables colored level tags. The writer is expected to
// downsample ANSI sequences for the detected terminal.
func (l *Logger) WithStyle(styled bool) *Logger {
	l.styled = styled
	return l
}

// WithFile tees every line, regardless of quiet, to w with a timestamp.
func (l *Logger) WithFile(w io.Writer) *Logger {
	l.file = w
	return l
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard, now: time.Now}
}

// Log writes one line at the given level.
func (l *Logger) Log(lv Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		fmt.Fprintf(l.file, "%s %s %s: %s\n", l.now().Format(time.RFC3339), lv, Name, msg)
	}
	if !l.enabled(lv) {
		return
	}
	fmt.Fprintf(l.out, "%s %s: %s\n", l.tag(lv), Name, msg)
}

func (l *Logger) enabled(lv Level) bool {
	switch {
	case lv == LevelDebug:
		return l.verbose && !l.quiet
	case lv == LevelInfo:
		return !l.quiet
	default:
		return true
	}
}

func (l *Logger) tag(lv Level) string {
	if !l.styled {
		return lv.String()
	}
	var st lipgloss.Style
	switch lv {
	case LevelDebug:
		st = styles.MutedStyle
	case LevelInfo:
		st = styles.SuccessStyle
	case LevelWarn:
		st = styles.WarningStyle
	default:
		st = styles.ErrorStyle
	}
	return st.Bold(true).Render(lv.String())
}

// Debugf logs at debug level; only printed in verbose mode.
func (l *Logger) Debugf(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Warnf logs at warning level.
func (l *Logger) Warnf(format string, args ...any) { l.Log(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.Log(LevelError, format, args...) }

// Command logs an external command execution and returns a function that
// records its duration. Only prints when verbose mode is enabled.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.verbose || l.quiet {
		return func(time.Duration) {}
	}
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if dir != "" {
		line = "[" + dir + "] $ " + line
	} else {
		line = "$ " + line
	}
	fmt.Fprintln(l.out, line)
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "  (%s)\n", d.Round(time.Millisecond))
	}
}
