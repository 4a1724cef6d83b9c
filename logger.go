package peek

import (
	"fmt"
	"io"
	"os"
)

// Logger handles diagnostic logging for the engine. It never carries
// directive output; that goes to the configured sink.
type Logger struct {
	enabled bool
	out     io.Writer
	errOut  io.Writer
}

// NewLogger creates a new logger
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[DEBUG] "+format+"\n", args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[peek WARN] "+format+"\n", args...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[peek ERROR] "+format+"\n", args...)
	}
}

// RewriteError logs a failure while rewriting a specific line (always visible)
func (l *Logger) RewriteError(message string, line int, text string) {
	errorOutput := fmt.Sprintf("[peek ERROR] %s", message)
	if line > 0 {
		errorOutput += fmt.Sprintf("\n  at line %d", line)
		if text != "" {
			errorOutput += fmt.Sprintf("\n  Source: %s", text)
		}
	}
	fmt.Fprintln(l.errOut, errorOutput)
}

// SetEnabled enables or disables logging
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// SetOutput redirects both log streams
func (l *Logger) SetOutput(out, errOut io.Writer) {
	if out != nil {
		l.out = out
	}
	if errOut != nil {
		l.errOut = errOut
	}
}
