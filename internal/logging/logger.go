// Package logging writes JSON-line entries through the standard log package.
package logging

import (
	"encoding/json"
	"io"
	"log"
	"time"
)

// Fields are extra key/value pairs attached to an entry.
type Fields map[string]interface{}

// Logger writes entries to an underlying *log.Logger. A nil *Logger drops everything.
type Logger struct {
	out  *log.Logger
	base Fields
	now  func() time.Time
}

// New creates a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0), now: time.Now}
}

// Std creates a logger on the process-wide log output, so tea.LogToFile redirects it.
func Std() *Logger {
	return &Logger{out: log.Default(), now: time.Now}
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return New(io.Discard)
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields Fields) *Logger {
	if l == nil {
		return nil
	}
	merged := Fields{}
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, base: merged, now: l.now}
}

func (l *Logger) output(level, msg string, fields Fields) {
	if l == nil || l.out == nil {
		return
	}
	entry := Fields{}
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["ts"] = l.now().UTC().Format(time.RFC3339)
	entry["msg"] = msg
	b, err := json.Marshal(entry)
	if err != nil {
		// fallback to plain logging
		l.out.Printf("%s: %s (%v)\n", level, msg, entry)
		return
	}
	l.out.Println(string(b))
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string, fields Fields) {
	l.output("debug", msg, fields)
}

// Info logs an informational message with optional fields.
func (l *Logger) Info(msg string, fields Fields) {
	l.output("info", msg, fields)
}

// Warn logs a recoverable anomaly.
func (l *Logger) Warn(msg string, fields Fields) {
	l.output("warn", msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func (l *Logger) Error(msg string, err error, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.output("error", msg, fields)
}
