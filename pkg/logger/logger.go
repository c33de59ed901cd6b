// Package logger provides structured JSON-line logging for the learning portal.
// Every record is a single line {timestamp, level, message, meta} so stdout can
// be shipped to an external log pipeline as-is.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message. The stream carries only
// two levels: info and error.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// String returns the wire representation of the log level.
func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// ParseLevel parses a minimum level. "error" keeps only errors; anything else
// keeps everything.
func ParseLevel(s string) Level {
	if strings.EqualFold(strings.TrimSpace(s), "error") {
		return LevelError
	}
	return LevelInfo
}

// Field represents a key-value pair placed into the meta object.
type Field struct {
	Key   string
	Value any
}

// Common field constructors for convenience.
func String(key, value string) Field    { return Field{Key: key, Value: value} }
func Int(key string, value int) Field   { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Err creates an error field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Any creates a field with any value.
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// Entry is a single log record as written to the output.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta"`
	Caller    string         `json:"caller,omitempty"`
}

// Logger writes Entries to an io.Writer. It is safe for concurrent use.
type Logger struct {
	mu        *sync.Mutex
	output    io.Writer
	level     Level
	fields    []Field
	addCaller bool
	now       func() time.Time
}

// Options configures the logger.
type Options struct {
	Output    io.Writer
	Level     Level
	AddCaller bool

	// Now overrides the clock; used by tests for stable timestamps.
	Now func() time.Time
}

// New creates a new Logger with the given options.
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Logger{
		mu:        &sync.Mutex{},
		output:    opts.Output,
		level:     opts.Level,
		addCaller: opts.AddCaller,
		now:       opts.Now,
	}
}

// Default creates a logger with default options.
func Default() *Logger {
	return New(Options{Output: os.Stdout, Level: LevelInfo})
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Options{Output: io.Discard, Level: LevelError + 1})
}

// With returns a new Logger with the given fields added to every record.
// The child shares the parent's output lock so lines never interleave.
func (l *Logger) With(fields ...Field) *Logger {
	child := *l
	child.fields = make([]Field, len(l.fields)+len(fields))
	copy(child.fields, l.fields)
	copy(child.fields[len(l.fields):], fields)
	return &child
}

func (l *Logger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	entry := Entry{
		Timestamp: l.now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Meta:      make(map[string]any, len(l.fields)+len(fields)),
	}

	if l.addCaller {
		if _, file, line, ok := runtime.Caller(2); ok {
			if idx := strings.LastIndex(file, "/"); idx >= 0 {
				file = file[idx+1:]
			}
			entry.Caller = fmt.Sprintf("%s:%d", file, line)
		}
	}

	for _, f := range l.fields {
		entry.Meta[f.Key] = f.Value
	}
	for _, f := range fields {
		entry.Meta[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		fmt.Fprintf(l.output, "%s [%s] %s\n", entry.Timestamp, entry.Level, msg)
		return
	}

	l.output.Write(append(data, '\n'))
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

type ctxKey struct{}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context, or returns a default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID returns a logger with request ID field added.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.With(String("request_id", requestID))
}

// Portal-specific field helpers.
func Username(name string) Field      { return String("username", name) }
func CourseID(id string) Field        { return String("courseId", id) }
func Score(n int) Field               { return Int("score", n) }
func Component(name string) Field     { return String("component", name) }
func SubmissionID(id string) Field    { return String("submissionId", id) }
func StorageKey(key string) Field     { return String("key", key) }
func ViewName(view string) Field      { return String("view", view) }
func RedirectTarget(t string) Field   { return String("redirect", t) }
func FeedbackCategory(c string) Field { return String("category", c) }
