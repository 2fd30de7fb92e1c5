package parsley

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger receives tool output. Log writes without a newline; LogLine ends
// the line.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

// StdoutLogger returns a logger that writes to stdout (default for CLI/REPL)
func StdoutLogger() Logger {
	return WriterLogger(os.Stdout)
}

// writerLogger writes to an io.Writer
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, formatLogValues(values...))
}

func (l *writerLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, formatLogValues(values...))
}

// WriterLogger returns a logger that writes to an io.Writer
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// BufferedLogger captures log output for later retrieval
type BufferedLogger struct {
	mu    sync.Mutex
	lines []string
	buf   strings.Builder
}

// NewBufferedLogger creates a new buffered logger
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{
		lines: make([]string, 0),
	}
}

func (l *BufferedLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(formatLogValues(values...))
}

func (l *BufferedLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Flush any pending buffer content as a line
	line := l.buf.String() + formatLogValues(values...)
	l.lines = append(l.lines, line)
	l.buf.Reset()
}

// String returns all captured output as a single string
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := strings.Join(l.lines, "\n")
	if len(l.lines) > 0 {
		result += "\n"
	}
	if l.buf.Len() > 0 {
		result += l.buf.String()
	}
	return result
}

// Lines returns all captured log lines
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.lines))
	copy(result, l.lines)
	return result
}

// Reset clears all captured output
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = l.lines[:0]
	l.buf.Reset()
}

// nullLogger discards all output
type nullLogger struct{}

func (l *nullLogger) Log(values ...any)     {}
func (l *nullLogger) LogLine(values ...any) {}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return &nullLogger{}
}

func formatLogValues(values ...any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ParseLevel maps debug, info, warn or error to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
}

// Log writes level-filtered lines such as "[WARN] cache miss" to a Logger.
// In JSON mode each line is an object with time, level, tag and msg.
type Log struct {
	out  Logger
	min  Level
	json bool
	now  func() time.Time
}

// NewLog returns a Log writing at or above min to out.
func NewLog(out Logger, min Level, jsonFormat bool) *Log {
	if out == nil {
		out = NullLogger()
	}
	return &Log{out: out, min: min, json: jsonFormat, now: time.Now}
}

// Discard is a Log that drops everything.
var Discard = NewLog(NullLogger(), LevelError+1, false)

func (l *Log) Debugf(format string, args ...any) { l.write(LevelDebug, "", format, args...) }
func (l *Log) Infof(format string, args ...any)  { l.write(LevelInfo, "", format, args...) }
func (l *Log) Warnf(format string, args ...any)  { l.write(LevelWarn, "", format, args...) }
func (l *Log) Errorf(format string, args ...any) { l.write(LevelError, "", format, args...) }

// Tagf logs at info with a custom prefix, as in "[WATCH] changed main.pars".
func (l *Log) Tagf(tag, format string, args ...any) { l.write(LevelInfo, tag, format, args...) }

// Enabled reports whether lines at level are written.
func (l *Log) Enabled(level Level) bool { return l != nil && level >= l.min }

func (l *Log) write(level Level, tag, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	if tag == "" {
		tag = strings.ToUpper(level.String())
	}
	msg := fmt.Sprintf(format, args...)
	if !l.json {
		l.out.LogLine("[" + tag + "] " + msg)
		return
	}
	line, err := json.Marshal(map[string]string{
		"time":  l.now().UTC().Format(time.RFC3339),
		"level": level.String(),
		"tag":   tag,
		"msg":   msg,
	})
	if err != nil {
		l.out.LogLine("[" + tag + "] " + msg)
		return
	}
	l.out.LogLine(string(line))
}
