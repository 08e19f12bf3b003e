package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger used by the document service.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - optional diagnostic fields appended as sorted key=value pairs

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
}

func header(lvl string) string {
	return fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

// Fields is the diagnostic context attached to a log line.
type Fields map[string]interface{}

// Entry is a logger bound to a set of fields.
type Entry struct {
	fields Fields
}

// WithFields returns an Entry that appends the given fields to every line.
func WithFields(f Fields) *Entry {
	return &Entry{fields: f}
}

// WithFields returns a new Entry holding the receiver's fields merged with f.
func (e *Entry) WithFields(f Fields) *Entry {
	merged := make(Fields, len(e.fields)+len(f))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}
	return &Entry{fields: merged}
}

// Fields returns a copy of the entry's fields.
func (e *Entry) Fields() Fields {
	out := make(Fields, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

func (e *Entry) suffix() string {
	if e == nil || len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		v := fmt.Sprint(e.fields[k])
		if strings.ContainsAny(v, " \t\n\"=") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	return b.String()
}

func (e *Entry) logf(l Level, name, format string, v ...interface{}) {
	if !shouldLog(l) {
		return
	}
	logger.Print(header(name) + fmt.Sprintf(format, v...) + e.suffix())
}

func (e *Entry) Debugf(format string, v ...interface{}) { e.logf(LevelDebug, "debug", format, v...) }
func (e *Entry) Infof(format string, v ...interface{})  { e.logf(LevelInfo, "info", format, v...) }
func (e *Entry) Warnf(format string, v ...interface{})  { e.logf(LevelWarn, "warn", format, v...) }
func (e *Entry) Errorf(format string, v ...interface{}) { e.logf(LevelError, "error", format, v...) }

func Debugf(format string, v ...interface{}) {
	if !shouldLog(LevelDebug) {
		return
	}
	logger.Printf(header("debug")+format, v...)
}

func Infof(format string, v ...interface{}) {
	if !shouldLog(LevelInfo) {
		return
	}
	logger.Printf(header("info")+format, v...)
}

func Warnf(format string, v ...interface{}) {
	if !shouldLog(LevelWarn) {
		return
	}
	logger.Printf(header("warn")+format, v...)
}

func Errorf(format string, v ...interface{}) {
	if !shouldLog(LevelError) {
		return
	}
	logger.Printf(header("error")+format, v...)
}

func Fatalf(format string, v ...interface{}) {
	logger.Printf(header("fatal")+format, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	if !shouldLog(LevelInfo) {
		return
	}
	logger.Print(header("info") + fmt.Sprintln(v...))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
