// Package logger writes chatmodal diagnostics to a log file.
//
// The terminal belongs to the widget, so nothing is ever printed to stdout or
// stderr once the program is running. Callers either use the printf helpers
// (Debug, Info, Warn, Error) or take a structured *slog.Logger scoped to a
// component or a chat session.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LogLevel is the minimum severity written to the file.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var slogLevels = [...]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

func (l LogLevel) slogLevel() slog.Level {
	if l < 0 || int(l) >= len(slogLevels) {
		return slog.LevelInfo
	}
	return slogLevels[l]
}

// DefaultLogPath is where logs go when Init was never called.
const DefaultLogPath = "/tmp/chatmodal-debug.log"

// logGlob matches every log file chatmodal may have produced, including
// the ones written by serve-demo.
const logGlob = "/tmp/chatmodal-*.log"

// DemoLogPath is the log file of a standalone fake backend on port.
func DemoLogPath(port int) string {
	return fmt.Sprintf("/tmp/chatmodal-demo-%d.log", port)
}

// sink is the process-wide destination. opened is set once a file was
// tried, even if opening it failed.
type sink struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	log    *slog.Logger
	level  *slog.LevelVar
	min    LogLevel
	opened bool
}

var out = &sink{level: new(slog.LevelVar), min: LevelInfo}

// SetLevel drops everything below level.
func SetLevel(level LogLevel) {
	out.mu.Lock()
	out.min = level
	out.level.Set(level.slogLevel())
	out.mu.Unlock()
}

// SetDebug toggles between LevelDebug and LevelInfo.
func SetDebug(enabled bool) {
	level := LevelInfo
	if enabled {
		level = LevelDebug
	}
	SetLevel(level)
}

// Init appends all logging to path. Later calls do nothing until Reset.
func Init(path string) error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.opened {
		return nil
	}
	return out.open(path)
}

func (s *sink) open(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	s.file, s.path, s.opened = f, path, true
	s.level.Set(s.min.slogLevel())
	s.log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: s.level}))
	s.log.Info("logging started", "path", path)
	return nil
}

// logger returns the active slog logger, opening DefaultLogPath on first
// use. It is nil when no file could be opened. Callers hold s.mu.
func (s *sink) logger() *slog.Logger {
	if !s.opened {
		if err := s.open(DefaultLogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			s.opened = true
		}
	}
	return s.log
}

func (s *sink) close() {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.log = nil
}

func logf(level slog.Level, format string, args ...any) {
	out.mu.Lock()
	defer out.mu.Unlock()
	l := out.logger()
	if l == nil || !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { logf(slog.LevelDebug, format, args...) }
func Info(format string, args ...any) { logf(slog.LevelInfo, format, args...) }
func Warn(format string, args ...any) { logf(slog.LevelWarn, format, args...) }
func Error(format string, args ...any) { logf(slog.LevelError, format, args...) }

// Path is the file receiving logs, or "" before anything was logged.
func Path() string {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.path
}

// Close flushes and closes the log file. Later writes are dropped.
func Close() {
	out.mu.Lock()
	out.close()
	out.mu.Unlock()
}

// Reset returns the package to its initial state. Tests only.
func Reset() {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.close()
	out.path, out.opened = "", false
	out.min, out.level = LevelInfo, new(slog.LevelVar)
}

// LogFiles lists the chatmodal log files currently on disk.
func LogFiles() ([]string, error) {
	return filepath.Glob(logGlob)
}

// ClearLogs deletes every chatmodal log file and returns how many went.
func ClearLogs() (int, error) {
	paths, err := LogFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		switch err := os.Remove(p); {
		case err == nil:
			removed++
		case !os.IsNotExist(err):
			return removed, err
		}
	}
	return removed, nil
}

func tagged(attr slog.Attr) *slog.Logger {
	out.mu.Lock()
	defer out.mu.Unlock()
	if l := out.logger(); l != nil {
		return l.With(attr)
	}
	return slog.New(slog.DiscardHandler)
}

// WithComponent returns a logger tagged with the component name.
//
//	log := logger.WithComponent("history")
//	log.Debug("page loaded", "sessionID", sid, "page", n)
func WithComponent(component string) *slog.Logger {
	return tagged(slog.String("component", component))
}

// WithSession returns a logger tagged with a chat session id.
func WithSession(sessionID string) *slog.Logger {
	return tagged(slog.String("sessionID", sessionID))
}
