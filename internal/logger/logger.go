// Package logger is a small structured logging facade used by the CLI and
// library packages. Library code only emits debug records; nothing is
// written until Init has been called.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Params configures the console backend.
type Params struct {
	Debug  bool
	Output io.Writer
}

var (
	mu       sync.RWMutex
	instance *log.Logger
)

// Init installs the console backend. Calling it again replaces the backend.
func Init(params Params) {
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "polypot",
	})

	mu.Lock()
	instance = l
	mu.Unlock()
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Error(message, keyvals...)
	}
}
