package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stderr
	level            = slog.Level(1000) // Very high level to disable all logging by default
	logger *slog.Logger
)

func init() {
	rebuild()
}

func rebuild() {
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Info(format string, args ...any) {
	current().Info(fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) {
	current().Debug(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...any) {
	current().Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...any) {
	current().Error(fmt.Sprintf(format, args...))
}

func SetLevel(l slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	rebuild()
}

// SetOutput redirects log output, mostly so tests can capture it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}
