package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dotse/slug"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// ParseLevel accepts a level name in any case. Unknown names fall back to Info.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Debug, Info, Warn, Error:
		return l
	default:
		return Info
	}
}

// ToSlogLevel maps our levels to the equivalent slog level.
func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// MustCreateLogger installs the default slog logger. Records always go to
// stderr; when logPath is set they are also appended to that file.
//
// Returns a cleanup function which should be called on program shutdown.
//
// Panics on failure to open the log file for writing.
func MustCreateLogger(logPath string, level Level) func() {
	var (
		closer = func() {}
		opts   = slug.HandlerOptions{
			HandlerOptions: slog.HandlerOptions{
				Level: ToSlogLevel(level),
			},
		}
		handlers = []slog.Handler{slug.NewHandler(opts, os.Stderr)}
	)

	if logPath != "" {
		logFile, errLogFile := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if errLogFile != nil {
			panic(fmt.Sprintf("Failed to open logfile: %v", errLogFile))
		}

		closer = func() {
			if errClose := logFile.Close(); errClose != nil {
				panic(fmt.Sprintf("Failed to close log file: %v", errClose))
			}
		}

		handlers = append(handlers, slug.NewHandler(opts, logFile))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))

	return closer
}

// Closer closes closer and logs the error instead of returning it, for use
// in defer statements.
func Closer(closer io.Closer) {
	if errClose := closer.Close(); errClose != nil {
		slog.Error("Failed to close", slog.String("error", errClose.Error()))
	}
}
