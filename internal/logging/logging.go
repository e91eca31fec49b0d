// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogFileMB   = 5
	maxLogBackups  = 3
	fileLevel      = slog.LevelDebug
	schedulerGroup = "scheduler"
)

// Setup builds a logger writing text to console at level and, when logFile is
// set, JSON at debug level to a size-rotated file. The returned closer
// releases the file and must be called on shutdown.
func Setup(console io.Writer, level slog.Level, logFile string) (*slog.Logger, io.Closer) {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	if logFile == "" {
		return slog.New(consoleHandler), io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxLogFileMB,
		MaxBackups: maxLogBackups,
	}
	fileHandler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: fileLevel})

	return slog.New(slogmulti.Fanout(consoleHandler, fileHandler)), rotator
}

// CronLogger adapts logger to the cron.Logger interface. Routine scheduler
// chatter is logged at debug level.
func CronLogger(logger *slog.Logger) cron.Logger {
	return cronLogger{logger: logger.WithGroup(schedulerGroup)}
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
