package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/contre95/photoimport/src/features/config"
	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger builds the console logger and, when a run log directory is
// configured, fans out to a JSON log file named after the run.
// The returned cleanup closes the run log file.
func SetupLogger(cfg *config.Manager, runID string, verbose bool) (*slog.Logger, func() error) {
	level := parseLevel(cfg.Get().Logger.Level)
	if verbose {
		level = log.DebugLevel
	}
	console := newConsoleHandler(os.Stderr, cfg.Get().Logger.Format, level)

	logDir := cfg.Get().Logger.RunLogDir
	if logDir == "" {
		return slog.New(console), func() error { return nil }
	}

	file, path, err := openRunLog(logDir, runID)
	if err != nil {
		logger := slog.New(console)
		logger.Warn("failed to open run log, using stderr only", "error", err, "dir", logDir)
		return logger, func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slogLevel(level)})
	logger := slog.New(slogmulti.Fanout(console, fileHandler)).With("run_id", runID)
	logger.Debug("Logger initialized", "time", time.Now().Format(time.RFC3339), "run_log", path)
	return logger, file.Close
}

func newConsoleHandler(w io.Writer, format string, level log.Level) *log.Logger {
	var formatter log.Formatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "photoimport",
		Formatter:       formatter,
		Level:           level,
	})
}

func openRunLog(dir, runID string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}
	logName := fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), runID)
	logPath := filepath.Join(dir, logName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}
	return f, logPath, nil
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func slogLevel(l log.Level) slog.Level {
	switch l {
	case log.DebugLevel:
		return slog.LevelDebug
	case log.WarnLevel:
		return slog.LevelWarn
	case log.ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
