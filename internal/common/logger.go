package common

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"campusbingo/internal/config"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger from LoggingConfig. The text format is colorized with tint,
// json goes through the standard JSON handler.
func NewLogger(cfg *config.Config) (*slog.Logger, error) {
	out, err := logOutput(cfg.Logging.OutputPath)
	if err != nil {
		return nil, err
	}
	level := ParseLevel(cfg.Logging.Level)

	var handler slog.Handler
	switch strings.ToLower(cfg.Logging.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    out != os.Stdout && out != os.Stderr,
		})
	}
	return slog.New(handler), nil
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logOutput(path string) (io.Writer, error) {
	switch path {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}
