package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging configures the default slog logger. Output always goes to
// stderr; with file logging enabled it is mirrored to a rotating file under
// the XDG state directory.
func setupLogging(verbose, fileLogging bool, stderr io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	writers := []io.Writer{stderr}

	if fileLogging {
		logPath := logFilePath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			// Keep going with stderr only rather than failing the command.
			slog.Error("failed to create log directory", "path", filepath.Dir(logPath), "error", err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   logPath,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     30, // days
				Compress:   true,
			})
		}
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	slog.Debug("logging setup completed",
		"level", level.String(),
		"writers", len(writers))
}

// logFilePath returns the rotating log file location.
func logFilePath() string {
	return filepath.Join(xdg.StateHome, "vorbio", "vorbio.log")
}
