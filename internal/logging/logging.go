// Package logging provides the slog-based logging fan-out for the scenario
// runner, plus the zerolog instance used by the database and influx layers.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath builds a run log file path using OS-appropriate separators.
func LogFilePath(logsDir, appName string, runStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, runStart.Format("20060102_150405")),
	)
}

// NewZerolog creates the zerolog logger handed to components that log
// through zerolog rather than slog.
func NewZerolog(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
