package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rmera/trjstat/internal/config"
	"github.com/rs/zerolog"
)

//New creates a logger from configuration. If the output is a file, it is
//opened for appending and stays open for the life of the process.
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	switch cfg.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		logDir := filepath.Dir(cfg.Output)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
		}
		output = file
	}
	return NewWithWriter(output, cfg.Format, level), nil
}

//NewWithWriter creates a logger writing to w, in JSON or, if format is
//"console", in a human-readable form.
func NewWithWriter(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format == "console" || format == "pretty" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
