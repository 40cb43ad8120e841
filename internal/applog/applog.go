// Package applog writes tunedeck's log file.
//
// Lines look like
//
//	2025-10-08 21:01:05 INFO [fetch] – request finished status=200
//
// which is the layout the Logs view colourises.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	TimeFormat     = "2006-01-02 15:04:05"
	ComponentField = "component"
)

// Open returns a logger appending to path at the given level (debug, info,
// warn, error; blank means info). An empty path logs nowhere. The returned
// closer must be closed on shutdown.
func Open(path, level string) (zerolog.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	return New(file, lvl), file, nil
}

// New builds a logger writing the plain-text layout to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(consoleWriter(w)).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str(ComponentField, name).Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: TimeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			ComponentField,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{ComponentField},
		FormatPrepare: func(evt map[string]interface{}) error {
			// Loggers without a component still get the part; an empty
			// value is skipped by the writer.
			c, _ := evt[ComponentField].(string)
			if c != "" {
				c = "[" + c + "]"
			}
			evt[ComponentField] = c
			return nil
		},
		FormatLevel: func(i interface{}) string {
			l, ok := i.(string)
			if !ok {
				return "INFO"
			}
			switch l {
			case "warning":
				return "WARN"
			case "fatal", "panic":
				return "ERROR"
			case "trace":
				return "DEBUG"
			}
			return strings.ToUpper(l)
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return "– " + fmt.Sprint(i)
		},
	}
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return lvl, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
