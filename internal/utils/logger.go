package utils

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures InitLogger.
type LogOptions struct {
	// Level is a zerolog level name; empty means "info".
	Level string
	// File, when set, receives debug-level JSON lines with rotation.
	File string
}

// InitLogger points the global zerolog logger at stderr (human readable)
// and, optionally, at a rotating JSON log file.
// The returned cleanup closes the log file.
func InitLogger(opts LogOptions) (func(), error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	console := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
		TimeFormat: time.TimeOnly,
	}

	cleanup := func() {}
	var out io.Writer = console
	global := level

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // 10MB
			MaxBackups: 3,
			LocalTime:  true,
		}
		out = zerolog.MultiLevelWriter(
			levelFilter{w: console, min: level},
			levelFilter{w: lj, min: zerolog.DebugLevel},
		)
		global = min(level, zerolog.DebugLevel)
		cleanup = func() {
			if err := lj.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close log file")
			}
		}
	}

	zerolog.SetGlobalLevel(global)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return cleanup, nil
}

// levelFilter drops records below min before they reach w.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f levelFilter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}
