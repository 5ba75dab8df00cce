package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance. Until Init is called it discards everything.
var Logger = zerolog.Nop()

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// LookupLevel maps a config/flag string to a Level. ok is false for
// anything that is not a known level name.
func LookupLevel(s string) (level Level, ok bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel, true
	case InfoLevel:
		return InfoLevel, true
	case WarnLevel, "warning":
		return WarnLevel, true
	case ErrorLevel:
		return ErrorLevel, true
	default:
		return InfoLevel, false
	}
}

// ParseLevel maps a config/flag string to a Level, defaulting to info
func ParseLevel(s string) Level {
	level, _ := LookupLevel(s)
	return level
}

// Init initializes the global logger.
// Output defaults to stderr so that diagram text on stdout stays clean.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()
	}
}

// WithComponent creates a child logger with component field
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
