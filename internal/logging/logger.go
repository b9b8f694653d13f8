package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Initialize sets up the global logger. A nil writer logs to stderr so command
// output on stdout stays clean.
func Initialize(isDevelopment bool, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if w == nil {
		w = os.Stderr
	}

	output := w
	if isDevelopment {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}

	logger := zerolog.New(output).With().Timestamp()
	if isDevelopment {
		logger = logger.Caller()
	}
	log.Logger = logger.Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if isDevelopment {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// GetLogger returns a logger with the component field set
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// SetLogLevel sets the global log level. Unknown or empty levels fall back to info.
func SetLogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}
