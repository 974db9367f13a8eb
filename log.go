package shift

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////////////
// Logging
///////////////////////////////////////////////////////////////////////////////

// The engine logs nothing by default. Config.Verbosity gates how much
// detail construction calls emit through the package logger: 1 maps to
// info, 2 to debug, 3 to trace with full value dumps.

var _logger = zerolog.Nop()

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) { _logger = l }

// ConsoleLogger returns a human-readable stderr logger, handy while
// debugging schemas with Verbosity > 0.
func ConsoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func logInfo(cfg Config, format string, args ...any) {
	if cfg.Verbosity >= VerbosityInfo {
		_logger.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func logDebug(cfg Config, format string, args ...any) {
	if cfg.Verbosity >= VerbosityDebug {
		_logger.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

// logTrace dumps a value alongside the message at the highest verbosity.
func logTrace(cfg Config, v any, format string, args ...any) {
	if cfg.Verbosity >= VerbosityTrace {
		_logger.Trace().
			Str("value", spew.Sdump(v)).
			Msg(fmt.Sprintf(format, args...))
	}
}
