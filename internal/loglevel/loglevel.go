// Package loglevel maps a repeated -v/-vv CLI flag count onto a
// log/slog verbosity level.
package loglevel

import "log/slog"

// LevelTrace sits one step below slog's built-in Debug level. slog has
// no native Trace tier, so it is synthesized here to keep the same
// five-level ladder the CLI has always offered.
const LevelTrace = slog.Level(-8)

var levels = []slog.Level{
	slog.LevelError,
	slog.LevelWarn,
	slog.LevelInfo,
	slog.LevelDebug,
	LevelTrace,
}

// FromVerbosity maps a -v occurrence count to a slog level: 0 selects
// Error, 1 Warn, 2 Info, 3 Debug, and 4 or more selects Trace.
func FromVerbosity(count int) slog.Level {
	if count < 0 {
		count = 0
	}
	if count >= len(levels) {
		count = len(levels) - 1
	}
	return levels[count]
}
