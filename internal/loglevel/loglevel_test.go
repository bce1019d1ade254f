package loglevel

import (
	"log/slog"
	"testing"
)

func TestFromVerbosity(t *testing.T) {
	cases := []struct {
		count int
		want  slog.Level
	}{
		{0, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{4, LevelTrace},
		{5, LevelTrace},
		{100, LevelTrace},
		{-1, slog.LevelError},
	}

	for _, c := range cases {
		if got := FromVerbosity(c.count); got != c.want {
			t.Errorf("FromVerbosity(%d) = %v, want %v", c.count, got, c.want)
		}
	}
}
