package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger and returns it.
// format is "json", "console" or "auto" (console when stderr is a terminal).
func Setup(level, format string) zerolog.Logger {
	logger := New(os.Stderr, level, format, isatty.IsTerminal(os.Stderr.Fd()))
	log.Logger = logger
	zerolog.SetGlobalLevel(logger.GetLevel())
	return logger
}

func New(w io.Writer, level, format string, tty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := w
	switch strings.ToLower(format) {
	case "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !tty}
	case "json":
	default:
		if tty {
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
