package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init reconfigures the global level and, when pretty is set, switches to the
// human-readable console writer for local development.
func Init(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
}

func Info(msg string, args ...any) {
	emit(log.Info(), msg, args)
}

func Warn(msg string, args ...any) {
	emit(log.Warn(), msg, args)
}

func Error(msg string, args ...any) {
	emit(log.Error(), msg, args)
}

func Fatal(msg string, args ...any) {
	emit(log.Fatal(), msg, args)
}

// emit accepts alternating key/value pairs; bare error values are attached
// under the standard "error" key so call sites can pass errors positionally.
func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); i++ {
		if err, ok := args[i].(error); ok {
			ev = ev.Err(err)
			continue
		}
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			ev = ev.Interface(key, args[i+1])
			i++
			continue
		}
		ev = ev.Str("arg", fmt.Sprintf("%v", args[i]))
	}
	ev.Msg(msg)
}
