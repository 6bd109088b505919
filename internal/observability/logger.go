package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerOptions shape the console logger installed by InitLogger.
type LoggerOptions struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Out       io.Writer
}

func InitLogger(app string, opts LoggerOptions) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}
	if !opts.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(output).With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	if app != "" {
		ctx = ctx.Str("app", app)
	}
	logger := ctx.Logger().Level(opts.Level)
	zerolog.SetGlobalLevel(opts.Level)
	log.Logger = logger
	return logger
}
