package util

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// SetCliLoggerDefaults configures zerolog for interactive use. Setting
// GARDENER_LOG_JSON keeps the raw JSON output, which is what a daemon behind a
// log shipper wants instead of the console writer.
func SetCliLoggerDefaults() {
	zerolog.TimeFieldFormat = time.RFC3339

	if os.Getenv("GARDENER_LOG_JSON") != "" {
		return
	}

	log.Logger = log.Logger.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    false,
		TimeFormat: time.RFC3339,
	}).With().Logger()
}

func SetCliLogLevel(c *cli.Command) {
	switch {
	case c.Bool("very-verbose"):
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case c.Bool("verbose"):
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
