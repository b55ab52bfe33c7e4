package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Called once from main before
// anything else can log.
func Init() {
	// Human-readable console output; the site runs on a single small host,
	// so there is no JSON log pipeline to feed.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Caller annotations make the sparse error logs traceable.
	log.Logger = log.With().Caller().Logger()
}
