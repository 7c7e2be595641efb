package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logFile *os.File

// Init configures the global zerolog logger from the environment:
// LOG_LEVEL (debug/info/warn/...), LOG_FORMAT=pretty for console output,
// LOG_FILE to additionally append to a file. Logs go to stderr so the
// simulator's tables stay clean on stdout.
func Init() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer
	if os.Getenv("LOG_FORMAT") == "pretty" {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		writers = append(writers, os.Stderr)
	}

	if path := os.Getenv("LOG_FILE"); path != "" && path != "none" && path != "disabled" {
		logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open log file, using console only")
			logFile = nil
		} else {
			writers = append(writers, logFile)
		}
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().
		Timestamp().
		Logger()

	log.Info().Str("log_level", level.String()).Msg("Logger initialized")
}

func Close() {
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
	}
}
