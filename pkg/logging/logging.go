package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates the service-wide zerolog logger. Unknown levels fall back to
// info rather than failing startup.
func New(service, level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			lvl = parsed
		}
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Level(lvl)
}
