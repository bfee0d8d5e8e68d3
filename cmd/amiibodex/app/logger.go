package app

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/brookstreetgames/amiibodex/pkg/logging"
)

// SetupLogger configures the global logger from config.
func SetupLogger(cfg *Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = logging.New(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}

	logging.SetDefault(logger.Level(level))
}
