// internal/utils/logger.go
package utils

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
)

// ConfigureLogger sets up the global logrus logger. Production defaults to
// JSON output unless LOG_FORMAT says otherwise.
func ConfigureLogger(cfg config.LogConfig, production bool) {
	logrus.SetOutput(os.Stdout)

	format := cfg.Format
	if format == "" {
		format = "text"
		if production {
			format = "json"
		}
	}

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
