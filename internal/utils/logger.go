package utils

import (
	"strings" // Level normalisation

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// ConfigureLogger sets the global logrus formatter and level.
// Production logs are JSON, development logs are human readable.
func ConfigureLogger(isProd bool, level string) {
	if isProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel // Unknown levels fall back to info
	}
	logrus.SetLevel(lvl)
}
