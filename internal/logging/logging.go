package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production gets JSON output.
func New(level string, production bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if production {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Component returns an entry tagged with the component name, falling back to the std logger.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		return logrus.WithField("component", name)
	}
	return logger.WithField("component", name)
}
