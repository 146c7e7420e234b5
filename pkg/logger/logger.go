// Package logger builds the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout. Outside development it emits JSON.
func New(env, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
