package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger construit le logger partagé. format: "json" (défaut) ou "text".
func NewLogger(level, format string) *logrus.Logger {
	return NewLoggerWithOutput(level, format, os.Stdout)
}

func NewLoggerWithOutput(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = out

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl

	if strings.EqualFold(format, "text") {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
		return log
	}
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	return log
}
