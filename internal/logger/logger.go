package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger: human-readable text in development, JSON elsewhere.
// Every entry carries the app and env fields.
func New(appName, env string) *logrus.Logger {
	return newWithOutput(appName, env, os.Stdout)
}

func newWithOutput(appName, env string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.AddHook(fieldsHook{"app": appName, "env": env})
	logger.Debug("logger initialized")
	return logger
}

// fieldsHook adds fixed fields without overriding ones set on the entry.
type fieldsHook logrus.Fields

func (h fieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h fieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}

// Discard is used by tests and tools that do not want log output.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
