package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// В production используется JSON формат, в development — текстовый.
func Init(level string, development bool) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if development {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// WithComponent возвращает entry с полем component для логов подсистем.
func WithComponent(name string) *logrus.Entry {
	if Log == nil {
		Init("info", false)
	}
	return Log.WithField("component", name)
}
