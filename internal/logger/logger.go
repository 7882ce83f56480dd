package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// В development используется текстовый формат, иначе JSON.
func Init(env string) *logrus.Logger {
	Log = logrus.New()

	if env == "development" {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	return Log
}

// Component возвращает запись лога с полем component.
// Если логгер ещё не инициализирован, используется стандартный логгер logrus.
func Component(name string) *logrus.Entry {
	if Log == nil {
		return logrus.StandardLogger().WithField("component", name)
	}
	return Log.WithField("component", name)
}
