package logging

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared service logger. Init must be called once at startup;
// until then it logs to stderr with defaults, which is what tests want.
var Logger = logrus.New()

// Init configures the shared logger for the given environment. In production
// output goes to a size-rotated file; everywhere else it stays on stderr so
// logs show up in the terminal and in container output.
func Init(service, environment, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	if environment == "production" {
		Logger.SetOutput(&lumberjack.Logger{
			Filename:   "logs/" + service + ".log",
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
		Logger.SetFormatter(&logrus.JSONFormatter{})
		return
	}

	Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithComponent returns an entry tagged with the originating component,
// e.g. "projects.service" or "identity.client".
func WithComponent(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}
