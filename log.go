package los

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// log is the package-wide structured logger. The source system opens a
// single global trace file and gates messages by an integer trace level
// (TraceOpen/TraceLevel/Trace); this is the same idea expressed with
// logrus fields and levels instead of a hand-rolled trace sink.
var log = logrus.New()

var logOnce sync.Once

// ConfigureLogging sets the package logger's level and output. Call once
// at process startup; safe to call multiple times, but only the first
// call takes effect and later calls are ignored.
func ConfigureLogging(level logrus.Level, formatter logrus.Formatter) {
	logOnce.Do(func() {
		log.SetLevel(level)
		if formatter != nil {
			log.SetFormatter(formatter)
		}
	})
}

func logError(op string, err error, fields logrus.Fields) {
	entry := log.WithField("op", op)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.WithError(err).Error("operation failed")
}

func logDebugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}
