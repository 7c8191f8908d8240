package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "requestId"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		ForceColors:     true,
	})
}

// SetDebug toggles debug-level logging for the whole process.
func SetDebug(on bool) {
	if on {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// For returns a log entry carrying the request id from ctx, if any.
func For(ctx context.Context) *logrus.Entry {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("request_id", id)
}

func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Track logs the elapsed time of an operation; calls slower than 500ms
// are logged at WARN.
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())

		if dur > 500*time.Millisecond {
			entry.Warnf("%s completed (SLOW)", msg)
		} else {
			entry.Infof("%s completed", msg)
		}
	}
}
