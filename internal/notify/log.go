package notify

import (
	"log/slog"
	"time"
)

// Log writes pass notifications to the structured log.
type Log struct {
	log *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{log: logger}
}

func (l *Log) OnWaitStart(object string, wake time.Time) {
	l.log.Info("Waiting for pass", "object", object, "wake", wake.UTC().Format(time.RFC3339))
}

func (l *Log) OnTrackingStart(object string) {
	l.log.Info("Tracking started", "object", object)
}

func (l *Log) OnTrackingEnd(object string) {
	l.log.Info("Pass ended", "object", object)
}
