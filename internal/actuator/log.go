package actuator

import "log/slog"

// Log is a dry-run driver that logs commands instead of driving hardware.
// Useful on development machines without a PWM controller.
type Log struct {
	log *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{log: logger}
}

func (l *Log) Point(azimuth, elevation float64) error {
	l.log.Info("Pointing mount", "azimuth", azimuth, "elevation", elevation)
	return nil
}

func (l *Log) Park() error {
	l.log.Info("Parking mount")
	return nil
}
