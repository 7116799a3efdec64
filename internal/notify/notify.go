package notify

import "time"

// Notifier receives pass lifecycle notifications. Implementations are
// fire-and-forget: they must return without blocking the control loop, and
// delivery failures are logged, never propagated.
type Notifier interface {
	OnWaitStart(object string, wake time.Time)
	OnTrackingStart(object string)
	OnTrackingEnd(object string)
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) OnWaitStart(object string, wake time.Time) {
	for _, n := range m {
		n.OnWaitStart(object, wake)
	}
}

func (m Multi) OnTrackingStart(object string) {
	for _, n := range m {
		n.OnTrackingStart(object)
	}
}

func (m Multi) OnTrackingEnd(object string) {
	for _, n := range m {
		n.OnTrackingEnd(object)
	}
}
