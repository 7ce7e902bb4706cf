package domain

import (
	"fmt"
	"time"
)

// The operating window of one simulated day. End doubles as the
// deadline of every end-of-day package.
type ServiceDay struct {
	Start time.Time
	End   time.Time
}

// NewServiceDay anchors start and end clock times on date.
func NewServiceDay(date time.Time, start, end string) (ServiceDay, error) {
	s, err := ClockAt(date, start)
	if err != nil {
		return ServiceDay{}, fmt.Errorf("service day start: %w", err)
	}
	e, err := ClockAt(date, end)
	if err != nil {
		return ServiceDay{}, fmt.Errorf("service day end: %w", err)
	}
	if !e.After(s) {
		return ServiceDay{}, fmt.Errorf("service day: end %s is not after start %s", end, start)
	}
	return ServiceDay{Start: s, End: e}, nil
}

// Clock anchors a time of day on this service day.
func (d ServiceDay) Clock(hhmm string) (time.Time, error) {
	return ClockAt(d.Start, hhmm)
}
