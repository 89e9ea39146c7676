package entity

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// TimeWindow is a half-open [Start, End) interval on a single calendar day,
// expressed in minutes since local midnight. Windows never span midnight.
type TimeWindow struct {
	StartMinutes int `json:"start_minutes"`
	EndMinutes   int `json:"end_minutes"`
}

// NewTimeWindow validates the non-empty, within-day invariant. Callers must
// reject invalid windows at the boundary; the scheduler assumes them valid.
func NewTimeWindow(startMinutes, endMinutes int) (TimeWindow, error) {
	if startMinutes < 0 || endMinutes > minutesPerDay {
		return TimeWindow{}, fmt.Errorf("window %d-%d outside day bounds", startMinutes, endMinutes)
	}
	if endMinutes <= startMinutes {
		return TimeWindow{}, fmt.Errorf("window end %d must be after start %d", endMinutes, startMinutes)
	}
	return TimeWindow{StartMinutes: startMinutes, EndMinutes: endMinutes}, nil
}

// Start returns the window start as HH:MM.
func (w TimeWindow) Start() string {
	return FormatClock(w.StartMinutes)
}

// End returns the window end as HH:MM.
func (w TimeWindow) End() string {
	return FormatClock(w.EndMinutes)
}

// ParseClock converts "HH:MM" (or "HH:MM:SS", as Postgres returns TIME
// columns) to minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}

	return hours*60 + minutes, nil
}

// FormatClock converts minutes since midnight to HH:MM. 24:00 is rendered for
// a window ending exactly at midnight.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseTimeWindow builds a validated window from HH:MM boundary values.
func ParseTimeWindow(start, end string) (TimeWindow, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, err
	}
	return NewTimeWindow(startMin, endMin)
}
