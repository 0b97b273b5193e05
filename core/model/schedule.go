package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleState tracks a schedule through its lifecycle. The first three
// states are owned locally; ACTIVE and COMPLETE are observed on the
// device via read-back, never decided here.
type ScheduleState int

const (
	StateUnset ScheduleState = iota
	StateCalculated
	StateSet
	StateActive
	StateComplete
	StateCleared
)

// String returns a human-readable representation of the state.
func (s ScheduleState) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateCalculated:
		return "calculated"
	case StateSet:
		return "set"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	case StateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Schedule is the ordered set of slots chosen by the optimizer together
// with the totals the dashboard displays. A schedule that cannot meet the
// requested energy inside the deadline is returned with UnderDelivered
// set rather than failing.
type Schedule struct {
	ID             string
	Slots          []Slot // ascending by start time
	TotalEnergyKWh float64
	TotalCost      float64
	UnderDelivered bool
	Shortfall      int // slots that could not be placed before the deadline
	CreatedAt      time.Time
}

// NewScheduleID returns a fresh schedule identifier.
func NewScheduleID() string { return uuid.NewString() }

// Empty reports whether the schedule contains no slots.
func (s Schedule) Empty() bool { return len(s.Slots) == 0 }

// Window returns the span from the first slot start to the last slot end.
// The zero time pair is returned for an empty schedule.
func (s Schedule) Window() (time.Time, time.Time) {
	if len(s.Slots) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.Slots[0].Start, s.Slots[len(s.Slots)-1].End()
}
