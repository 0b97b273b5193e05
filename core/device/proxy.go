package device

import (
	"context"
	"fmt"
	"time"
)

// ProxyError wraps a transport, authentication or device failure from the
// schedule proxy. It is opaque to the planner and never retried here;
// the application layer decides whether to try again.
type ProxyError struct {
	Op       string
	DeviceID string
	Err      error
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("device proxy %s %s: %v", e.Op, e.DeviceID, e.Err)
}

func (e *ProxyError) Unwrap() error { return e.Err }

// BoostEntry is one schedule entry read back from the charger. Start is
// an offset from midnight on the scheduled day.
type BoostEntry struct {
	SlotID   int
	Start    time.Duration
	Duration time.Duration
	Days     string // eight character day-of-week mask
}

// ReadBack is the charger's view of its schedule plus the instantaneous
// charge draw, used to observe the ACTIVE state.
type ReadBack struct {
	Entries  []BoostEntry
	ChargeKW float64
}

// Proxy is the external collaborator that applies and reads schedules on
// the physical charger. Implementations own authentication, timeouts and
// any retrying; callers must tolerate a propagation delay of minutes
// between a set and the read-back reflecting it.
type Proxy interface {
	GetSchedule(ctx context.Context, deviceID string) (ReadBack, error)
	SetSchedule(ctx context.Context, deviceID string, enc EncodedSchedule) error
	ClearSchedule(ctx context.Context, deviceID string) error
}
