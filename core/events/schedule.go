package events

import (
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// ScheduleEvent is published on every schedule lifecycle transition.
// Subscribers include the MQTT announcer and the metrics recorder.
type ScheduleEvent struct {
	DeviceID   string
	ScheduleID string
	State      model.ScheduleState
	Time       time.Time
}
