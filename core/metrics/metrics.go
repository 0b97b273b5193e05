package metrics

import "time"

// PlanEvent captures one optimizer run for observability purposes.
type PlanEvent struct {
	ScheduleID     string
	DeviceID       string
	Slots          int
	EnergyKWh      float64
	Cost           float64
	MeanPriceKWh   float64
	UnderDelivered bool
	Shortfall      int
	Time           time.Time
}

// ProxyEvent captures one call to the device schedule proxy.
type ProxyEvent struct {
	Op       string // "get", "set" or "clear"
	DeviceID string
	Error    string
	Latency  time.Duration
	Time     time.Time
}

// MetricsSink records planning and proxy events.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
	RecordProxyCall(ev ProxyEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error       { return nil }
func (NopSink) RecordProxyCall(ProxyEvent) error { return nil }
