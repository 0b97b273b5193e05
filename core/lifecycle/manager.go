package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/pjaos/chargeplan/core/device"
	"github.com/pjaos/chargeplan/core/events"
	"github.com/pjaos/chargeplan/core/logger"
	"github.com/pjaos/chargeplan/core/metrics"
	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/internal/eventbus"
)

// The charger reports a draw above this when an EV is actually charging;
// below it the reading is standby noise.
const activeChargeKW = 1.4

// Manager owns the schedule lifecycle for every known charger. The
// planner produces CALCULATED schedules; user confirmation moves them to
// SET through the device proxy; ACTIVE and COMPLETE are only ever
// observed via read-back. Mutations (set, clear) are serialized per
// device so concurrent writes never race on the vendor backend, while
// read-backs proceed without queueing.
type Manager struct {
	proxy device.Proxy
	bus   eventbus.EventBus
	sink  metrics.MetricsSink
	log   logger.Logger
	clock func() time.Time

	mu      sync.Mutex
	devices map[string]*deviceSchedule
}

type deviceSchedule struct {
	opMu     sync.Mutex // serializes SET/CLEAR; a CLEAR queues behind a pending SET
	state    model.ScheduleState
	schedule model.Schedule
}

// NewManager creates a lifecycle manager. The bus and sink may be nil.
func NewManager(proxy device.Proxy, bus eventbus.EventBus, sink metrics.MetricsSink, log logger.Logger) *Manager {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		proxy:   proxy,
		bus:     bus,
		sink:    sink,
		log:     log,
		clock:   time.Now,
		devices: make(map[string]*deviceSchedule),
	}
}

func (m *Manager) device(id string) *deviceSchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[id]
	if !ok {
		d = &deviceSchedule{state: model.StateUnset}
		m.devices[id] = d
	}
	return d
}

func (m *Manager) transition(deviceID string, d *deviceSchedule, to model.ScheduleState) {
	m.mu.Lock()
	d.state = to
	scheduleID := d.schedule.ID
	m.mu.Unlock()
	if m.log != nil {
		m.log.Infof("schedule %s on %s -> %s", scheduleID, deviceID, to)
	}
	if m.bus != nil {
		m.bus.Publish(events.ScheduleEvent{
			DeviceID:   deviceID,
			ScheduleID: scheduleID,
			State:      to,
			Time:       m.clock(),
		})
	}
}

// State returns the current lifecycle state for the device.
func (m *Manager) State(deviceID string) model.ScheduleState {
	d := m.device(deviceID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return d.state
}

// Schedule returns the stored schedule for the device, if any.
func (m *Manager) Schedule(deviceID string) (model.Schedule, bool) {
	d := m.device(deviceID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return d.schedule, d.state != model.StateUnset && d.state != model.StateCleared
}

// Calculated stores a freshly computed schedule. Purely local; no device
// call is made until Set.
func (m *Manager) Calculated(deviceID string, sched model.Schedule) {
	d := m.device(deviceID)
	m.mu.Lock()
	d.schedule = sched
	m.mu.Unlock()
	m.transition(deviceID, d, model.StateCalculated)
}

// Set encodes the stored schedule and hands it to the device proxy. On
// proxy failure the state remains CALCULATED and the error is returned
// unchanged; retrying is the caller's decision.
func (m *Manager) Set(ctx context.Context, deviceID string) error {
	d := m.device(deviceID)
	d.opMu.Lock()
	defer d.opMu.Unlock()

	m.mu.Lock()
	state := d.state
	sched := d.schedule
	m.mu.Unlock()
	if state != model.StateCalculated && state != model.StateSet {
		return model.Validationf("schedule", "no calculated schedule to set for %s (state %s)", deviceID, state)
	}

	enc, err := device.Encode(sched)
	if err != nil {
		return err
	}
	start := m.clock()
	err = m.proxy.SetSchedule(ctx, deviceID, enc)
	m.recordProxy("set", deviceID, start, err)
	if err != nil {
		return err
	}
	m.transition(deviceID, d, model.StateSet)
	return nil
}

// Observe reads the device schedule back and reflects the externally
// owned states. ACTIVE means the charger is drawing power inside a
// scheduled window; COMPLETE means the window has elapsed. Read-backs
// are not serialized against pending mutations.
func (m *Manager) Observe(ctx context.Context, deviceID string) (model.ScheduleState, device.ReadBack, error) {
	d := m.device(deviceID)
	start := m.clock()
	rb, err := m.proxy.GetSchedule(ctx, deviceID)
	m.recordProxy("get", deviceID, start, err)
	if err != nil {
		return m.State(deviceID), device.ReadBack{}, err
	}

	m.mu.Lock()
	state := d.state
	sched := d.schedule
	m.mu.Unlock()

	switch state {
	case model.StateSet, model.StateActive:
		now := m.clock()
		_, windowEnd := sched.Window()
		if !windowEnd.IsZero() && now.After(windowEnd) {
			m.transition(deviceID, d, model.StateComplete)
			return model.StateComplete, rb, nil
		}
		if state == model.StateSet && rb.ChargeKW >= activeChargeKW && m.inScheduledWindow(sched, now) {
			m.transition(deviceID, d, model.StateActive)
			return model.StateActive, rb, nil
		}
	}
	return state, rb, nil
}

func (m *Manager) inScheduledWindow(sched model.Schedule, now time.Time) bool {
	for _, s := range sched.Slots {
		if !now.Before(s.Start) && now.Before(s.End()) {
			return true
		}
	}
	return false
}

// Clear removes the schedule from the device. Clearing an already clear
// device is a no-op, not an error, so the operation is safe to repeat.
func (m *Manager) Clear(ctx context.Context, deviceID string) error {
	d := m.device(deviceID)
	d.opMu.Lock()
	defer d.opMu.Unlock()

	m.mu.Lock()
	state := d.state
	m.mu.Unlock()
	if state == model.StateUnset || state == model.StateCleared {
		return nil
	}

	start := m.clock()
	err := m.proxy.ClearSchedule(ctx, deviceID)
	m.recordProxy("clear", deviceID, start, err)
	if err != nil {
		return err
	}
	m.transition(deviceID, d, model.StateCleared)
	return nil
}

func (m *Manager) recordProxy(op, deviceID string, start time.Time, err error) {
	ev := metrics.ProxyEvent{
		Op:       op,
		DeviceID: deviceID,
		Latency:  m.clock().Sub(start),
		Time:     start,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if rerr := m.sink.RecordProxyCall(ev); rerr != nil && m.log != nil {
		m.log.Warnf("metrics sink: %v", rerr)
	}
}
