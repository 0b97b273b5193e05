package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/pjaos/chargeplan/core/metrics"
)

func TestPromSinkRecordPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	ev := coremetrics.PlanEvent{
		ScheduleID: "sched-1",
		DeviceID:   "zappi-1",
		Slots:      4,
		EnergyKWh:  7.4,
		Cost:       0.52,
		Time:       time.Now(),
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("RecordPlan: %v", err)
	}
	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.plans.WithLabelValues("zappi-1", "false")); got != 1 {
		t.Fatalf("plans counter = %v, want 1", got)
	}
}

func TestPromSinkRecordProxyCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	if err := sink.RecordProxyCall(coremetrics.ProxyEvent{Op: "set", DeviceID: "zappi-1", Latency: 120 * time.Millisecond}); err != nil {
		t.Fatalf("RecordProxyCall: %v", err)
	}
	if err := sink.RecordProxyCall(coremetrics.ProxyEvent{Op: "set", DeviceID: "zappi-1", Error: "boom"}); err != nil {
		t.Fatalf("RecordProxyCall: %v", err)
	}
	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.proxy.WithLabelValues("set", "ok")); got != 1 {
		t.Fatalf("ok counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ps.proxy.WithLabelValues("set", "error")); got != 1 {
		t.Fatalf("error counter = %v, want 1", got)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// registering twice must reuse the existing collectors
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}
