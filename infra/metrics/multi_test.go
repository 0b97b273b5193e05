package metrics

import (
	"testing"

	coremetrics "github.com/pjaos/chargeplan/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordPlan(coremetrics.PlanEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordProxyCall(coremetrics.ProxyEvent) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPlan(coremetrics.PlanEvent{}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordProxyCall(coremetrics.ProxyEvent{}); err != nil {
		t.Fatalf("record proxy call: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
}

func TestBuildNothingEnabled(t *testing.T) {
	sink, err := Build(coremetrics.Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", sink)
	}
}
