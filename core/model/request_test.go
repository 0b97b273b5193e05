package model

import (
	"errors"
	"testing"
	"time"
)

func validRequest() ChargeRequest {
	return ChargeRequest{
		TargetSoCPct:  80,
		CurrentSoCPct: 10,
		BatteryKWh:    60,
		ChargerRateKW: 7.4,
		Deadline:      time.Now().Add(8 * time.Hour),
	}
}

func TestChargeRequestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ChargeRequest)
		field  string
	}{
		{"target above 100", func(r *ChargeRequest) { r.TargetSoCPct = 101 }, "target_soc_pct"},
		{"current negative", func(r *ChargeRequest) { r.CurrentSoCPct = -1 }, "current_soc_pct"},
		{"current above target", func(r *ChargeRequest) { r.CurrentSoCPct = 90 }, "current_soc_pct"},
		{"zero battery", func(r *ChargeRequest) { r.BatteryKWh = 0 }, "battery_kwh"},
		{"negative rate", func(r *ChargeRequest) { r.ChargerRateKW = -7.4 }, "charger_rate_kw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestChargeRequestTargetEqualsCurrent(t *testing.T) {
	req := validRequest()
	req.CurrentSoCPct = req.TargetSoCPct
	if err := req.Validate(); err != nil {
		t.Fatalf("equal SoC should be valid: %v", err)
	}
	if got := req.EnergyNeededKWh(); got != 0 {
		t.Fatalf("EnergyNeededKWh = %v, want 0", got)
	}
}

func TestEnergyNeededKWh(t *testing.T) {
	req := validRequest()
	// 70% of 60 kWh
	if got := req.EnergyNeededKWh(); got != 42 {
		t.Fatalf("EnergyNeededKWh = %v, want 42", got)
	}
}
