package plan

import (
	"testing"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

func TestSlotsNeeded(t *testing.T) {
	req := model.ChargeRequest{
		TargetSoCPct:  80,
		CurrentSoCPct: 10,
		BatteryKWh:    60,
		ChargerRateKW: 7.4,
	}
	// 42 kWh at 1.85 kWh per 15 minute slot rounds up to 23 slots
	if got := SlotsNeeded(req, 15*time.Minute); got != 23 {
		t.Fatalf("SlotsNeeded = %d, want 23", got)
	}
}

func TestSlotsNeededExactFit(t *testing.T) {
	req := model.ChargeRequest{
		TargetSoCPct:  50,
		CurrentSoCPct: 0,
		BatteryKWh:    7.4,
		ChargerRateKW: 7.4,
	}
	// 3.7 kWh is exactly two 15 minute slots, no rounding
	if got := SlotsNeeded(req, 15*time.Minute); got != 2 {
		t.Fatalf("SlotsNeeded = %d, want 2", got)
	}
}

func TestSlotsNeededMonotone(t *testing.T) {
	base := model.ChargeRequest{
		CurrentSoCPct: 10,
		BatteryKWh:    60,
		ChargerRateKW: 7.4,
	}

	// a bigger state-of-charge delta never needs fewer slots
	prev := 0
	for target := 10.0; target <= 100; target += 5 {
		req := base
		req.TargetSoCPct = target
		got := SlotsNeeded(req, 15*time.Minute)
		if got < prev {
			t.Fatalf("SlotsNeeded(target %.0f%%) = %d, less than %d for a smaller delta", target, got, prev)
		}
		prev = got
	}

	// a faster charger never needs more slots for the same delta
	req := base
	req.TargetSoCPct = 80
	rates := []float64{3.6, 7.4, 11, 22}
	req.ChargerRateKW = rates[0]
	prev = SlotsNeeded(req, 15*time.Minute)
	for _, rate := range rates[1:] {
		req.ChargerRateKW = rate
		got := SlotsNeeded(req, 15*time.Minute)
		if got > prev {
			t.Fatalf("SlotsNeeded(rate %.1f kW) = %d, more than %d at a slower rate", rate, got, prev)
		}
		prev = got
	}
}

func TestSlotsNeededZeroWhenCharged(t *testing.T) {
	req := model.ChargeRequest{
		TargetSoCPct:  80,
		CurrentSoCPct: 80,
		BatteryKWh:    60,
		ChargerRateKW: 7.4,
	}
	if got := SlotsNeeded(req, 15*time.Minute); got != 0 {
		t.Fatalf("SlotsNeeded = %d, want 0", got)
	}
}
