package plan

import (
	"math"
	"testing"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

func slotsAt(start time.Time, prices ...float64) []model.Slot {
	slots := make([]model.Slot, 0, len(prices))
	for i, p := range prices {
		slots = append(slots, model.Slot{
			Start:    start.Add(time.Duration(i) * 15 * time.Minute),
			Duration: 15 * time.Minute,
			Price:    p,
		})
	}
	return slots
}

func TestSelectPicksCheapest(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.30, 0.07, 0.25, 0.05)
	sched := Select(candidates, 2, 7.4)
	if len(sched.Slots) != 2 {
		t.Fatalf("len(Slots) = %d", len(sched.Slots))
	}
	// chronological output, cheapest two picked
	if sched.Slots[0].Price != 0.07 || sched.Slots[1].Price != 0.05 {
		t.Fatalf("picked %v", sched.Slots)
	}
	if !sched.Slots[0].Start.Before(sched.Slots[1].Start) {
		t.Fatalf("slots not chronological")
	}
	if sched.UnderDelivered {
		t.Fatalf("unexpected under-delivery")
	}
}

func TestSelectTieBreaksOnStartTime(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.1, 0.1, 0.1, 0.1)
	sched := Select(candidates, 2, 7.4)
	// uniform prices select the earliest slots
	if !sched.Slots[0].Start.Equal(start) || !sched.Slots[1].Start.Equal(start.Add(15*time.Minute)) {
		t.Fatalf("tie break wrong: %v", sched.Slots)
	}
}

func TestSelectDeterministic(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.2, 0.1, 0.1, 0.3)
	a := Select(candidates, 2, 7.4)
	b := Select(candidates, 2, 7.4)
	for i := range a.Slots {
		if !a.Slots[i].Start.Equal(b.Slots[i].Start) {
			t.Fatalf("selection not deterministic")
		}
	}
}

func TestSelectUnderDelivered(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.1, 0.2, 0.1, 0.2, 0.1, 0.2, 0.1, 0.2, 0.1, 0.2)
	sched := Select(candidates, 23, 7.4)
	if !sched.UnderDelivered {
		t.Fatalf("expected under-delivery")
	}
	if sched.Shortfall != 13 {
		t.Fatalf("Shortfall = %d, want 13", sched.Shortfall)
	}
	if len(sched.Slots) != 10 {
		t.Fatalf("len(Slots) = %d, want the whole pool", len(sched.Slots))
	}
}

func TestSelectFreeSlotsFirst(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.05, -0.01, 0.30)
	candidates[2].Price = model.FreePrice
	candidates[2].Free = true
	sched := Select(candidates, 1, 7.4)
	if !sched.Slots[0].Free {
		t.Fatalf("free slot should beat even negative prices: %v", sched.Slots)
	}
	if sched.TotalCost != 0 {
		t.Fatalf("free-only schedule cost = %v, want 0", sched.TotalCost)
	}
}

func TestSelectTotals(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.1, 0.2)
	sched := Select(candidates, 2, 7.4)
	wantEnergy := 2 * 7.4 * 0.25
	if math.Abs(sched.TotalEnergyKWh-wantEnergy) > 1e-9 {
		t.Fatalf("TotalEnergyKWh = %v, want %v", sched.TotalEnergyKWh, wantEnergy)
	}
	wantCost := 0.1*7.4*0.25 + 0.2*7.4*0.25
	if math.Abs(sched.TotalCost-wantCost) > 1e-9 {
		t.Fatalf("TotalCost = %v, want %v", sched.TotalCost, wantCost)
	}
}

func TestSelectZeroCount(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	sched := Select(slotsAt(start, 0.1, 0.2), 0, 7.4)
	if !sched.Empty() {
		t.Fatalf("expected empty schedule")
	}
	if sched.UnderDelivered {
		t.Fatalf("zero demand is not under-delivery")
	}
}

func TestSelectDoesNotMutateCandidates(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.3, 0.1, 0.2)
	Select(candidates, 2, 7.4)
	for i, want := range []float64{0.3, 0.1, 0.2} {
		if candidates[i].Price != want {
			t.Fatalf("candidate pool mutated: %v", candidates)
		}
	}
}

func TestSummarise(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.1, 0.2, 0.3)
	sched := Select(candidates, 2, 7.4)
	sum := Summarise(sched, candidates)
	if math.Abs(sum.MeanPriceKWh-0.2) > 1e-9 {
		t.Fatalf("MeanPriceKWh = %v, want 0.2", sum.MeanPriceKWh)
	}
	if sum.ChargeMinutes != 30 {
		t.Fatalf("ChargeMinutes = %d, want 30", sum.ChargeMinutes)
	}
	if sum.Savings <= 0 {
		t.Fatalf("picking below-mean slots must save money, got %v", sum.Savings)
	}
}

func TestSummariseExcludesFreeSlotsFromMean(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	candidates := slotsAt(start, 0.1, 0.3)
	candidates = append(candidates, model.Slot{
		Start:    start.Add(30 * time.Minute),
		Duration: 15 * time.Minute,
		Price:    model.FreePrice,
		Free:     true,
	})
	sched := Select(candidates, 1, 7.4)
	sum := Summarise(sched, candidates)
	if math.Abs(sum.MeanPriceKWh-0.2) > 1e-9 {
		t.Fatalf("MeanPriceKWh = %v, sentinel leaked into the mean", sum.MeanPriceKWh)
	}
}
