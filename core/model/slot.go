package model

import (
	"math"
	"time"
)

// FreePrice is the sentinel price carried by slots inside a free-energy
// window. It sorts below any real tariff price, including negative
// day-ahead prices, so free slots are always picked first.
var FreePrice = math.Inf(-1)

// Slot is an atomic schedulable chunk of charging time with the tariff
// price in effect at its start. Slots are immutable once generated.
type Slot struct {
	Start    time.Time
	Duration time.Duration
	Price    float64 // per kWh
	Free     bool
}

// End returns the instant the slot finishes.
func (s Slot) End() time.Time { return s.Start.Add(s.Duration) }

// EnergyKWh returns the energy delivered over the slot at the given
// charger rate.
func (s Slot) EnergyKWh(rateKW float64) float64 {
	return rateKW * s.Duration.Hours()
}

// Cost returns the cost of charging through the slot at the given rate.
// Free slots cost nothing regardless of the sentinel price.
func (s Slot) Cost(rateKW float64) float64 {
	if s.Free {
		return 0
	}
	return s.Price * s.EnergyKWh(rateKW)
}

// FreeEnergyWindow is a user-declared period during which energy costs
// nothing, independent of the tariff curve.
type FreeEnergyWindow struct {
	Start    time.Time
	Duration time.Duration
}

// End returns the instant the window closes.
func (w FreeEnergyWindow) End() time.Time { return w.Start.Add(w.Duration) }

// Contains reports whether the interval [start, end) intersects the window.
func (w FreeEnergyWindow) Contains(start, end time.Time) bool {
	return start.Before(w.End()) && end.After(w.Start)
}
