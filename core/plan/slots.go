package plan

import (
	"time"

	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/core/tariff"
)

// GenerateSlots discretises [start, end) into slots of the given width,
// pricing each from the tariff curve at its start time. A trailing
// partial slot is dropped: the charger is only addressed in whole slots.
// Slots intersecting the free window carry the free sentinel price.
// Output is deterministic and ascending by start time.
func GenerateSlots(start, end time.Time, width time.Duration, prices tariff.PriceSource, free *model.FreeEnergyWindow) ([]model.Slot, error) {
	if width <= 0 {
		return nil, model.Validationf("slot_width", "must be positive")
	}
	var slots []model.Slot
	for t := start; !t.Add(width).After(end); t = t.Add(width) {
		slot := model.Slot{
			Start:    t,
			Duration: width,
			Price:    prices.PriceAt(t),
		}
		if free != nil && free.Contains(t, t.Add(width)) {
			slot.Price = model.FreePrice
			slot.Free = true
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// NextSlotBoundary rounds t up to the next multiple of width within its
// hour. Charging never starts mid-slot, matching the charger's own
// schedule granularity.
func NextSlotBoundary(t time.Time, width time.Duration) time.Time {
	aligned := t.Truncate(width)
	if aligned.Before(t) {
		aligned = aligned.Add(width)
	}
	return aligned
}
