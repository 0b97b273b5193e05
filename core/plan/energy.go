package plan

import (
	"math"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// SlotsNeeded converts the requested state-of-charge delta into a slot
// count. Delivery is quantised, so the realised final charge may exceed
// the target by up to one slot's worth of energy; that overshoot is
// accepted, not an error.
func SlotsNeeded(req model.ChargeRequest, slotWidth time.Duration) int {
	energyPerSlot := req.ChargerRateKW * slotWidth.Hours()
	if energyPerSlot <= 0 {
		return 0
	}
	needed := req.EnergyNeededKWh()
	if needed <= 0 {
		return 0
	}
	return int(math.Ceil(needed / energyPerSlot))
}
