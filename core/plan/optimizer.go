package plan

import (
	"sort"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// Select picks the count cheapest slots from the candidate pool. Each
// slot's cost is independent and additive, so a greedy pick over the
// sorted pool is optimal; no search is needed. Ties on price are broken
// by earliest start time so identical inputs always produce identical
// schedules.
//
// When the pool is smaller than count the whole pool is selected and the
// schedule is marked under-delivered with the shortfall recorded; the
// deadline is a hard boundary and is never extended.
func Select(candidates []model.Slot, count int, rateKW float64) model.Schedule {
	sched := model.Schedule{
		ID:        model.NewScheduleID(),
		CreatedAt: time.Now(),
	}
	if count <= 0 {
		return sched
	}

	pool := make([]model.Slot, len(candidates))
	copy(pool, candidates)
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Price != pool[j].Price {
			return pool[i].Price < pool[j].Price
		}
		return pool[i].Start.Before(pool[j].Start)
	})

	if count > len(pool) {
		sched.UnderDelivered = true
		sched.Shortfall = count - len(pool)
		count = len(pool)
	}
	chosen := pool[:count]
	sort.SliceStable(chosen, func(i, j int) bool { return chosen[i].Start.Before(chosen[j].Start) })

	sched.Slots = chosen
	for _, s := range chosen {
		sched.TotalEnergyKWh += s.EnergyKWh(rateKW)
		sched.TotalCost += s.Cost(rateKW)
	}
	return sched
}
