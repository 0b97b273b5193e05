package plan

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pjaos/chargeplan/core/model"
)

// Summary compares the optimised schedule against charging the same
// energy at the mean tariff price over the horizon. The dashboard shows
// the savings next to the schedule.
type Summary struct {
	MeanPriceKWh  float64
	BaselineCost  float64
	Savings       float64
	ChargeMinutes int
}

// Summarise computes horizon statistics for a schedule drawn from the
// given candidate pool. Free slots are excluded from the mean since the
// sentinel price is not a real tariff value.
func Summarise(sched model.Schedule, candidates []model.Slot) Summary {
	var prices []float64
	for _, s := range candidates {
		if !s.Free {
			prices = append(prices, s.Price)
		}
	}
	sum := Summary{}
	if len(prices) > 0 {
		sum.MeanPriceKWh = stat.Mean(prices, nil)
	}
	sum.BaselineCost = sum.MeanPriceKWh * sched.TotalEnergyKWh
	sum.Savings = sum.BaselineCost - sched.TotalCost
	for _, s := range sched.Slots {
		sum.ChargeMinutes += int(s.Duration.Minutes())
	}
	return sum
}
