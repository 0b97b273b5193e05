package plan

import (
	"time"

	"github.com/pjaos/chargeplan/core/logger"
	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/core/tariff"
)

// Coverage is implemented by price sources with a bounded horizon, such
// as day-ahead curves.
type Coverage interface {
	IsStale(horizonEnd time.Time) bool
	CoveredUntil() time.Time
}

// Planner runs the full pipeline: horizon alignment, slot generation,
// energy conversion and cost-greedy selection. It is pure and safe for
// concurrent use; each call works on its own data.
type Planner struct {
	SlotWidth time.Duration
	// AdjustmentFactor scales the reported delivered energy to account
	// for charger losses. 1.0 means the nameplate rate is delivered.
	AdjustmentFactor float64
	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
	Log logger.Logger
}

// NewPlanner creates a planner with the given slot width. A zero width
// defaults to the charger's 15 minute schedule granularity.
func NewPlanner(slotWidth time.Duration, log logger.Logger) *Planner {
	if slotWidth <= 0 {
		slotWidth = 15 * time.Minute
	}
	return &Planner{SlotWidth: slotWidth, AdjustmentFactor: 1.0, Now: time.Now, Log: log}
}

// Plan computes the minimum-cost schedule for the request. A stale
// day-ahead curve is a hard failure; an horizon too short for the full
// charge is not, and yields an under-delivered schedule instead.
func (p *Planner) Plan(req model.ChargeRequest, prices tariff.PriceSource, free *model.FreeEnergyWindow) (model.Schedule, Summary, error) {
	if err := req.Validate(); err != nil {
		return model.Schedule{}, Summary{}, err
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	start := NextSlotBoundary(now, p.SlotWidth)
	deadline := req.Deadline
	if !deadline.After(start) {
		return model.Schedule{}, Summary{}, model.Validationf("deadline", "ready-by time %s is not in the future", deadline.Format(time.RFC3339))
	}

	if cov, ok := prices.(Coverage); ok && cov.IsStale(deadline) {
		return model.Schedule{}, Summary{}, &tariff.StaleError{CoveredUntil: cov.CoveredUntil(), HorizonEnd: deadline}
	}

	candidates, err := GenerateSlots(start, deadline, p.SlotWidth, prices, free)
	if err != nil {
		return model.Schedule{}, Summary{}, err
	}
	needed := SlotsNeeded(req, p.SlotWidth)
	sched := Select(candidates, needed, req.ChargerRateKW)

	factor := p.AdjustmentFactor
	if factor <= 0 {
		factor = 1.0
	}
	sched.TotalEnergyKWh *= factor

	if p.Log != nil {
		p.Log.Debugw("plan computed", map[string]any{
			"schedule_id":     sched.ID,
			"slots_needed":    needed,
			"slots_selected":  len(sched.Slots),
			"under_delivered": sched.UnderDelivered,
			"total_cost":      sched.TotalCost,
		})
	}
	return sched, Summarise(sched, candidates), nil
}
