package tariff

import (
	"fmt"
	"sort"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// Rate prices the absolute interval [Start, End).
type Rate struct {
	Start time.Time
	End   time.Time
	Price float64 // per kWh
}

// StaleError reports that a day-ahead curve does not cover the requested
// planning horizon. Planning must fail on it rather than fall back to
// whatever prices happen to be loaded.
type StaleError struct {
	CoveredUntil time.Time
	HorizonEnd   time.Time
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("tariff data ends at %s, before the requested horizon end %s",
		e.CoveredUntil.Format(time.RFC3339), e.HorizonEnd.Format(time.RFC3339))
}

// DayAheadCurve holds the published rates of a dynamic supplier. The
// supplier releases the next day's prices once a day, so the covered
// horizon is usually partial.
type DayAheadCurve struct {
	rates []Rate
}

// NewDayAheadCurve sorts the rates by start time and builds a curve.
func NewDayAheadCurve(rates []Rate) (*DayAheadCurve, error) {
	if len(rates) == 0 {
		return nil, model.Validationf("tariff", "no rates published")
	}
	cp := make([]Rate, len(rates))
	copy(cp, rates)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Start.Before(cp[j].Start) })
	for _, r := range cp {
		if !r.End.After(r.Start) {
			return nil, model.Validationf("tariff", "rate interval %s has no duration", r.Start.Format(time.RFC3339))
		}
	}
	return &DayAheadCurve{rates: cp}, nil
}

// PriceAt returns the price of the rate interval containing t. Callers
// must check IsStale before consulting times past the covered horizon;
// past coverage the last published price is returned.
func (c *DayAheadCurve) PriceAt(t time.Time) float64 {
	price := c.rates[0].Price
	for _, r := range c.rates {
		if r.Start.After(t) {
			break
		}
		price = r.Price
	}
	return price
}

// CoveredUntil returns the end of the published horizon.
func (c *DayAheadCurve) CoveredUntil() time.Time {
	return c.rates[len(c.rates)-1].End
}

// IsStale reports whether the published rates end before horizonEnd.
func (c *DayAheadCurve) IsStale(horizonEnd time.Time) bool {
	return c.CoveredUntil().Before(horizonEnd)
}
