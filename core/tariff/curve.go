package tariff

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// PriceSource yields the electricity price in effect at a point in time.
// Both the static Curve and the day-ahead DayAheadCurve implement it.
type PriceSource interface {
	PriceAt(t time.Time) float64
}

// Breakpoint prices the interval starting at Offset past midnight. The
// price holds until the next breakpoint, or wraps around midnight back to
// the first breakpoint of the day.
type Breakpoint struct {
	Offset time.Duration
	Price  float64
}

// ParseOffset converts an "HH:MM" time-of-day string into an offset from
// midnight.
func ParseOffset(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, model.Validationf("time", "%q is not in HH:MM form", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, model.Validationf("time", "%q has an invalid hour", s)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, model.Validationf("time", "%q has an invalid minute", s)
	}
	return time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute, nil
}

// Curve is a piecewise-constant price function over one 24-hour cycle.
// It is immutable after construction.
type Curve struct {
	points []Breakpoint
}

// NewCurve validates the breakpoints and builds a curve. Times must be
// strictly increasing and the first breakpoint must sit at 00:00 so every
// instant of the day is priced.
func NewCurve(points []Breakpoint) (*Curve, error) {
	if len(points) == 0 {
		return nil, model.Validationf("tariff", "at least one breakpoint is required")
	}
	if points[0].Offset != 0 {
		return nil, model.Validationf("tariff", "the first breakpoint must start at 00:00")
	}
	for i := 1; i < len(points); i++ {
		if points[i].Offset <= points[i-1].Offset {
			return nil, model.Validationf("tariff", "breakpoint times must be strictly increasing (%s is not after %s)",
				formatOffset(points[i].Offset), formatOffset(points[i-1].Offset))
		}
		if points[i].Offset >= 24*time.Hour {
			return nil, model.Validationf("tariff", "breakpoint %s is outside the 24 hour cycle", formatOffset(points[i].Offset))
		}
	}
	cp := make([]Breakpoint, len(points))
	copy(cp, points)
	return &Curve{points: cp}, nil
}

// PriceAt returns the price per kWh in effect at t. The latest breakpoint
// at or before the time of day applies; the midnight anchor guarantees a
// match for any timestamp.
func (c *Curve) PriceAt(t time.Time) float64 {
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	price := c.points[0].Price
	for _, bp := range c.points {
		if bp.Offset > offset {
			break
		}
		price = bp.Price
	}
	return price
}

// Breakpoints returns a copy of the curve's breakpoints in order.
func (c *Curve) Breakpoints() []Breakpoint {
	cp := make([]Breakpoint, len(c.points))
	copy(cp, c.points)
	return cp
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
