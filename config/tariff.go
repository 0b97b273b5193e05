package config

import (
	"fmt"

	"github.com/pjaos/chargeplan/core/tariff"
)

const (
	TariffModeStatic = "static"
	TariffModeAgile  = "agile"
)

// TariffPoint is one breakpoint of a static tariff: from Time onward
// the price per kWh applies, until the next breakpoint.
type TariffPoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// FreeWindowConfig describes a daily window where the supplier gives
// energy away, such as a free electricity session.
type FreeWindowConfig struct {
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
}

// TariffConfig selects the price source: either a static breakpoint
// table or the Octopus Agile day-ahead feed for a region.
type TariffConfig struct {
	Mode        string            `json:"mode"`
	Region      string            `json:"region"`
	Breakpoints []TariffPoint     `json:"breakpoints"`
	FreeWindow  *FreeWindowConfig `json:"free_window"`
}

// SetDefaults applies sane defaults.
func (c *TariffConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = TariffModeStatic
	}
}

// Validate checks the mode-specific fields parse.
func (c TariffConfig) Validate() error {
	switch c.Mode {
	case TariffModeStatic:
		if len(c.Breakpoints) == 0 {
			return fmt.Errorf("tariff.breakpoints are required in static mode")
		}
		if _, err := c.Curve(); err != nil {
			return err
		}
	case TariffModeAgile:
		if c.Region == "" {
			return fmt.Errorf("tariff.region is required in agile mode")
		}
	default:
		return fmt.Errorf("unknown tariff mode %s", c.Mode)
	}
	if c.FreeWindow != nil {
		if _, err := tariff.ParseOffset(c.FreeWindow.Start); err != nil {
			return fmt.Errorf("tariff.free_window.start: %w", err)
		}
		if c.FreeWindow.DurationMinutes <= 0 {
			return fmt.Errorf("tariff.free_window.duration_minutes must be positive")
		}
	}
	return nil
}

// Curve builds the static tariff curve from the breakpoint table.
func (c TariffConfig) Curve() (*tariff.Curve, error) {
	bps := make([]tariff.Breakpoint, 0, len(c.Breakpoints))
	for _, p := range c.Breakpoints {
		off, err := tariff.ParseOffset(p.Time)
		if err != nil {
			return nil, fmt.Errorf("tariff.breakpoints: %w", err)
		}
		bps = append(bps, tariff.Breakpoint{Offset: off, Price: p.Price})
	}
	return tariff.NewCurve(bps)
}
