package model

import "time"

// ChargeRequest carries everything the planner needs to know about one
// charging session. It is validated once at construction and treated as
// immutable afterwards.
type ChargeRequest struct {
	TargetSoCPct   float64
	CurrentSoCPct  float64
	BatteryKWh     float64
	ChargerRateKW  float64
	Deadline       time.Time
}

// Validate checks the SOC, capacity and rate invariants. All violations
// are reported as ValidationError before any planning happens.
func (r ChargeRequest) Validate() error {
	if r.CurrentSoCPct < 0 || r.CurrentSoCPct > 100 {
		return Validationf("current_soc_pct", "must be between 0 and 100, got %.1f", r.CurrentSoCPct)
	}
	if r.TargetSoCPct < 0 || r.TargetSoCPct > 100 {
		return Validationf("target_soc_pct", "must be between 0 and 100, got %.1f", r.TargetSoCPct)
	}
	if r.CurrentSoCPct > r.TargetSoCPct {
		return Validationf("current_soc_pct", "current charge %.1f%% exceeds target %.1f%%", r.CurrentSoCPct, r.TargetSoCPct)
	}
	if r.BatteryKWh <= 0 {
		return Validationf("battery_kwh", "battery capacity must be positive")
	}
	if r.ChargerRateKW <= 0 {
		return Validationf("charger_rate_kw", "charger rate must be positive")
	}
	return nil
}

// EnergyNeededKWh returns the energy required to move the battery from
// the current to the target state of charge.
func (r ChargeRequest) EnergyNeededKWh() float64 {
	return (r.TargetSoCPct - r.CurrentSoCPct) / 100 * r.BatteryKWh
}
