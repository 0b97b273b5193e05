package config

import "fmt"

// ChargerConfig describes the physical charger and the planning
// granularity.
type ChargerConfig struct {
	// DeviceID labels the charger in the API, metrics and MQTT topics.
	DeviceID string `json:"device_id"`
	// RateKW is the charge rate the charger delivers once boosting.
	RateKW float64 `json:"rate_kw"`
	// BatteryKWh is the usable capacity of the EV battery.
	BatteryKWh float64 `json:"battery_kwh"`
	// SlotWidthMinutes sets the planning granularity.
	SlotWidthMinutes int `json:"slot_width_minutes"`
	// AdjustmentFactor scales the reported delivered energy to account
	// for charger efficiency losses.
	AdjustmentFactor float64 `json:"adjustment_factor"`
}

// SetDefaults applies sane defaults.
func (c *ChargerConfig) SetDefaults() {
	if c.DeviceID == "" {
		c.DeviceID = "zappi"
	}
	if c.RateKW == 0 {
		c.RateKW = 7.4
	}
	if c.SlotWidthMinutes == 0 {
		c.SlotWidthMinutes = 15
	}
	if c.AdjustmentFactor == 0 {
		c.AdjustmentFactor = 1.0
	}
}

// Validate checks mandatory fields.
func (c ChargerConfig) Validate() error {
	if c.RateKW <= 0 {
		return fmt.Errorf("charger.rate_kw must be positive")
	}
	if c.BatteryKWh <= 0 {
		return fmt.Errorf("charger.battery_kwh must be positive")
	}
	if c.SlotWidthMinutes <= 0 {
		return fmt.Errorf("charger.slot_width_minutes must be positive")
	}
	if c.AdjustmentFactor <= 0 {
		return fmt.Errorf("charger.adjustment_factor must be positive")
	}
	return nil
}
