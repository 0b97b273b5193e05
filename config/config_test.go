package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `charger:
  device_id: "zappi-garage"
  rate_kw: 7.4
  battery_kwh: 60
tariff:
  mode: "static"
  breakpoints:
    - time: "00:00"
      price: 0.07
    - time: "05:30"
      price: 0.2672
    - time: "23:30"
      price: 0.07
device:
  hub_serial: "hub123"
  device_serial: "z456"
  api_key: "key"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
metrics:
  prometheus_enabled: true
api:
  address: ":8085"
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"device_id", cfg.Charger.DeviceID, "zappi-garage"},
		{"rate_kw", cfg.Charger.RateKW, 7.4},
		{"battery_kwh", cfg.Charger.BatteryKWh, 60.0},
		{"slot_width default", cfg.Charger.SlotWidthMinutes, 15},
		{"adjustment default", cfg.Charger.AdjustmentFactor, 1.0},
		{"tariff mode", cfg.Tariff.Mode, "static"},
		{"breakpoints", len(cfg.Tariff.Breakpoints), 3},
		{"hub_serial", cfg.Device.HubSerial, "hub123"},
		{"device base url default", cfg.Device.BaseURL, "https://s18.myenergi.net"},
		{"mqtt broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt topic prefix default", cfg.MQTT.TopicPrefix, "chargeplan"},
		{"prometheus", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus port default", cfg.Metrics.PrometheusPort, ":2112"},
		{"api address", cfg.API.Address, ":8085"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv("CP_TARIFF__MODE", "agile")
	t.Setenv("CP_TARIFF__REGION", "H")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Tariff.Mode != "agile" || cfg.Tariff.Region != "H" {
		t.Fatalf("env override not applied: %+v", cfg.Tariff)
	}
}

func TestLoadRejectsBadBreakpoints(t *testing.T) {
	path := writeConfig(t, `charger:
  battery_kwh: 60
tariff:
  mode: "static"
  breakpoints:
    - time: "01:00"
      price: 0.1
device:
  hub_serial: "h"
  device_serial: "z"
  api_key: "k"
`)
	// first breakpoint must anchor at midnight
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
