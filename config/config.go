// Package config loads the service configuration from a YAML or JSON
// file with CP_ environment variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pjaos/chargeplan/core/metrics"
	"github.com/pjaos/chargeplan/infra/mqtt"
	"github.com/pjaos/chargeplan/infra/myenergi"
)

type Config struct {
	Charger ChargerConfig   `json:"charger"`
	Tariff  TariffConfig    `json:"tariff"`
	Device  myenergi.Config `json:"device"`
	MQTT    mqtt.Config     `json:"mqtt"`
	Metrics metrics.Config  `json:"metrics"`
	API     APIConfig       `json:"api"`
}

// Load reads the file at path, applies CP_ environment overrides
// (CP_TARIFF__REGION=H becomes tariff.region), fills defaults and
// validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Charger.SetDefaults()
	cfg.Tariff.SetDefaults()
	cfg.Device.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Charger.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Tariff.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Device.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
