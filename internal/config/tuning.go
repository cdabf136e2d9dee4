package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the simulation parameters loaded from tuning.yaml.
type Tuning struct {
	TickRateHz  int   `yaml:"tick_rate_hz"`
	StartTick   int64 `yaml:"start_tick"`
	StartCityID string `yaml:"start_city_id"`

	DefaultTruckTemplate string `yaml:"default_truck_template"`
	FleetSize            int    `yaml:"fleet_size"`
	FleetOwnerID         string `yaml:"fleet_owner_id"`
}

// LoadTuning reads and validates the tuning file.
func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("load tuning: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("load tuning: parse %q: %w", path, err)
	}
	if t.TickRateHz <= 0 {
		t.TickRateHz = 10
	}
	if t.FleetSize < 0 {
		return t, fmt.Errorf("load tuning: fleet_size cannot be negative: %d", t.FleetSize)
	}
	return t, nil
}
