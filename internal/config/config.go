package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Clock      ClockConfig      `toml:"clock"`
	Elevator   ElevatorConfig   `toml:"elevator"`
	Observer   ObserverConfig   `toml:"observer"`
	Logging    LoggingConfig    `toml:"logging"`
	Data       DataConfig       `toml:"data"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

type ClockConfig struct {
	StartTime string  `toml:"start_time"` // "HH:MM"
	EndTime   string  `toml:"end_time"`
	Speed     float64 `toml:"speed"` // game seconds per real second
}

type ElevatorConfig struct {
	StartFloor            int     `toml:"start_floor"`
	MinFloor              int     `toml:"min_floor"`
	MaxFloor              int     `toml:"max_floor"`
	FloorTravelTime       float64 `toml:"floor_travel_time"` // seconds per floor
	DoorAnimationDuration float64 `toml:"door_animation_duration"`
}

type ObserverConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DataConfig struct {
	Dir       string `toml:"dir"`
	SchemaDir string `toml:"schema_dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration, used when no config file is
// given.
func Defaults() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: 50 * time.Millisecond,
		},
		Clock: ClockConfig{
			StartTime: "08:30",
			EndTime:   "08:48",
			Speed:     5.0,
		},
		Elevator: ElevatorConfig{
			StartFloor:            90,
			MinFloor:              90,
			MaxFloor:              98,
			FloorTravelTime:       2.0,
			DoorAnimationDuration: 1.0,
		},
		Observer: ObserverConfig{
			Enabled:     false,
			BindAddress: "127.0.0.1:7780",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Data: DataConfig{
			Dir:       "data/yaml",
			SchemaDir: "schemas",
		},
	}
}
