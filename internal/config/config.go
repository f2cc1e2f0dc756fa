package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tablenav/tablenav/internal/nav"
)

// Config holds all configuration for the navigation service.
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`

	Server ServerConfig `yaml:"server"`
	Nav    NavConfig    `yaml:"nav"`
	Debug  DebugConfig  `yaml:"debug"`
}

// ServerConfig holds the WebSocket listener parameters and mask intake
// limits.
type ServerConfig struct {
	BindAddress  string `yaml:"bind_address"`
	Port         int    `yaml:"port"`
	MaxMaskBytes int    `yaml:"max_mask_bytes"`

	// Segmentation sanity band: blocked fraction outside
	// [MinBlockedRatio, MaxBlockedRatio] is logged as suspicious.
	MinBlockedRatio float64 `yaml:"min_blocked_ratio"`
	MaxBlockedRatio float64 `yaml:"max_blocked_ratio"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// PointConfig is an explicit grid coordinate in the config file.
type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// NavConfig holds planner options.
type NavConfig struct {
	Smoothing bool `yaml:"smoothing"`

	// Absent endpoints stay nil and fall back to the grid's edge-midpoint
	// defaults.
	Start *PointConfig `yaml:"start"`
	End   *PointConfig `yaml:"end"`
}

// Endpoints converts the configured coordinates into planner endpoints,
// keeping nil for unset ones.
func (n NavConfig) Endpoints() (start, end *nav.Point) {
	if n.Start != nil {
		start = &nav.Point{X: n.Start.X, Y: n.Start.Y}
	}
	if n.End != nil {
		end = &nav.Point{X: n.End.X, Y: n.End.Y}
	}
	return start, end
}

// DebugConfig controls diagnostic path rendering.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			BindAddress:     "0.0.0.0",
			Port:            8767,
			MaxMaskBytes:    1 << 20,
			MinBlockedRatio: 0.05,
			MaxBlockedRatio: 0.85,
		},
		Nav: NavConfig{
			Smoothing: false,
		},
		Debug: DebugConfig{
			Enabled: false,
			Dir:     "debug",
		},
	}
}

// Load loads service config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
