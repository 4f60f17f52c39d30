package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/procanim/internal/verlet"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScene      = "demo"
	DefaultDt         = 1.0 / 60
	DefaultTicks      = 600
	DefaultFrameEvery = 1
)

type Config struct {
	Scene       string       `yaml:"scene"`
	Dt          float32      `yaml:"dt"`
	Ticks       int          `yaml:"ticks"`
	FrameEvery  int          `yaml:"frame_every"`
	Iterations  int          `yaml:"iterations"`
	Gravity     [3]float32   `yaml:"gravity"`
	Bounds      BoundsConfig `yaml:"bounds"`
	StrictLinks bool         `yaml:"strict_links"`
}

// BoundsConfig holds two opposite corners of the containment box.
type BoundsConfig struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      DefaultScene,
		Dt:         DefaultDt,
		Ticks:      DefaultTicks,
		FrameEvery: DefaultFrameEvery,
		Iterations: verlet.DefaultIterations,
		Gravity:    verlet.DefaultGravity,
		Bounds: BoundsConfig{
			Min: verlet.DefaultBoundsMin,
			Max: verlet.DefaultBoundsMax,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %f", c.Dt)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.FrameEvery < 1 {
		return fmt.Errorf("frame_every must be at least 1, got %d", c.FrameEvery)
	}
	return nil
}

// Settings converts the config into world settings.
func (c *Config) Settings() verlet.Settings {
	return verlet.Settings{
		Gravity:     mgl32.Vec3(c.Gravity),
		Bounds:      verlet.NewBounds(c.Bounds.Min, c.Bounds.Max),
		Iterations:  c.Iterations,
		StrictLinks: c.StrictLinks,
	}
}

// Clone returns a copy safe to modify.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
