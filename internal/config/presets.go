package config

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/san-kum/procanim/internal/verlet"
)

// Presets keeps insertion order so listings are stable.
var Presets = newPresets()

func newPresets() *orderedmap.OrderedMap[string, *Config] {
	m := orderedmap.NewOrderedMap[string, *Config]()

	m.Set("demo", DefaultConfig())

	triangle := DefaultConfig()
	triangle.Scene = "triangle"
	triangle.Gravity = [3]float32{}
	m.Set("triangle", triangle)

	ring := DefaultConfig()
	ring.Scene = "ring"
	ring.Ticks = 900
	m.Set("ring", ring)

	zeroG := DefaultConfig()
	zeroG.Gravity = [3]float32{}
	m.Set("zero-g", zeroG)

	stiff := DefaultConfig()
	stiff.Iterations = 4 * verlet.DefaultIterations
	m.Set("stiff", stiff)

	return m
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets.Get(name)
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	return Presets.Keys()
}
