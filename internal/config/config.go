package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/models"
	"github.com/san-kum/springbone/internal/vmath"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultModel    = "hair"
)

type Config struct {
	Model    string         `yaml:"model"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Workers  int            `yaml:"workers"`
	Chain    ChainConfig    `yaml:"chain"`
	Rig      models.Options `yaml:"rig"`
}

// ChainConfig is the YAML form of the spring parameters shared by every
// chain of a rig.
type ChainConfig struct {
	Stiffness    float32    `yaml:"stiffness"`
	GravityPower float32    `yaml:"gravity_power"`
	GravityDir   [3]float32 `yaml:"gravity_dir,flow"`
	DragForce    float32    `yaml:"drag_force"`
	HitRadius    float32    `yaml:"hit_radius"`
}

// ChainParams are the names accepted by ChainConfig.Set.
var ChainParams = []string{"stiffness", "gravity_power", "drag_force", "hit_radius"}

// Set sets a scalar chain parameter by its YAML name.
func (c *ChainConfig) Set(name string, v float64) error {
	switch name {
	case "stiffness":
		c.Stiffness = float32(v)
	case "gravity_power":
		c.GravityPower = float32(v)
	case "drag_force":
		c.DragForce = float32(v)
	case "hit_radius":
		c.HitRadius = float32(v)
	default:
		return fmt.Errorf("unknown chain parameter: %s", name)
	}
	return nil
}

func DefaultConfig() *Config {
	d := bone.DefaultChainConfig()
	return &Config{
		Model:    DefaultModel,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Chain: ChainConfig{
			Stiffness:    d.Stiffness,
			GravityPower: d.GravityPower,
			GravityDir:   [3]float32(d.GravityDir),
			DragForce:    d.DragForce,
			HitRadius:    d.HitRadius,
		},
		Rig: models.DefaultOptions(),
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
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Template returns the chain template for rig builders, clamped into range.
func (c *Config) Template() bone.ChainConfig {
	t := bone.DefaultChainConfig()
	t.Stiffness = c.Chain.Stiffness
	t.GravityPower = c.Chain.GravityPower
	t.DragForce = c.Chain.DragForce
	t.HitRadius = c.Chain.HitRadius
	if dir := vmath.Vec3(c.Chain.GravityDir); vmath.LenSq(dir) > 0 {
		t.GravityDir = dir.Normalize()
	}
	return t.Normalized()
}
