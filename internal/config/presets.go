package config

import (
	"sort"

	"github.com/tiendc/go-deepcopy"

	"github.com/san-kum/springbone/internal/models"
)

func preset(model string, dur float64, chain ChainConfig, rig models.Options) *Config {
	return &Config{
		Model:    model,
		Dt:       DefaultDt,
		Duration: dur,
		Chain:    chain,
		Rig:      rig,
	}
}

var (
	down = [3]float32{0, -1, 0}

	soft  = ChainConfig{Stiffness: 0.6, GravityPower: 0.2, GravityDir: down, DragForce: 0.3, HitRadius: 0.02}
	firm  = ChainConfig{Stiffness: 2.0, GravityPower: 0.1, GravityDir: down, DragForce: 0.5, HitRadius: 0.02}
	heavy = ChainConfig{Stiffness: 0.4, GravityPower: 1.0, GravityDir: down, DragForce: 0.2, HitRadius: 0.03}
	wind  = ChainConfig{Stiffness: 0.8, GravityPower: 0.6, GravityDir: [3]float32{1, -0.3, 0}, DragForce: 0.3, HitRadius: 0.02}
)

func opts(mod func(*models.Options)) models.Options {
	o := models.DefaultOptions()
	mod(&o)
	return o
}

var Presets = map[string]map[string]*Config{
	"hair": {
		"soft":  preset("hair", 10, soft, models.DefaultOptions()),
		"firm":  preset("hair", 10, firm, models.DefaultOptions()),
		"windy": preset("hair", 15, wind, opts(func(o *models.Options) { o.Sway.Amplitude = 0.1 })),
		"long": preset("hair", 15, heavy, opts(func(o *models.Options) {
			o.Segments = 8
			o.SegmentLength = 0.06
		})),
	},
	"tail": {
		"whip": preset("tail", 10, ChainConfig{Stiffness: 1.5, GravityPower: 0.3, GravityDir: down, DragForce: 0.2, HitRadius: 0.02},
			opts(func(o *models.Options) { o.Sway = models.Sway{Amplitude: 0.5, Frequency: 1.2, Turn: 1.0} })),
		"heavy": preset("tail", 10, heavy, models.DefaultOptions()),
	},
	"skirt": {
		"flare": preset("skirt", 10, soft, opts(func(o *models.Options) { o.Sway.Turn = 1.2 })),
		"stiff": preset("skirt", 10, firm, models.DefaultOptions()),
	},
	"crowd": {
		"small": preset("crowd", 5, soft, opts(func(o *models.Options) { o.Count = 3 })),
		"large": preset("crowd", 5, soft, opts(func(o *models.Options) {
			o.Count = 10
			o.Width, o.Height = 40, 40
		})),
		"centered": preset("crowd", 5, soft, opts(func(o *models.Options) {
			o.Count = 5
			o.UseCenter = true
		})),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	byName, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := byName[name]
	if !ok {
		return nil
	}
	var out Config
	if err := deepcopy.Copy(&out, p); err != nil {
		return nil
	}
	return &out
}

func ListPresets(model string) []string {
	byName, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
