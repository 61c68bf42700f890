package experiment

import (
	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/metrics"
	"github.com/san-kum/springbone/internal/models"
	"github.com/san-kum/springbone/internal/sim"
)

type Registry struct{}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) ListModels() []string {
	return models.Names()
}

func (r *Registry) Describe(model string) string {
	return models.Describe(model)
}

func (r *Registry) DefaultMetrics(model string) []sim.Metric {
	return metrics.Default()
}

// Resolve returns the config for model, starting from preset when one is
// named.
func (r *Registry) Resolve(model, preset string) *config.Config {
	if preset != "" {
		if cfg := config.GetPreset(model, preset); cfg != nil {
			return cfg
		}
	}
	cfg := config.DefaultConfig()
	cfg.Model = model
	return cfg
}
