// Package metrics implements sim.Metric summaries of spring bone runs.
package metrics

import "github.com/san-kum/springbone/internal/sim"

// Default returns the metrics reported by the CLI.
func Default() []sim.Metric {
	return []sim.Metric{
		NewLengthError(),
		NewTailSpeed(),
		NewKineticEnergy(),
		NewPenetration(),
		NewDegeneracy(),
		NewStability(10),
	}
}

// ByName returns the named metric, or nil.
func ByName(name string) sim.Metric {
	for _, m := range Default() {
		if m.Name() == name {
			return m
		}
	}
	return nil
}
