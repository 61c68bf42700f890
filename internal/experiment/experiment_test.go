package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/springbone/internal/config"
)

func TestExperimentRun(t *testing.T) {
	r := NewRegistry()
	for _, model := range r.ListModels() {
		t.Run(model, func(t *testing.T) {
			cfg := r.Resolve(model, "")
			cfg.Duration = 0.5
			cfg.Rig.Count = 2

			e := New(cfg)
			if err := e.Setup(r.DefaultMetrics(model), nil); err != nil {
				t.Fatal(err)
			}
			defer e.Close()

			res, err := e.Run(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if res.StepsTaken == 0 {
				t.Error("no steps taken")
			}
			if v := res.Metrics["length_error"]; v > 1e-3 {
				t.Errorf("length error %v", v)
			}
			if v := res.Metrics["stability"]; v != 1 {
				t.Errorf("stability %v", v)
			}
		})
	}
}

func TestExperimentRebuild(t *testing.T) {
	e := New(config.GetPreset("hair", "soft"))
	if err := e.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}
	before := e.World().NodeCount()
	old := e.Handles()[0]

	next := config.DefaultConfig()
	next.Chain.GravityPower = 2
	if err := e.Rebuild(next); err != nil {
		t.Fatal(err)
	}
	if got := e.World().NodeCount(); got != before {
		t.Errorf("node count %d after rebuild, want %d", got, before)
	}
	if e.World().Deactivate(old) {
		t.Error("old handle still valid after rebuild")
	}
	if e.Config().Chain.GravityPower != 2 {
		t.Errorf("gravity = %v", e.Config().Chain.GravityPower)
	}
}

func TestExperimentUnknownModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = "pendulum"
	if err := New(cfg).Setup(nil, nil); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := New(cfg).Run(context.Background()); err == nil {
		t.Error("expected error for run without setup")
	}
}
