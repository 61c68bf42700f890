package sim

import (
	"context"
	"testing"

	"github.com/san-kum/springbone/internal/vmath"
)

func newTestSim(t *testing.T) (*Simulator, *rig) {
	t.Helper()
	r := newRig()
	w := NewWorld(r.tree, WithWorkers(2))
	cfg := chain("hair", r.left[0])
	cfg.GravityPower = 0.5
	if _, err := w.Activate(cfg); err != nil {
		t.Fatal(err)
	}
	sway := AnimatorFunc(func(at float64) {
		r.tree.SetLocalPosition(r.hips, vmath.Vec3{float32(at), 0, 0})
	})
	return New(w, sway), r
}

func TestSimulatorRun(t *testing.T) {
	sim, r := newTestSim(t)

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
		Track:    []Track{{Node: r.left[0], Label: "left0"}, {Node: r.left[2], Label: "left2"}},
	}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if len(result.Tails) != 11 || len(result.Tails[0]) != 2 {
		t.Errorf("unexpected tail samples: %d frames", len(result.Tails))
	}
	if result.StepsTaken != 10 || result.Stats.Frames != 10 {
		t.Errorf("steps = %d, frames = %d", result.StepsTaken, result.Stats.Frames)
	}
	if len(result.FrameTimes) != 10 {
		t.Errorf("expected 10 frame times, got %d", len(result.FrameTimes))
	}
	if result.Labels[1] != "left2" {
		t.Errorf("labels = %v", result.Labels)
	}
	if xs := result.Series(0, 0); xs[len(xs)-1] <= xs[0] {
		t.Errorf("tail did not follow the swaying hips: %v", xs)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim, _ := newTestSim(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	nodes int
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(f *Frame) {
	m.count++
	m.nodes = len(f.Nodes)
}
func (m *testMetric) Value() float64 { return float64(m.count) }
func (m *testMetric) Reset()         { m.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim, _ := newTestSim(t)

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got, ok := result.Metrics["test"]; !ok || got != 10 {
		t.Errorf("metric = %v, %v", got, ok)
	}
	if metric.nodes != 3 {
		t.Errorf("expected 3 nodes per frame, got %d", metric.nodes)
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	sim, _ := newTestSim(t)

	frames := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.01}, func(f *Frame) bool {
		frames++
		return frames < 25
	})
	if err != nil {
		t.Fatal(err)
	}
	if frames != 25 {
		t.Errorf("expected 25 frames, got %d", frames)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	sim, _ := newTestSim(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if res.StepsTaken != 0 {
		t.Errorf("steps taken = %d", res.StepsTaken)
	}
}

func TestEnsembleRun(t *testing.T) {
	a, _ := newTestSim(t)
	b, _ := newTestSim(t)

	results, err := NewEnsemble(a, b).Run(context.Background(), Config{Dt: 0.1, Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].StepsTaken != results[1].StepsTaken {
		t.Errorf("runs diverged: %d vs %d", results[0].StepsTaken, results[1].StepsTaken)
	}
}
