package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/springbone/internal/vmath"
)

// Simulator drives a World at a fixed timestep, moving the host scene with
// an Animator and feeding metrics and observers after each frame.
type Simulator struct {
	world     *World
	animator  Animator
	metrics   []Metric
	observers []Observer
}

func New(world *World, animator Animator) *Simulator {
	return &Simulator{
		world:     world,
		animator:  animator,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) World() *World { return s.world }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:      make([]float64, 0, steps+1),
		Tails:      make([][]vmath.Vec3, 0, steps+1),
		Metrics:    make(map[string]float64),
		FrameTimes: make([]time.Duration, 0, steps),
	}
	for _, tr := range cfg.Track {
		result.Labels = append(result.Labels, tr.Label)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Times = append(result.Times, t)
	result.Tails = append(result.Tails, s.sample(cfg.Track))

	frame := &Frame{Dt: cfg.Dt}
	for i := 0; i < steps; i++ {
		if s.animator != nil {
			s.animator.Animate(t)
		}

		start := time.Now()
		if err := s.world.Step(ctx, float32(cfg.Dt)); err != nil {
			result.Stats = s.world.Stats()
			return result, err
		}
		result.FrameTimes = append(result.FrameTimes, time.Since(start))

		t += cfg.Dt
		result.StepsTaken++
		result.Times = append(result.Times, t)
		result.Tails = append(result.Tails, s.sample(cfg.Track))

		if len(s.metrics) > 0 || len(s.observers) > 0 {
			s.fill(frame, t)
			for _, m := range s.metrics {
				m.Observe(frame)
			}
			for _, obs := range s.observers {
				obs.OnStep(frame)
			}
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Stats = s.world.Stats()
	return result, nil
}

// RunWithCallback steps until the callback returns false, ctx is done or
// cfg.Duration elapses. A zero Duration runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Frame) bool) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}

	frame := &Frame{Dt: cfg.Dt}
	t := 0.0
	for cfg.Duration <= 0 || t < cfg.Duration {
		if s.animator != nil {
			s.animator.Animate(t)
		}
		if err := s.world.Step(ctx, float32(cfg.Dt)); err != nil {
			return err
		}
		t += cfg.Dt

		s.fill(frame, t)
		if !callback(frame) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) fill(f *Frame, t float64) {
	f.Time = t
	f.Nodes = s.world.NodeStates(f.Nodes)
	f.Index = s.world.Index()
	f.Degenerate = s.world.Stats().LastDegenerate
}

func (s *Simulator) sample(track []Track) []vmath.Vec3 {
	row := make([]vmath.Vec3, len(track))
	for i, tr := range track {
		row[i], _ = s.world.Tail(tr.Node)
	}
	return row
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
