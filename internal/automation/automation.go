package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/experiment"
	"github.com/san-kum/springbone/internal/sim"
)

// Scenario scripts chain activation and deactivation over a fixed number
// of frames.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Model       string  `yaml:"model"`
	Preset      string  `yaml:"preset"`
	Frames      int     `yaml:"frames"`
	Dt          float64 `yaml:"dt"`
	Events      []Event `yaml:"events"`
}

// Event applies an action to one of the rig's chains, by index, before
// frame At is stepped.
type Event struct {
	At     int    `yaml:"at"`
	Action string `yaml:"action"`
	Chain  int    `yaml:"chain"`
}

const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

// EventResult records the world right after an event was applied.
type EventResult struct {
	Event   Event
	Applied bool
	Nodes   int
	Chains  int
}

type Report struct {
	Scenario string
	Events   []EventResult
	Stats    sim.Stats
	Metrics  map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Frames <= 0 {
		return fmt.Errorf("scenario %q: frames must be positive", s.Name)
	}
	for i, e := range s.Events {
		if e.Action != ActionActivate && e.Action != ActionDeactivate {
			return fmt.Errorf("scenario %q event %d: unknown action %q", s.Name, i, e.Action)
		}
		if e.At < 0 || e.At >= s.Frames {
			return fmt.Errorf("scenario %q event %d: frame %d out of range", s.Name, i, e.At)
		}
	}
	return nil
}

// RunScenario builds the scenario's rig with every chain active and steps
// it frame by frame, applying events as their frame comes up.
func RunScenario(ctx context.Context, sc *Scenario, registry *experiment.Registry, out io.Writer) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	cfg := registry.Resolve(sc.Model, sc.Preset)
	if sc.Dt > 0 {
		cfg.Dt = sc.Dt
	}

	metrics := registry.DefaultMetrics(cfg.Model)
	exp := experiment.New(cfg)
	if err := exp.Setup(metrics, nil); err != nil {
		return nil, fmt.Errorf("scenario %q setup: %w", sc.Name, err)
	}
	defer exp.Close()

	world := exp.World()
	chains := exp.Rig().Chains
	if len(exp.Handles()) != len(chains) {
		return nil, fmt.Errorf("scenario %q: %d of %d chains active after setup", sc.Name, len(exp.Handles()), len(chains))
	}
	handles := append([]sim.ChainHandle(nil), exp.Handles()...)

	events := append([]Event(nil), sc.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	report := &Report{Scenario: sc.Name, Metrics: make(map[string]float64)}
	next := 0
	fire := func(f int) {
		for next < len(events) && events[next].At == f {
			e := events[next]
			next++
			res := EventResult{Event: e}
			if e.Chain >= 0 && e.Chain < len(chains) {
				res.Applied = apply(world, chains, handles, e)
			}
			res.Nodes = world.NodeCount()
			res.Chains = len(world.Chains())
			report.Events = append(report.Events, res)
			fmt.Fprintf(out, "frame %d: %s chain %d applied=%v nodes=%d\n", f, e.Action, e.Chain, res.Applied, res.Nodes)
		}
	}

	for _, m := range metrics {
		m.Reset()
	}
	fire(0)
	frames := 0
	err := exp.GetSimulator().RunWithCallback(ctx, sim.Config{Dt: cfg.Dt}, func(f *sim.Frame) bool {
		for _, m := range metrics {
			m.Observe(f)
		}
		frames++
		if frames >= sc.Frames {
			return false
		}
		fire(frames)
		return true
	})
	if err != nil {
		return report, err
	}

	for _, m := range metrics {
		report.Metrics[m.Name()] = m.Value()
	}
	report.Stats = world.Stats()
	return report, nil
}

func apply(world *sim.World, chains []bone.ChainConfig, handles []sim.ChainHandle, e Event) bool {
	switch e.Action {
	case ActionActivate:
		if handles[e.Chain].Valid() {
			return false
		}
		h, err := world.Activate(chains[e.Chain])
		if err != nil || !h.Valid() {
			return false
		}
		handles[e.Chain] = h
		return true
	case ActionDeactivate:
		ok := world.Deactivate(handles[e.Chain])
		handles[e.Chain] = sim.InvalidChain
		return ok
	}
	return false
}

// ParameterSweep runs a model across a range of one chain parameter.
type ParameterSweep struct {
	Model     string
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Duration  float64
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	FinalTail  [3]float32
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, out io.Writer) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := registry.Resolve(sweep.Model, sweep.Preset)
		if sweep.Duration > 0 {
			cfg.Duration = sweep.Duration
		}
		if err := cfg.Chain.Set(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := runOnce(ctx, cfg, registry)
		if err != nil {
			return nil, err
		}

		sr := SweepResult{ParamValue: paramVal, Metrics: result.Metrics}
		if n := len(result.Tails); n > 0 && len(result.Tails[n-1]) > 0 {
			sr.FinalTail = [3]float32(result.Tails[n-1][0])
		}
		results = append(results, sr)

		fmt.Fprintf(out, "Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

func runOnce(ctx context.Context, cfg *config.Config, registry *experiment.Registry) (*sim.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(registry.DefaultMetrics(cfg.Model), nil); err != nil {
		return nil, err
	}
	defer exp.Close()
	return exp.Run(ctx)
}

// MonteCarloConfig perturbs every chain parameter of a model at random.
type MonteCarloConfig struct {
	Model        string
	Preset       string
	Perturbation float64
	NumTrials    int
	Duration     float64
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Chain   config.ChainConfig
	Stable  bool
	Metrics map[string]float64
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, out io.Writer) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func(v float32) float32 {
		return v + float32((rng.Float64()-0.5)*2*cfg.Perturbation)
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		expCfg := registry.Resolve(cfg.Model, cfg.Preset)
		if cfg.Duration > 0 {
			expCfg.Duration = cfg.Duration
		}
		c := &expCfg.Chain
		c.Stiffness = jitter(c.Stiffness)
		c.GravityPower = jitter(c.GravityPower)
		c.DragForce = jitter(c.DragForce)
		c.HitRadius = jitter(c.HitRadius)

		result, err := runOnce(ctx, expCfg, registry)
		if err != nil {
			return nil, err
		}

		stable := result.Metrics["stability"] == 1 && !math.IsNaN(result.Metrics["length_error"])
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Chain:   *c,
			Stable:  stable,
			Metrics: result.Metrics,
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(out, "Monte Carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
