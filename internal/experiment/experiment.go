package experiment

import (
	"context"
	"fmt"
	"log"

	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/models"
	"github.com/san-kum/springbone/internal/sim"
)

// Experiment is one configured run: a rig, the world simulating it and the
// simulator driving both.
type Experiment struct {
	cfg       *config.Config
	rig       *models.Rig
	world     *sim.World
	simulator *sim.Simulator
	handles   []sim.ChainHandle
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the rig and activates its chains.
func (e *Experiment) Setup(metrics []sim.Metric, logger *log.Logger) error {
	build, err := models.Get(e.cfg.Model)
	if err != nil {
		return err
	}
	e.rig = build(e.cfg.Rig, e.cfg.Template())
	e.world = sim.NewWorld(e.rig.Tree, sim.WithWorkers(e.cfg.Workers), sim.WithLogger(logger))

	for _, chain := range e.rig.Chains {
		h, err := e.world.Activate(chain)
		if err != nil {
			return fmt.Errorf("setup %s: %w", e.cfg.Model, err)
		}
		if h.Valid() {
			e.handles = append(e.handles, h)
		}
	}

	e.simulator = sim.New(e.world, e.rig.Animator(e.cfg.Rig.Sway))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
		Track:    e.rig.Track,
	}
	return e.simulator.Run(ctx, simCfg)
}

// Rebuild deactivates every chain and activates the rig's chains again
// with the parameters of cfg. The rig itself is not rebuilt.
func (e *Experiment) Rebuild(cfg *config.Config) error {
	if e.world == nil {
		return fmt.Errorf("experiment not setup")
	}
	for _, h := range e.handles {
		e.world.Deactivate(h)
	}
	e.handles = e.handles[:0]
	e.cfg.Chain = cfg.Chain

	tmpl := e.cfg.Template()
	for _, chain := range e.rig.Chains {
		c := tmpl
		c.Comment = chain.Comment
		c.RootNodes = chain.RootNodes
		c.ColliderGroups = chain.ColliderGroups
		c.Center = chain.Center
		h, err := e.world.Activate(c)
		if err != nil {
			return err
		}
		if h.Valid() {
			e.handles = append(e.handles, h)
		}
	}
	return nil
}

// Close tears down the world.
func (e *Experiment) Close() error {
	if e.world == nil {
		return nil
	}
	return e.world.Close()
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Rig() *models.Rig             { return e.rig }
func (e *Experiment) World() *sim.World            { return e.world }
func (e *Experiment) Handles() []sim.ChainHandle   { return e.handles }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }
