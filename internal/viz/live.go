package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/experiment"
	"github.com/san-kum/springbone/internal/metrics"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

const (
	width           = 72
	height          = 22
	historyCapacity = 240
	paramStep       = 0.1
)

type TickMsg time.Time

type reloadMsg struct{ cfg *config.Config }

type reloadErrMsg struct{ err error }

// Model steps an experiment's world on every tick and draws its bones,
// tails and collider spheres on a braille canvas.
type Model struct {
	ctx     context.Context
	exp     *experiment.Experiment
	anim    sim.Animator
	watcher *config.Watcher

	frame   sim.Frame
	t       float64
	running bool
	err     error
	reloads int

	canvas *Canvas
	camera *Camera

	speed    *metrics.TailSpeed
	speedHst []float64
}

// NewModel wraps an experiment that has already been set up. watcher may
// be nil; when set, every config it reports replaces the chain
// parameters.
func NewModel(ctx context.Context, exp *experiment.Experiment, watcher *config.Watcher) Model {
	rig := exp.Rig()
	target := vmath.Vec3{0, 1.2, 0}
	distance := float32(4)
	if len(rig.Characters) > 1 {
		target = vmath.Vec3{0, 1, 0}
		distance = exp.Config().Rig.Width * 1.5
	}
	return Model{
		ctx:      ctx,
		exp:      exp,
		anim:     rig.Animator(exp.Config().Rig.Sway),
		watcher:  watcher,
		frame:    sim.Frame{Dt: exp.Config().Dt},
		running:  true,
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(target, distance),
		speed:    metrics.NewTailSpeed(),
		speedHst: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Configs:
			if !ok {
				return nil
			}
			return reloadMsg{cfg}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return reloadErrMsg{err}
		}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForConfig(m.watcher))
}

// Update handles input, config reloads and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case reloadMsg:
		m.apply(msg.cfg.Chain)
		m.reloads++
		return m, waitForConfig(m.watcher)
	case reloadErrMsg:
		m.err = msg.err
		return m, waitForConfig(m.watcher)
	case TickMsg:
		if m.running {
			if err := m.step(); err != nil {
				m.err = err
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chain := m.exp.Config().Chain
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "g":
		chain.GravityPower -= paramStep
		m.apply(chain)
	case "G":
		chain.GravityPower += paramStep
		m.apply(chain)
	case "s":
		chain.Stiffness -= paramStep
		m.apply(chain)
	case "S":
		chain.Stiffness += paramStep
		m.apply(chain)
	case "r":
		m.apply(chain)
	case "left", "h":
		m.camera.Orbit(-0.1, 0)
	case "right", "l":
		m.camera.Orbit(0.1, 0)
	case "up", "k":
		m.camera.Orbit(0, 0.1)
	case "down", "j":
		m.camera.Orbit(0, -0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

// apply clamps chain into range and reactivates every chain with it.
func (m *Model) apply(chain config.ChainConfig) {
	chain.Stiffness = max(0, min(chain.Stiffness, bone.MaxStiffness))
	chain.GravityPower = max(0, min(chain.GravityPower, bone.MaxGravityPower))
	chain.DragForce = max(0, min(chain.DragForce, bone.MaxDragForce))
	chain.HitRadius = max(0, min(chain.HitRadius, bone.MaxHitRadius))

	cfg := *m.exp.Config()
	cfg.Chain = chain
	if err := m.exp.Rebuild(&cfg); err != nil {
		m.err = err
		return
	}
	m.err = nil
}

func (m *Model) step() error {
	m.anim.Animate(m.t)
	if err := m.exp.World().Step(m.ctx, float32(m.frame.Dt)); err != nil {
		return err
	}
	m.t += m.frame.Dt

	world := m.exp.World()
	m.frame.Time = m.t
	m.frame.Nodes = world.NodeStates(m.frame.Nodes)
	m.frame.Index = world.Index()
	m.frame.Degenerate = world.Stats().LastDegenerate

	m.speed.Observe(&m.frame)
	m.speedHst = append(m.speedHst, m.speed.Last())
	if len(m.speedHst) > historyCapacity {
		m.speedHst = m.speedHst[1:]
	}
	return nil
}

// draw renders the last frame onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()

	m.frame.Index.Each(func(_ collider.Identity, spheres []collider.WorldSphere) {
		for _, s := range spheres {
			x, y, d, ok := m.camera.Project(s.Position, w, h)
			if ok {
				m.canvas.DrawCircle(x, y, m.camera.Scale(s.Radius, d, w, h))
			}
		}
	})

	for _, n := range m.frame.Nodes {
		x0, y0, _, ok0 := m.camera.Project(n.Position, w, h)
		x1, y1, _, ok1 := m.camera.Project(n.Tail, w, h)
		if ok0 && ok1 {
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()
	cfg := m.exp.Config()
	stats := m.exp.World().Stats()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(cfg.Model)) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Chains", fmt.Sprintf("%d", stats.Chains))
	row("Nodes", fmt.Sprintf("%d", stats.Nodes))
	row("Spheres", fmt.Sprintf("%d", stats.Spheres))
	row("Frame", stats.LastFrame.String())
	row("Degenerate", fmt.Sprintf("%d", stats.Degenerate))
	row("Stiffness", fmt.Sprintf("%.2f", cfg.Chain.Stiffness))
	row("Gravity", fmt.Sprintf("%.2f", cfg.Chain.GravityPower))
	row("Drag", fmt.Sprintf("%.2f", cfg.Chain.DragForce))
	if m.watcher != nil {
		row("Reloads", fmt.Sprintf("%d", m.reloads))
	}

	if len(m.speedHst) > 1 {
		s.WriteString("\n" + asciigraph.Plot(m.speedHst, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("tail speed")) + "\n")
		s.WriteString(Sparkline(m.speedHst, 30) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Rebuild Q:Quit\ng/G:Gravity s/S:Stiffness\n←→↑↓:Orbit +/-:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
}

// Run starts the viewer on the terminal's alternate screen.
func Run(ctx context.Context, exp *experiment.Experiment, watcher *config.Watcher) error {
	_, err := tea.NewProgram(NewModel(ctx, exp, watcher), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
