package sim

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/dynamo"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/solver"
	"github.com/san-kum/springbone/internal/vmath"
)

// ChainHandle names an active chain. Handles of deactivated chains are
// rejected by every World method.
type ChainHandle struct {
	index uint32
	gen   uint32
}

// InvalidChain is returned when a config was silently not activated.
var InvalidChain = ChainHandle{}

func (h ChainHandle) Valid() bool { return h.gen != 0 }

func (h ChainHandle) String() string {
	if !h.Valid() {
		return "chain(invalid)"
	}
	return fmt.Sprintf("chain(%d#%d)", h.index, h.gen)
}

type chainRecord struct {
	gen      uint32
	alive    bool
	name     string
	params   solver.Params
	identity collider.Identity
	groups   []collider.GroupID
	center   scene.NodeID
	frame    vmath.Frame
	// slots in parent-first order
	slots []int
}

// ChainInfo describes an active chain.
type ChainInfo struct {
	Handle   ChainHandle
	Name     string
	Identity collider.Identity
	Nodes    int
	Groups   int
	Center   scene.NodeID
}

// Stats are counters maintained by Step.
type Stats struct {
	Frames     uint64
	Chains     int
	Nodes      int
	Groups     int
	Spheres    int
	Skipped    int
	Degenerate uint64
	LastFrame  time.Duration
	// LastDegenerate counts guarded normalizations in the last frame.
	LastDegenerate int
}

// World owns every active chain and runs the per-frame pipeline against
// a host scene. Activate, Deactivate and Step serialize on one lock, so
// structural changes land between frames.
type World struct {
	mu sync.Mutex

	graph    scene.Hierarchy
	registry *collider.Registry
	nodes    nodeStore
	chains   []chainRecord
	free     []uint32
	identity collider.Identity
	bySlot   map[scene.NodeID]int

	index *collider.Index
	snaps *snapshotPool
	stats Stats

	workers int
	logger  *log.Logger
	closed  bool
}

type Option func(*World)

// WithWorkers bounds the goroutines of each parallel stage. n <= 0 uses
// one per CPU.
func WithWorkers(n int) Option {
	return func(w *World) { w.workers = n }
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

func NewWorld(graph scene.Hierarchy, opts ...Option) *World {
	w := &World{
		graph:    graph,
		registry: collider.NewRegistry(),
		bySlot:   make(map[scene.NodeID]int),
		snaps:    newSnapshotPool(),
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry exposes the world's collider registry.
func (w *World) Registry() *collider.Registry { return w.registry }

// Activate builds a chain from cfg and starts simulating it on the next
// frame. Configs without roots and chains with a zero-length bone are
// skipped: InvalidChain and a nil error are returned. Missing root,
// center or collider anchor nodes are reported as errors.
func (w *World) Activate(cfg bone.ChainConfig) (ChainHandle, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		w.logger.Printf("skip chain %q: %v", cfg.Comment, err)
		return InvalidChain, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return InvalidChain, dynamo.ErrWorldClosed
	}

	if err := w.checkNodes(cfg); err != nil {
		return InvalidChain, err
	}

	specs, err := bone.BuildChain(w.graph, cfg.RootNodes)
	if err != nil {
		if dynamo.IsSilent(err) {
			w.logger.Printf("skip chain %q: %v", cfg.Comment, err)
			return InvalidChain, nil
		}
		var aerr *dynamo.ActivationError
		if errors.As(err, &aerr) {
			aerr.Chain = cfg.Comment
		}
		return InvalidChain, err
	}

	w.identity++
	rec := chainRecord{
		alive:    true,
		name:     cfg.Comment,
		params:   solver.ParamsFrom(cfg),
		identity: w.identity,
		center:   cfg.Center,
		frame:    vmath.IdentityFrame(),
		slots:    make([]int, len(specs)),
	}
	if rec.center != scene.NoNode {
		rec.frame = vmath.NewFrame(w.graph.WorldMatrix(rec.center))
	}

	for _, g := range cfg.ActiveGroups() {
		id, err := w.registry.Register(rec.identity, g)
		if err != nil {
			w.unregister(rec.groups)
			return InvalidChain, err
		}
		rec.groups = append(rec.groups, id)
	}

	idx := w.allocChain()
	for i, spec := range specs {
		slot := w.nodes.alloc()
		parent := int32(-1)
		if spec.Parent >= 0 {
			parent = int32(rec.slots[spec.Parent])
		}
		tail := spec.InitialTail
		if rec.center != scene.NoNode {
			tail = rec.frame.Local(tail)
		}
		w.nodes.init(slot, idx, parent, spec, tail, w.graph.WorldRotation(spec.Node))
		rec.slots[i] = slot
		w.bySlot[spec.Node] = slot
	}

	rec.gen = w.chains[idx].gen
	w.chains[idx] = rec

	h := ChainHandle{index: idx, gen: rec.gen}
	w.logger.Printf("activated %v %q: %d nodes, %d collider groups", h, rec.name, len(specs), len(rec.groups))
	return h, nil
}

func (w *World) checkNodes(cfg bone.ChainConfig) error {
	for _, root := range cfg.RootNodes {
		if !w.graph.Exists(root) {
			return &dynamo.ActivationError{Chain: cfg.Comment, Root: uint32(root), Wrapped: dynamo.ErrMissingNode}
		}
	}
	if cfg.Center != scene.NoNode && !w.graph.Exists(cfg.Center) {
		return &dynamo.ActivationError{
			Chain:   cfg.Comment,
			Root:    uint32(cfg.RootNodes[0]),
			Wrapped: fmt.Errorf("center %d: %w", cfg.Center, dynamo.ErrMissingNode),
		}
	}
	for _, g := range cfg.ActiveGroups() {
		if !w.graph.Exists(g.Anchor) {
			return &dynamo.ActivationError{
				Chain:   cfg.Comment,
				Root:    uint32(cfg.RootNodes[0]),
				Wrapped: fmt.Errorf("collider anchor %d: %w", g.Anchor, dynamo.ErrMissingNode),
			}
		}
	}
	return nil
}

func (w *World) allocChain() uint32 {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		w.chains[idx].gen++
		return idx
	}
	w.chains = append(w.chains, chainRecord{gen: 1})
	return uint32(len(w.chains) - 1)
}

func (w *World) unregister(groups []collider.GroupID) {
	for _, id := range groups {
		w.registry.Unregister(id)
	}
}

func (w *World) lookup(h ChainHandle) (*chainRecord, bool) {
	if !h.Valid() || int(h.index) >= len(w.chains) {
		return nil, false
	}
	rec := &w.chains[h.index]
	if !rec.alive || rec.gen != h.gen {
		return nil, false
	}
	return rec, true
}

// Deactivate releases the chain's nodes and colliders. It never touches the
// scene, so it is safe after the chain's nodes were destroyed. Stale or
// unknown handles return false.
func (w *World) Deactivate(h ChainHandle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deactivate(h)
}

func (w *World) deactivate(h ChainHandle) bool {
	rec, ok := w.lookup(h)
	if !ok {
		return false
	}

	for _, slot := range rec.slots {
		node := w.nodes.scene[slot]
		if w.bySlot[node] == slot {
			delete(w.bySlot, node)
		}
		w.nodes.release(slot)
	}
	w.unregister(rec.groups)

	gen := rec.gen
	*rec = chainRecord{gen: gen}
	w.free = append(w.free, h.index)

	w.logger.Printf("deactivated %v", h)
	return true
}

// Chain reports the state of one active chain.
func (w *World) Chain(h ChainHandle) (ChainInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.lookup(h)
	if !ok {
		return ChainInfo{}, fmt.Errorf("%w: %v", dynamo.ErrUnknownChain, h)
	}
	return rec.info(h), nil
}

// Chains lists the active chains in handle order.
func (w *World) Chains() []ChainInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]ChainInfo, 0, len(w.chains))
	for i := range w.chains {
		rec := &w.chains[i]
		if !rec.alive {
			continue
		}
		out = append(out, rec.info(ChainHandle{index: uint32(i), gen: rec.gen}))
	}
	return out
}

func (rec *chainRecord) info(h ChainHandle) ChainInfo {
	return ChainInfo{
		Handle:   h,
		Name:     rec.name,
		Identity: rec.identity,
		Nodes:    len(rec.slots),
		Groups:   len(rec.groups),
		Center:   rec.center,
	}
}

// NodeCount returns the number of live solver nodes.
func (w *World) NodeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nodes.live
}

// Capacity returns the number of node slots, live or free.
func (w *World) Capacity() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nodes.cap()
}

func (w *World) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.Nodes = w.nodes.live
	s.Chains = len(w.chains) - len(w.free)
	s.Groups = w.registry.Len()
	s.Spheres = w.registry.SphereCount()
	return s
}

// Err reports what the last frame skipped or guarded, or nil for a clean
// frame. Both cases are tolerated by Step.
func (s Stats) Err() error {
	var errs []error
	if s.Skipped > 0 {
		errs = append(errs, fmt.Errorf("%w: %d nodes skipped", dynamo.ErrDanglingReference, s.Skipped))
	}
	if s.LastDegenerate > 0 {
		errs = append(errs, fmt.Errorf("%w: %d guarded", dynamo.ErrNumericDegeneracy, s.LastDegenerate))
	}
	return errors.Join(errs...)
}

// Tail returns the world tail of the solver node driving node.
func (w *World) Tail(node scene.NodeID) (vmath.Vec3, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	slot, ok := w.bySlot[node]
	if !ok {
		return vmath.Vec3{}, false
	}
	return w.nodes.worldTail[slot], true
}

// Close deactivates every chain. Later calls to Activate and Step fail
// with ErrWorldClosed.
func (w *World) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	for i := range w.chains {
		rec := &w.chains[i]
		if rec.alive {
			w.deactivate(ChainHandle{index: uint32(i), gen: rec.gen})
		}
	}
	w.closed = true
	w.index = nil
	return nil
}
