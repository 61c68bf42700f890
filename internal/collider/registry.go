package collider

import (
	"slices"
	"sync"

	"github.com/san-kum/springbone/internal/vmath"
)

// Registry stores collider groups in registration order.
//
// Structural calls (Register, Unregister) are serialized by an internal
// lock. Ordered hands out the live group records. SetAnchorPose may run
// from several goroutines as long as each writes a different group.
type Registry struct {
	mu      sync.RWMutex
	groups  map[GroupID]*Group
	order   []*Group
	next    GroupID
	spheres int
}

func NewRegistry() *Registry {
	return &Registry{
		groups: make(map[GroupID]*Group),
	}
}

// Register copies cfg into a new group owned by identity.
func (r *Registry) Register(identity Identity, cfg GroupConfig) (GroupID, error) {
	if !cfg.Active() {
		return 0, ErrEmptyGroup
	}

	spheres := make([]Sphere, len(cfg.Spheres))
	for i, s := range cfg.Spheres {
		spheres[i] = s.Clamped()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	g := &Group{
		ID:       r.next,
		Identity: identity,
		Anchor:   cfg.Anchor,
		Spheres:  spheres,
		Pose:     vmath.IdentityPose(),
	}
	r.groups[g.ID] = g
	r.order = append(r.order, g)
	r.spheres += len(spheres)
	return g.ID, nil
}

// Unregister drops a group. Unknown ids are ignored.
func (r *Registry) Unregister(id GroupID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[id]
	if !ok {
		return false
	}
	delete(r.groups, id)
	r.order = slices.DeleteFunc(r.order, func(x *Group) bool { return x.ID == id })
	r.spheres -= len(g.Spheres)
	return true
}

// CollidersOf returns the group's spheres. The slice must not be modified.
func (r *Registry) CollidersOf(id GroupID) []Sphere {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.groups[id]; ok {
		return g.Spheres
	}
	return nil
}

// Sphere looks up one sphere by handle.
func (r *Registry) Sphere(h SphereHandle) (Sphere, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[h.Group]
	if !ok || h.Index < 0 || h.Index >= len(g.Spheres) {
		return Sphere{}, false
	}
	return g.Spheres[h.Index], true
}

// Group returns the registered record for id.
func (r *Registry) Group(id GroupID) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	return g, ok
}

// SetAnchorPose records the anchor's world pose for the coming frame.
func (r *Registry) SetAnchorPose(id GroupID, pose vmath.Pose) {
	if g, ok := r.Group(id); ok {
		g.Pose = pose
	}
}

// Ordered returns the groups in registration order. The returned slice is
// a snapshot; the group records are shared.
func (r *Registry) Ordered() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered groups.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// SphereCount returns the number of registered spheres.
func (r *Registry) SphereCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.spheres
}
