package collider

import "github.com/san-kum/springbone/internal/dynamo"

// Index maps a collider identity to its world spheres for one frame.
// Each identity's spheres are in registration order. An Index is read-only
// once built.
type Index struct {
	buckets map[Identity][]WorldSphere
	count   int
}

// Lookup returns the spheres registered under id.
func (ix *Index) Lookup(id Identity) []WorldSphere {
	if ix == nil {
		return nil
	}
	return ix.buckets[id]
}

// Len returns the number of spheres in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.count
}

// Identities returns the number of distinct identities in the index.
func (ix *Index) Identities() int {
	if ix == nil {
		return 0
	}
	return len(ix.buckets)
}

// Each calls fn for every identity's spheres, in no particular identity
// order.
func (ix *Index) Each(fn func(id Identity, spheres []WorldSphere)) {
	if ix == nil {
		return
	}
	for id, spheres := range ix.buckets {
		fn(id, spheres)
	}
}

type entry struct {
	group  int
	sphere int
}

// BuildIndex resolves every sphere of groups into world space and buckets
// them by identity. Work is split into contiguous ranges of the flattened
// sphere list; per-range buckets are merged in range order.
func BuildIndex(groups []*Group, workers int) *Index {
	entries := make([]entry, 0, 64)
	for gi, g := range groups {
		for si := range g.Spheres {
			entries = append(entries, entry{group: gi, sphere: si})
		}
	}

	ix := &Index{
		buckets: make(map[Identity][]WorldSphere),
		count:   len(entries),
	}
	if len(entries) == 0 {
		return ix
	}

	ranges := dynamo.Ranges(len(entries), dynamo.DefaultMinChunk, workers)
	partial := make([]map[Identity][]WorldSphere, len(ranges))

	dynamo.ForEachRange(ranges, func(idx, start, end int) {
		local := make(map[Identity][]WorldSphere)
		for _, e := range entries[start:end] {
			g := groups[e.group]
			local[g.Identity] = append(local[g.Identity], g.World(e.sphere))
		}
		partial[idx] = local
	})

	for _, local := range partial {
		for id, spheres := range local {
			ix.buckets[id] = append(ix.buckets[id], spheres...)
		}
	}
	return ix
}
