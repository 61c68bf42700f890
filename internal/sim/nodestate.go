package sim

// NodeStates copies the current node state. buf is reused when large enough.
func (w *World) NodeStates(buf []NodeState) []NodeState {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := buf[:0]
	for c := range w.chains {
		rec := &w.chains[c]
		if !rec.alive {
			continue
		}
		h := ChainHandle{index: uint32(c), gen: rec.gen}
		for _, i := range rec.slots {
			if !w.nodes.present[i] {
				continue
			}
			out = append(out, NodeState{
				Chain:      h,
				Node:       w.nodes.scene[i],
				Identity:   rec.identity,
				Position:   w.nodes.solvedFrom[i],
				Tail:       w.nodes.worldTail[i],
				RestLength: w.nodes.restLength[i],
				HitRadius:  rec.params.HitRadius,
			})
		}
	}
	return out
}
