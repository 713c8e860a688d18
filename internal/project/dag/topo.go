package dag

import "slices"

// Topo is the expansion order of the registered modules.
type Topo struct {
	Order   []ModuleID   // acyclic part, dependencies first
	Batches [][]ModuleID // waves of Order whose members do not import each other
	Cyclic  bool
	Cycles  []ModuleID // modules left on or behind a cycle, ascending
}

// Sequence returns Order followed by Cycles: every present module once.
func (t *Topo) Sequence() []ModuleID {
	return slices.Concat(t.Order, t.Cycles)
}

// ToposortKahn peels modules with no pending imports wave by wave. Each
// wave is sorted by ID, so the order follows registration order on ties.
func ToposortKahn(g Graph) *Topo {
	pending := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]ModuleID, 0, len(g.Edges))}

	var wave []ModuleID
	for i, present := range g.Present {
		if present && pending[i] == 0 {
			wave = append(wave, toID(i))
		}
	}
	for len(wave) > 0 {
		topo.Batches = append(topo.Batches, wave)
		topo.Order = append(topo.Order, wave...)
		var ready []ModuleID
		for _, from := range wave {
			for _, to := range g.Edges[from] {
				if !g.Present[to] {
					continue
				}
				if pending[to]--; pending[to] == 0 {
					ready = append(ready, to)
				}
			}
		}
		slices.Sort(ready)
		wave = ready
	}

	for i, present := range g.Present {
		if present && pending[i] > 0 {
			topo.Cycles = append(topo.Cycles, toID(i))
		}
	}
	topo.Cyclic = len(topo.Cycles) > 0
	return topo
}
