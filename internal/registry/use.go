package registry

import (
	"liveweave/internal/diag"
	"liveweave/internal/live"
)

// walkUse binds the names a use node imports into the innermost scope. The
// targets are nodes of the imported module's expanded document.
func (e *expander) walkUse(n live.Node) {
	cm := n.Value.Module
	if cm == e.module {
		return // self import is reported with the module graph
	}
	fi, ok := e.r.byModule[cm]
	if !ok {
		return // reported once per module as a missing dependency
	}
	other := e.r.expanded[fi]
	top := other.LevelLen(0)

	switch {
	case n.ID.IsEmpty():
		e.bindAll(cm, other, 0, 0, top)
	case n.ID.IsSingle():
		idx, ok := other.Find(0, 0, top, n.ID)
		if !ok {
			e.errorf(n.Token, diag.SemImportNotFound, "cannot find import %s in %s", e.format(n.ID), e.r.FormatModule(cm))
			return
		}
		e.scopes.add(n.ID.Name, live.UseTarget(cm, live.LocalPtr{Level: 0, Index: u32(idx)}))
	case n.ID.IsMulti():
		e.usePath(n, cm, other)
	}
}

func (e *expander) usePath(n live.Node, cm live.CrateModule, other *live.Document) {
	segs := e.out.Segments(n.ID)
	level, start, count := 0, 0, other.LevelLen(0)
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg.IsEmpty() {
			if !last {
				e.errorf(n.Token, diag.SemWildcardNotLast, "wildcard must end use path %s", e.format(n.ID))
				return
			}
			e.bindAll(cm, other, level, start, count)
			return
		}
		idx, ok := other.Find(level, start, count, seg)
		if !ok {
			e.errorf(n.Token, diag.SemUsePathNotFound, "use path %s not found in %s", e.format(n.ID), e.r.FormatModule(cm))
			return
		}
		if last {
			e.scopes.add(seg.Name, live.UseTarget(cm, live.LocalPtr{Level: u32(level), Index: u32(idx)}))
			return
		}
		node := other.Nodes[level][idx]
		if node.Value.Kind != live.ValClass {
			e.errorf(n.Token, diag.SemUsePathNotFound, "use path %s: %s is not a class", e.format(n.ID), e.format(seg))
			return
		}
		level, start, count = level+1, int(node.Value.Start), int(node.Value.Count)
	}
}

func (e *expander) bindAll(cm live.CrateModule, other *live.Document, level, start, count int) {
	for i := start; i < start+count; i++ {
		n := other.Nodes[level][i]
		if n.ID.IsSingle() {
			e.scopes.add(n.ID.Name, live.UseTarget(cm, live.LocalPtr{Level: u32(level), Index: u32(i)}))
		}
	}
}
