package registry

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/project/dag"
	"liveweave/internal/trace"
)

// ExpandAll expands every module flagged for recompilation, dependencies
// first, and returns the diagnostics of the pass. Modules without pending
// changes keep their previous expansion.
func (r *Registry) ExpandAll() *diag.Bag {
	pass := trace.Begin(r.tracer, trace.ScopePass, "expand_all", 0)
	bag := diag.NewBag(r.opts.MaxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	order := make([]live.CrateModule, len(r.depOrder))
	for i, e := range r.depOrder {
		order[i] = e.Module
	}
	idx := dag.BuildIndex(order)
	nodes := make([]dag.ModuleNode, 0, len(r.files))
	for _, cm := range order {
		fi, ok := r.byModule[cm]
		if !ok {
			continue
		}
		edges := r.depGraph[cm]
		imports := make([]dag.Import, 0, len(edges))
		for _, e := range edges {
			sp, _ := r.TokenSpan(e.Token)
			imports = append(imports, dag.Import{Module: e.Module, Span: sp})
		}
		nodes = append(nodes, dag.ModuleNode{Module: r.files[fi].Module, Imports: imports, Reporter: rep})
	}
	g, slots := dag.BuildGraph(idx, nodes)
	dag.ReportCycles(idx, slots, dag.StronglyConnected(g), r.FormatModule)
	r.reportMissing(rep)

	expanded := 0
	for _, id := range dag.ToposortKahn(g).Sequence() {
		fi := r.byModule[idx.IDToName[int(id)]]
		if !r.expanded[fi].Recompile {
			continue
		}
		r.expand(fi, rep, pass)
		expanded++
	}
	pass.WithExtra("modules", strconv.Itoa(expanded)).End(fmt.Sprintf("%d diagnostics", bag.Len()))
	return bag
}

// reportMissing reports each imported but unregistered module once, at the
// import that first named it when that import still exists.
func (r *Registry) reportMissing(rep diag.Reporter) {
	for _, entry := range r.depOrder {
		if _, ok := r.byModule[entry.Module]; ok {
			continue
		}
		site, ok := r.importSite(entry)
		if !ok {
			continue
		}
		sp, _ := r.TokenSpan(site)
		diag.ReportError(rep, diag.ProjMissingDependency, sp,
			"cannot find dependency "+r.FormatModule(entry.Module)).Emit()
	}
}

func (r *Registry) importSite(entry DepEntry) (live.TokenID, bool) {
	var first *depEdge
	for _, d := range r.depOrder {
		for _, e := range r.depGraph[d.Module] {
			if e.Module != entry.Module {
				continue
			}
			if entry.HasToken && e.Token == entry.Token {
				return e.Token, true
			}
			if first == nil {
				first = &e
			}
		}
	}
	if first == nil {
		return live.TokenID{}, false
	}
	return first.Token, true
}

// expander expands one raw document into a fresh output document.
type expander struct {
	r      *Registry
	module live.CrateModule
	file   live.FileIndex
	in     *live.Document
	out    *live.Document
	scopes scopeStack
	rep    diag.Reporter
}

func (r *Registry) expand(fi live.FileIndex, rep diag.Reporter, pass *trace.Span) {
	f := r.files[fi]
	span := pass.Child(trace.ScopeModule, "expand").WithExtra("module", r.FormatModule(f.Module))
	defer span.End("")

	out := live.NewDocument()
	out.RestartFrom(f.Doc)
	e := &expander{r: r, module: f.Module, file: fi, in: f.Doc, out: out, rep: rep}
	e.scopes.push(0)
	for i := range f.Doc.LevelLen(0) {
		e.walk(0, i, 0, 0, 0)
	}
	r.expanded[fi] = out
}

func u32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("document index overflow: %w", err))
	}
	return n
}

// walk expands in.Nodes[inLevel][inIndex] into the output body at outLevel
// that starts at outStart. The first outCount nodes of the body are inherited
// and may be overridden by name; anything else is appended.
func (e *expander) walk(inLevel, inIndex, outLevel, outStart, outCount int) {
	n := e.in.Nodes[inLevel][inIndex]
	switch n.Value.Kind {
	case live.ValUse:
		e.walkUse(n)
	case live.ValId:
		e.walkIdValue(n, outLevel, outStart, outCount)
	case live.ValClass:
		e.walkClass(n, inLevel, outLevel, outStart, outCount)
	case live.ValObject, live.ValArray:
		e.walkAggregate(n, inLevel, outLevel, outStart, outCount)
	case live.ValCall:
		e.walkCall(n, inLevel, outLevel, outStart, outCount)
	case live.ValFn:
		snap := e.scopes.snapshot()
		start := len(e.out.Scopes)
		e.out.Scopes = append(e.out.Scopes, snap...)
		n.Value = live.FnValue(n.Value.Start, n.Value.Count, u32(start), u32(len(snap)))
		e.write(n, outLevel, outStart, outCount)
	default:
		e.write(n, outLevel, outStart, outCount)
	}
}

// write overrides a same-named inherited node or appends n, and binds it
// when it lands at the level of the innermost scope. A dotted key may reach
// into any body already emitted in this range.
func (e *expander) write(n live.Node, outLevel, outStart, outCount int) (live.LocalPtr, bool) {
	if n.ID.IsMulti() {
		outCount = e.out.LevelLen(outLevel) - outStart
	}
	p, _, err := e.out.WriteOrAddNode(outLevel, outStart, outCount, n)
	if err != nil {
		e.errorf(n.Token, diag.SemPathNotFound, "cannot write %s: %v", e.format(n.ID), err)
		return live.LocalPtr{}, false
	}
	e.bind(p)
	return p, true
}

func (e *expander) bind(p live.LocalPtr) {
	n := e.out.Nodes[p.Level][p.Index]
	if n.ID.IsSingle() {
		e.scopes.bindAt(int(p.Level), n.ID.Name, live.LocalTarget(p))
	}
}

// extraLevels is how far a dotted key shifts its body: one level per extra segment.
func (e *expander) extraLevels(id live.Id) int {
	if !id.IsMulti() {
		return 0
	}
	return len(e.out.Segments(id)) - 1
}

func (e *expander) walkIdValue(n live.Node, outLevel, outStart, outCount int) {
	ref := n.Value.Ref
	if ref.Is(live.NameSelf) || ref.IsSingle() && live.IsPrimitiveBase(ref.Name) {
		e.write(n, outLevel, outStart, outCount)
		return
	}
	ptr, err := e.resolve(ref, outLevel, outStart)
	if err != nil {
		e.report(n.Token, err)
	} else {
		n.Value.Ref = live.PtrID(ptr)
	}
	e.write(n, outLevel, outStart, outCount)
}

func (e *expander) walkClass(n live.Node, inLevel, outLevel, outStart, outCount int) {
	shifted := outLevel + e.extraLevels(n.ID)
	childLevel := shifted + 1
	newStart := e.out.LevelLen(childLevel)
	e.scopes.push(childLevel)

	base := n.Value.Ref
	v := live.ClassValue(base, u32(newStart), 0)
	switch {
	case base.Is(live.NameSelf):
		e.copyChildren(e.out, e.module, outLevel, u32(outStart), u32(e.out.LevelLen(outLevel)-outStart), childLevel, true)
	case base.IsEmpty(), base.IsSingle() && live.IsPrimitiveBase(base.Name):
	default:
		ptr, err := e.resolve(base, outLevel, outStart)
		if err != nil {
			e.report(n.Token, err)
			e.scopes.pop()
			return
		}
		src, srcModule := e.source(ptr)
		bn := src.Nodes[ptr.Level][ptr.Index]
		if bn.Value.Kind != live.ValClass {
			e.scopes.pop()
			if n.Value.Count > 0 {
				e.errorf(n.Token, diag.SemOverrideNonClass, "cannot override items in non-class %s", e.format(base))
				return
			}
			// наследование значения: узел получает копию значения базы под своим именем
			n.Value = e.copyValue(src, srcModule, int(ptr.Level), bn.Value, shifted)
			e.write(n, outLevel, outStart, outCount)
			return
		}
		e.copyChildren(src, srcModule, int(ptr.Level)+1, bn.Value.Start, bn.Value.Count, childLevel, true)
		v.Ref = live.PtrID(ptr)
	}

	inherited := e.out.LevelLen(childLevel) - newStart
	for i := range n.Value.Count {
		e.walk(inLevel+1, int(n.Value.Start+i), childLevel, newStart, inherited)
	}
	v.Count = u32(e.out.LevelLen(childLevel) - newStart)
	e.scopes.pop()
	n.Value = v
	e.write(n, outLevel, outStart, outCount)
}

func (e *expander) walkAggregate(n live.Node, inLevel, outLevel, outStart, outCount int) {
	childLevel := outLevel + e.extraLevels(n.ID) + 1
	newStart := e.out.LevelLen(childLevel)
	for i := range n.Value.Count {
		e.walk(inLevel+1, int(n.Value.Start+i), childLevel, newStart, 0)
	}
	n.Value.Start = u32(newStart)
	n.Value.Count = u32(e.out.LevelLen(childLevel) - newStart)
	e.write(n, outLevel, outStart, outCount)
}

func (e *expander) walkCall(n live.Node, inLevel, outLevel, outStart, outCount int) {
	target := n.Value.Ref
	if !target.IsEmpty() && !target.Is(live.NameSelf) && !(target.IsSingle() && live.IsPrimitiveBase(target.Name)) {
		ptr, err := e.resolve(target, outLevel, outStart)
		switch {
		case err != nil:
			e.report(n.Token, err)
		case e.nodeAt(ptr).Value.Kind != live.ValCall:
			e.errorf(n.Token, diag.SemTargetNotCall, "target %s is not a call", e.format(target))
		default:
			n.Value.Ref = live.PtrID(ptr)
		}
	}
	e.walkAggregate(n, inLevel, outLevel, outStart, outCount)
}
