package registry

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"liveweave/internal/live"
	"liveweave/internal/parser"
	"liveweave/internal/source"
	"liveweave/internal/trace"
)

// Register parses src and registers it as module. A parse failure returns an
// error wrapping parser.ErrParse and leaves modules, dependency order and
// expansions unchanged; the source stays in the FileSet so diagnostics can
// point into it.
func (r *Registry) Register(path string, module live.CrateModule, src []byte) (live.FileIndex, error) {
	span := trace.Begin(r.tracer, trace.ScopeModule, "register", 0).WithExtra("module", r.FormatModule(module))
	defer span.End("")

	id := r.fset.Add(path, src, 0)
	doc, err := parser.Parse(r.fset.Get(id), r.names, r.opts.Parser)
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", r.FormatModule(module), err)
	}
	return r.RegisterDocument(path, module, id, doc)
}

// RegisterFile loads path from disk and registers it.
func (r *Registry) RegisterFile(path string, module live.CrateModule) (live.FileIndex, error) {
	id, err := r.fset.Load(path)
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", r.FormatModule(module), err)
	}
	doc, err := parser.Parse(r.fset.Get(id), r.names, r.opts.Parser)
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", r.FormatModule(module), err)
	}
	return r.RegisterDocument(path, module, id, doc)
}

// RegisterDocument registers an already parsed raw document. doc must have
// been parsed with this registry's interner; the registry takes ownership.
func (r *Registry) RegisterDocument(path string, module live.CrateModule, src source.FileID, doc *live.Document) (live.FileIndex, error) {
	if fi, ok := r.byPath[path]; ok && r.files[fi].Module != module {
		return 0, fmt.Errorf("%w: %s is already registered as %s", ErrDuplicateModule, path, r.FormatModule(r.files[fi].Module))
	}
	fi, existing := r.byModule[module]
	if !existing {
		n, err := safecast.Conv[uint32](len(r.files))
		if err != nil {
			return 0, fmt.Errorf("register %s: %w", r.FormatModule(module), err)
		}
		fi = live.FileIndex(n)
	}

	doc.SetFile(fi)
	edges := r.scanUses(doc, module)

	if r.depIndex(module) < 0 {
		r.depOrder = append(r.depOrder, DepEntry{Module: module})
	} else {
		r.markDirty(module)
	}
	for _, e := range edges {
		r.placeBefore(module, e)
	}
	r.depGraph[module] = edges

	file := File{Index: fi, Module: module, Path: path, Source: src, Doc: doc}
	if existing {
		old := r.files[fi].Path
		if old != path {
			delete(r.byPath, old)
		}
		r.files[fi] = file
		r.expanded[fi].Recompile = true
	} else {
		r.files = append(r.files, file)
		r.expanded = append(r.expanded, &live.Document{Recompile: true})
		r.byModule[module] = fi
	}
	r.byPath[path] = fi
	return fi, nil
}

// scanUses rewrites `crate::` imports to the module's own crate and returns
// the imported modules in source order, without duplicates or self imports.
func (r *Registry) scanUses(doc *live.Document, module live.CrateModule) []depEdge {
	var edges []depEdge
	for level := range doc.Nodes {
		for i := range doc.Nodes[level] {
			n := &doc.Nodes[level][i]
			if n.Value.Kind != live.ValUse {
				continue
			}
			n.Value.Module = n.Value.Module.InCrate(module.Crate)
			cm := n.Value.Module
			if cm == module || slices.ContainsFunc(edges, func(e depEdge) bool { return e.Module == cm }) {
				continue
			}
			edges = append(edges, depEdge{Module: cm, Token: n.Token})
		}
	}
	return edges
}

// placeBefore keeps an import ahead of its importer in dep order: an absent
// module is inserted just before it, one found later is moved there.
func (r *Registry) placeBefore(module live.CrateModule, e depEdge) {
	self := r.depIndex(module)
	dep := r.depIndex(e.Module)
	switch {
	case dep < 0:
		r.depOrder = slices.Insert(r.depOrder, self, DepEntry{Module: e.Module, Token: e.Token, HasToken: true})
	case dep > self:
		entry := r.depOrder[dep]
		r.depOrder = slices.Delete(r.depOrder, dep, dep+1)
		r.depOrder = slices.Insert(r.depOrder, self, entry)
	}
}

// markDirty flags module and every module that reaches it through imports.
func (r *Registry) markDirty(module live.CrateModule) {
	visited := map[live.CrateModule]struct{}{}
	work := []live.CrateModule{module}
	for len(work) > 0 {
		cm := work[len(work)-1]
		work = work[:len(work)-1]
		if _, seen := visited[cm]; seen {
			continue
		}
		visited[cm] = struct{}{}
		if fi, ok := r.byModule[cm]; ok {
			r.expanded[fi].Recompile = true
		}
		for importer, edges := range r.depGraph {
			if _, seen := visited[importer]; seen {
				continue
			}
			if slices.ContainsFunc(edges, func(e depEdge) bool { return e.Module == cm }) {
				work = append(work, importer)
			}
		}
	}
}
