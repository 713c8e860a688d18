package registry

import (
	"liveweave/internal/live"
	"liveweave/internal/source"
)

// Snapshot is an immutable copy of the expanded state, safe to share across
// goroutines and to serialize.
type Snapshot struct {
	Names   []string         `msgpack:"names"`
	Modules []SnapshotModule `msgpack:"modules"`
}

type SnapshotModule struct {
	Module  string         `msgpack:"module"` // crate::module
	Path    string         `msgpack:"path"`
	Imports []string       `msgpack:"imports"` // crate::module, source order
	Doc     *live.Document `msgpack:"doc"`
}

// Snapshot deep-copies every expanded document, indexed by FileIndex.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		Names:   r.names.Snapshot(),
		Modules: make([]SnapshotModule, len(r.files)),
	}
	for i, f := range r.files {
		var imports []string
		for _, cm := range r.Imports(f.Module) {
			imports = append(imports, r.FormatModule(cm))
		}
		s.Modules[i] = SnapshotModule{
			Module:  r.FormatModule(f.Module),
			Path:    f.Path,
			Imports: imports,
			Doc:     r.expanded[i].Clone(),
		}
	}
	return s
}

// Interner rebuilds the names table the snapshot's ids refer to.
func (s *Snapshot) Interner() *source.Interner { return source.NewInternerFrom(s.Names) }

// Module returns the document of "crate::module".
func (s *Snapshot) Module(name string) (*live.Document, live.FileIndex, bool) {
	for i, m := range s.Modules {
		if m.Module == name {
			return m.Doc, live.FileIndex(i), true // #nosec G115 -- bounded by registry size
		}
	}
	return nil, 0, false
}

// Node reads a node by pointer.
func (s *Snapshot) Node(ptr live.NodePtr) (live.Node, bool) {
	if int(ptr.File) >= len(s.Modules) {
		return live.Node{}, false
	}
	return s.Modules[ptr.File].Doc.At(ptr.Local())
}
