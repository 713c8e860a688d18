// Package registry owns every registered live document and expands them into
// fully resolved documents.
//
// A Registry keeps, per module, the raw document produced by the parser and
// the expanded document produced by ExpandAll. Modules are ordered by their
// imports; re-registering a module marks it and every module that reaches it
// through imports for re-expansion, so ExpandAll only rebuilds what changed.
//
// A Registry is not safe for concurrent use. Share Snapshot values instead.
package registry

import (
	"errors"
	"fmt"

	"liveweave/internal/live"
	"liveweave/internal/parser"
	"liveweave/internal/source"
	"liveweave/internal/trace"
)

var (
	// ErrUnknownModule is returned for a module that was never registered.
	ErrUnknownModule = errors.New("unknown module")
	// ErrDuplicateModule is returned when two paths claim one module.
	ErrDuplicateModule = errors.New("module registered from another path")
	// ErrComponentNotFound is returned when a component path or its base chain does not resolve.
	ErrComponentNotFound = errors.New("component not found")
	// ErrNoFactory is returned when no deserializer is registered for a component type.
	ErrNoFactory = errors.New("no deserializer registered")
)

type Options struct {
	Tracer         trace.Tracer
	Parser         parser.Options // Reporter is ignored; parse errors come back as *parser.Error
	MaxDiagnostics int            // per ExpandAll pass; 0 means unlimited
}

// File is one registered module.
type File struct {
	Index  live.FileIndex
	Module live.CrateModule
	Path   string
	Source source.FileID
	Doc    *live.Document // raw
}

// DepEntry is a module in dependency order with the import that first named it.
type DepEntry struct {
	Module   live.CrateModule
	Token    live.TokenID
	HasToken bool
}

// depEdge is one imported module and the `use` token that imports it.
type depEdge struct {
	Module live.CrateModule
	Token  live.TokenID
}

type factoryKey struct {
	Module live.CrateModule
	Type   live.Name
}

type Registry struct {
	names  *source.Interner
	fset   *source.FileSet
	opts   Options
	tracer trace.Tracer

	files    []File
	byModule map[live.CrateModule]live.FileIndex
	byPath   map[string]live.FileIndex
	expanded []*live.Document

	depOrder []DepEntry
	depGraph map[live.CrateModule][]depEdge

	factories map[factoryKey]Deserializer
}

// New creates an empty registry. names must come from live.NewInterner so the
// reserved names have their fixed values; nil arguments get fresh instances.
func New(names *source.Interner, fset *source.FileSet, opts Options) *Registry {
	if names == nil {
		names = live.NewInterner()
	}
	if fset == nil {
		fset = source.NewFileSet()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	opts.Parser.Reporter = nil
	return &Registry{
		names:     names,
		fset:      fset,
		opts:      opts,
		tracer:    tracer,
		byModule:  make(map[live.CrateModule]live.FileIndex),
		byPath:    make(map[string]live.FileIndex),
		depGraph:  make(map[live.CrateModule][]depEdge),
		factories: make(map[factoryKey]Deserializer),
	}
}

func (r *Registry) Names() *source.Interner { return r.names }
func (r *Registry) FileSet() *source.FileSet { return r.fset }

// Module interns "crate::module".
func (r *Registry) Module(s string) (live.CrateModule, error) {
	return live.ParseCrateModule(r.names, s)
}

func (r *Registry) FormatModule(cm live.CrateModule) string { return cm.Format(r.names) }

// Files returns the registered modules in registration order.
func (r *Registry) Files() []File {
	out := make([]File, len(r.files))
	copy(out, r.files)
	return out
}

// File returns the registration of module.
func (r *Registry) File(module live.CrateModule) (File, bool) {
	fi, ok := r.byModule[module]
	if !ok {
		return File{}, false
	}
	return r.files[fi], true
}

// ModuleOfFile returns the module registered at fi.
func (r *Registry) ModuleOfFile(fi live.FileIndex) (live.CrateModule, bool) {
	if int(fi) >= len(r.files) {
		return live.CrateModule{}, false
	}
	return r.files[fi].Module, true
}

// DepOrder returns a copy of the current dependency order.
func (r *Registry) DepOrder() []DepEntry {
	out := make([]DepEntry, len(r.depOrder))
	copy(out, r.depOrder)
	return out
}

// Imports returns the modules module imports, in source order.
func (r *Registry) Imports(module live.CrateModule) []live.CrateModule {
	edges := r.depGraph[module]
	out := make([]live.CrateModule, len(edges))
	for i, e := range edges {
		out[i] = e.Module
	}
	return out
}

// Expanded returns the expanded document of module. It is empty until the
// first ExpandAll after registration.
func (r *Registry) Expanded(module live.CrateModule) (*live.Document, bool) {
	fi, ok := r.byModule[module]
	if !ok {
		return nil, false
	}
	return r.expanded[fi], true
}

// Node reads a node of an expanded document.
func (r *Registry) Node(ptr live.NodePtr) (live.Node, bool) {
	if int(ptr.File) >= len(r.expanded) {
		return live.Node{}, false
	}
	return r.expanded[ptr.File].At(ptr.Local())
}

// Children returns the child run of the node at ptr.
func (r *Registry) Children(ptr live.NodePtr) []live.Node {
	n, ok := r.Node(ptr)
	if !ok {
		return nil
	}
	return r.expanded[ptr.File].Children(int(ptr.Level), n)
}

// String returns the text of the string node at ptr.
func (r *Registry) String(ptr live.NodePtr) (string, bool) {
	n, ok := r.Node(ptr)
	if !ok || n.Value.Kind != live.ValString {
		return "", false
	}
	return r.expanded[ptr.File].String(n.Value), true
}

// TokenSpan maps a node token to its source span.
func (r *Registry) TokenSpan(tok live.TokenID) (source.Span, bool) {
	if int(tok.File) >= len(r.files) {
		return source.Span{}, false
	}
	return r.files[tok.File].Doc.TokenSpan(tok.Index)
}

// TokenText returns the text of a node token.
func (r *Registry) TokenText(tok live.TokenID) (string, bool) {
	if int(tok.File) >= len(r.files) {
		return "", false
	}
	toks := r.files[tok.File].Doc.Tokens
	if int(tok.Index) >= len(toks) {
		return "", false
	}
	return toks[tok.Index].Text, true
}

func (r *Registry) depIndex(cm live.CrateModule) int {
	for i, e := range r.depOrder {
		if e.Module == cm {
			return i
		}
	}
	return -1
}

func (r *Registry) moduleError(err error, cm live.CrateModule) error {
	return fmt.Errorf("%w: %s", err, r.FormatModule(cm))
}
