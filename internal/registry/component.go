package registry

import (
	"fmt"
	"strings"

	"liveweave/internal/live"
)

// Deserializer builds a typed value from the expanded node at ptr.
type Deserializer interface {
	Deserialize(r *Registry, ptr live.NodePtr) (any, error)
}

// DeserializerFunc adapts a function to Deserializer.
type DeserializerFunc func(r *Registry, ptr live.NodePtr) (any, error)

func (f DeserializerFunc) Deserialize(r *Registry, ptr live.NodePtr) (any, error) { return f(r, ptr) }

// RegisterComponent installs the deserializer for components of typeName
// declared in module. A later registration replaces an earlier one.
func (r *Registry) RegisterComponent(module live.CrateModule, typeName string, d Deserializer) {
	r.factories[factoryKey{Module: module, Type: r.names.Intern(typeName)}] = d
}

// CreateComponent finds the class at the dotted path in module, follows its
// base chain to the class deriving from Component, and hands the original
// node to the deserializer registered for that type.
func (r *Registry) CreateComponent(module live.CrateModule, path string) (any, error) {
	start, err := r.LookupClass(module, path)
	if err != nil {
		return nil, err
	}
	key, err := r.componentType(start)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.FormatModule(module), path, err)
	}
	d, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w for %s::%s", ErrNoFactory, r.FormatModule(key.Module), r.names.MustLookup(key.Type))
	}
	v, err := d.Deserialize(r, start)
	if err != nil {
		return nil, fmt.Errorf("deserialize %s %s: %w", r.FormatModule(module), path, err)
	}
	return v, nil
}

// LookupClass resolves a dotted path from the top level of module's expanded
// document to a class node.
func (r *Registry) LookupClass(module live.CrateModule, path string) (live.NodePtr, error) {
	fi, ok := r.byModule[module]
	if !ok {
		return live.NodePtr{}, r.moduleError(ErrUnknownModule, module)
	}
	parts := strings.Split(path, ".")
	names := make([]live.Name, len(parts))
	for i, p := range parts {
		n, ok := r.names.Find(p)
		if !ok || p == "" {
			return live.NodePtr{}, fmt.Errorf("%w: %s in %s", ErrComponentNotFound, path, r.FormatModule(module))
		}
		names[i] = n
	}
	lp, err := r.expanded[fi].ScanForMulti(names)
	if err != nil {
		return live.NodePtr{}, fmt.Errorf("%w: %s in %s: %w", ErrComponentNotFound, path, r.FormatModule(module), err)
	}
	ptr := lp.In(fi)
	if n, _ := r.Node(ptr); n.Value.Kind != live.ValClass {
		return live.NodePtr{}, fmt.Errorf("%w: %s in %s is not a class", ErrComponentNotFound, path, r.FormatModule(module))
	}
	return ptr, nil
}

// componentType walks base pointers until a class whose base is Component.
// The type is that class's declared name in the module that declared it.
func (r *Registry) componentType(ptr live.NodePtr) (factoryKey, error) {
	visited := map[live.NodePtr]struct{}{}
	for {
		if _, seen := visited[ptr]; seen {
			return factoryKey{}, fmt.Errorf("%w: base chain loops at %s", ErrComponentNotFound, ptr)
		}
		visited[ptr] = struct{}{}
		n, ok := r.Node(ptr)
		if !ok || n.Value.Kind != live.ValClass {
			return factoryKey{}, fmt.Errorf("%w: base chain reaches a non-class at %s", ErrComponentNotFound, ptr)
		}
		base := n.Value.Ref
		switch {
		case base.Is(live.NameComponent):
			text, ok := r.TokenText(n.Token)
			if !ok {
				return factoryKey{}, fmt.Errorf("%w: no token for %s", ErrComponentNotFound, ptr)
			}
			module, _ := r.ModuleOfFile(n.Token.File)
			return factoryKey{Module: module, Type: r.names.Intern(text)}, nil
		case base.IsPtr():
			ptr = base.Ptr
		default:
			return factoryKey{}, fmt.Errorf("%w: base of %s is not resolved", ErrComponentNotFound, ptr)
		}
	}
}

// FindEnumOrigin follows resolved references from ptr through id values,
// classes and calls, and returns the name of the node the chain ends at.
func (r *Registry) FindEnumOrigin(ptr live.NodePtr) (live.Name, bool) {
	visited := map[live.NodePtr]struct{}{}
	for {
		if _, seen := visited[ptr]; seen {
			return live.NameNone, false
		}
		visited[ptr] = struct{}{}
		n, ok := r.Node(ptr)
		if !ok {
			return live.NameNone, false
		}
		switch n.Value.Kind {
		case live.ValId, live.ValClass, live.ValCall:
			if n.Value.Ref.IsPtr() {
				ptr = n.Value.Ref.Ptr
				continue
			}
		}
		if !n.ID.IsSingle() {
			return live.NameNone, false
		}
		return n.ID.Name, true
	}
}
