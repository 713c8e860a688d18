package live

import (
	"fmt"
	"strings"

	"liveweave/internal/source"
)

// FileIndex addresses a registered file inside a registry.
type FileIndex uint32

// LocalPtr addresses a node inside one document.
type LocalPtr struct {
	Level uint32
	Index uint32
}

// NodePtr is a resolved reference to a node of an expanded document.
type NodePtr struct {
	File  FileIndex
	Level uint32
	Index uint32
}

func (p NodePtr) Local() LocalPtr { return LocalPtr{Level: p.Level, Index: p.Index} }

func (p LocalPtr) In(f FileIndex) NodePtr {
	return NodePtr{File: f, Level: p.Level, Index: p.Index}
}

func (p NodePtr) String() string {
	return fmt.Sprintf("@%d:%d:%d", p.File, p.Level, p.Index)
}

type IdKind uint8

const (
	IdEmpty IdKind = iota
	IdSingle
	IdMulti
	IdPtr
)

// Id is an identifier: empty, a single name, a dotted path stored in the
// document's MultiIDs pool, or a resolved node pointer. Comparable by value.
type Id struct {
	Kind  IdKind
	Name  Name    // IdSingle
	Start uint32  // IdMulti
	Count uint32  // IdMulti
	Ptr   NodePtr // IdPtr
}

func Single(n Name) Id {
	if n == NameNone {
		return Id{}
	}
	return Id{Kind: IdSingle, Name: n}
}

func Multi(start, count uint32) Id { return Id{Kind: IdMulti, Start: start, Count: count} }

func PtrID(p NodePtr) Id { return Id{Kind: IdPtr, Ptr: p} }

func (id Id) IsEmpty() bool  { return id.Kind == IdEmpty }
func (id Id) IsSingle() bool { return id.Kind == IdSingle }
func (id Id) IsMulti() bool  { return id.Kind == IdMulti }
func (id Id) IsPtr() bool    { return id.Kind == IdPtr }

// Is reports whether id is the single name n.
func (id Id) Is(n Name) bool { return id.Kind == IdSingle && id.Name == n }

// Segments returns the path segments of a multi id from pool.
func (id Id) Segments(pool []Id) []Id {
	if id.Kind != IdMulti || int(id.Start+id.Count) > len(pool) {
		return nil
	}
	return pool[id.Start : id.Start+id.Count]
}

// Format renders id for messages; pool resolves multi ids.
func (id Id) Format(names *source.Interner, pool []Id) string {
	switch id.Kind {
	case IdEmpty:
		return "*"
	case IdSingle:
		s, _ := names.Lookup(id.Name)
		return s
	case IdMulti:
		parts := make([]string, 0, id.Count)
		for _, seg := range id.Segments(pool) {
			parts = append(parts, seg.Format(names, nil))
		}
		return strings.Join(parts, ".")
	case IdPtr:
		return id.Ptr.String()
	}
	return "?"
}

// CrateModule identifies a module: crate name plus module name.
type CrateModule struct {
	Crate  Name
	Module Name
}

// InCrate replaces the `crate` placeholder with own.
func (cm CrateModule) InCrate(own Name) CrateModule {
	if cm.Crate == NameCrate {
		cm.Crate = own
	}
	return cm
}

func (cm CrateModule) Format(names *source.Interner) string {
	c, _ := names.Lookup(cm.Crate)
	m, _ := names.Lookup(cm.Module)
	return c + "::" + m
}

// ParseCrateModule interns "crate::module".
func ParseCrateModule(names *source.Interner, s string) (CrateModule, error) {
	c, m, ok := strings.Cut(s, "::")
	if !ok || c == "" || m == "" || strings.Contains(m, "::") {
		return CrateModule{}, fmt.Errorf("invalid module %q: want crate::module", s)
	}
	return CrateModule{Crate: names.Intern(c), Module: names.Intern(m)}, nil
}

// TokenID addresses a token of a raw document: the file that declared a node
// and the index of its key token.
type TokenID struct {
	File  FileIndex
	Index uint32
}
