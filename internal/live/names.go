// Package live holds the data model of live documents: identifiers, nodes,
// the per-level flattened Document arena and scope records.
//
// Nothing in this package holds Go pointers between nodes. A node's children
// are a contiguous run in the next level addressed by start and count, and a
// resolved reference is a NodePtr value (file, level, index).
package live

import (
	"liveweave/internal/source"
)

// Name is an interned identifier.
type Name = source.StringID

// Reserved names. NewInterner interns them first so the values are fixed.
const (
	NameNone Name = iota
	NameSelf
	NameComponent
	NameEnum
	NameStruct
	NameShader
	NameCrate
)

var reserved = [...]string{
	NameSelf:      "Self",
	NameComponent: "Component",
	NameEnum:      "Enum",
	NameStruct:    "Struct",
	NameShader:    "Shader",
	NameCrate:     "crate",
}

// NewInterner returns an interner with the reserved names pre-interned.
func NewInterner() *source.Interner {
	in := source.NewInterner()
	for _, s := range reserved[1:] {
		in.Intern(s)
	}
	return in
}

// IsPrimitiveBase reports whether n is one of the closed set of base kinds
// a class may derive from without naming another class.
func IsPrimitiveBase(n Name) bool {
	switch n {
	case NameComponent, NameEnum, NameStruct, NameShader:
		return true
	}
	return false
}
