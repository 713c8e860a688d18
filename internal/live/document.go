package live

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"liveweave/internal/source"
	"liveweave/internal/token"
)

var (
	// ErrPathNotFound is returned when a path segment names no node in its range.
	ErrPathNotFound = errors.New("path not found")
	// ErrNotClass is returned when a path descends through a node without a body.
	ErrNotClass = errors.New("property is not a class")
	// ErrClosedRange is returned when a dotted key would append a child to a
	// body that is no longer the tail of its level.
	ErrClosedRange = errors.New("cannot add to a closed body")
)

// Document is the flattened tree of one file. Nodes[level] holds every node at
// that depth; a node's children are Nodes[level+1][Start:Start+Count].
type Document struct {
	Nodes     [][]Node
	Strings   []byte
	Tokens    []token.Token
	Scopes    []ScopeItem
	MultiIDs  []Id
	Recompile bool
}

func NewDocument() *Document {
	return &Document{}
}

func u32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("document index overflow: %w", err))
	}
	return n
}

// LevelLen returns the number of nodes emitted at level so far.
func (d *Document) LevelLen(level int) int {
	if level >= len(d.Nodes) {
		return 0
	}
	return len(d.Nodes[level])
}

// PushNode appends n at level and returns its index. Levels grow on demand.
func (d *Document) PushNode(level int, n Node) uint32 {
	for len(d.Nodes) <= level {
		d.Nodes = append(d.Nodes, nil)
	}
	d.Nodes[level] = append(d.Nodes[level], n)
	return u32(len(d.Nodes[level]) - 1)
}

// At returns the node at p.
func (d *Document) At(p LocalPtr) (Node, bool) {
	if int(p.Level) >= len(d.Nodes) || int(p.Index) >= len(d.Nodes[p.Level]) {
		return Node{}, false
	}
	return d.Nodes[p.Level][p.Index], true
}

// Children returns the child run of n, which lives at level.
func (d *Document) Children(level int, n Node) []Node {
	if !n.Value.HasChildren() || level+1 >= len(d.Nodes) {
		return nil
	}
	lvl := d.Nodes[level+1]
	end := int(n.Value.Start + n.Value.Count)
	if end > len(lvl) {
		return nil
	}
	return lvl[n.Value.Start:end]
}

// AddString stores s in the string pool.
func (d *Document) AddString(s string) Value {
	start := u32(len(d.Strings))
	d.Strings = append(d.Strings, s...)
	return StringValue(start, u32(len(s)))
}

// String returns the text of a string value.
func (d *Document) String(v Value) string {
	end := int(v.Start + v.Count)
	if v.Kind != ValString || end > len(d.Strings) {
		return ""
	}
	return string(d.Strings[v.Start:end])
}

// AddMulti stores segs in the multi-id pool and returns the dotted id.
func (d *Document) AddMulti(segs []Id) Id {
	start := u32(len(d.MultiIDs))
	d.MultiIDs = append(d.MultiIDs, segs...)
	return Multi(start, u32(len(segs)))
}

// Segments returns the segments of a multi id of this document.
func (d *Document) Segments(id Id) []Id {
	return id.Segments(d.MultiIDs)
}

// TokenSpan returns the source span of token index.
func (d *Document) TokenSpan(index uint32) (source.Span, bool) {
	if int(index) >= len(d.Tokens) {
		return source.Span{}, false
	}
	return d.Tokens[index].Span, true
}

// RestartFrom resets d to start an expansion of raw: node levels and scopes
// are cleared, pools are copied so raw ranges stay valid in d.
func (d *Document) RestartFrom(raw *Document) {
	d.Nodes = nil
	d.Scopes = nil
	d.Strings = slices.Clone(raw.Strings)
	d.Tokens = slices.Clone(raw.Tokens)
	d.MultiIDs = slices.Clone(raw.MultiIDs)
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		Nodes:     make([][]Node, len(d.Nodes)),
		Strings:   slices.Clone(d.Strings),
		Tokens:    slices.Clone(d.Tokens),
		Scopes:    slices.Clone(d.Scopes),
		MultiIDs:  slices.Clone(d.MultiIDs),
		Recompile: d.Recompile,
	}
	for i, lvl := range d.Nodes {
		out.Nodes[i] = slices.Clone(lvl)
	}
	return out
}

// SetFile stamps every node token with f. Parsers produce documents before
// the owning registry slot is known.
func (d *Document) SetFile(f FileIndex) {
	for _, lvl := range d.Nodes {
		for i := range lvl {
			lvl[i].Token.File = f
		}
	}
}

// Find returns the index of the last node named id in level[start:start+count].
func (d *Document) Find(level, start, count int, id Id) (int, bool) {
	if id.IsEmpty() || level >= len(d.Nodes) {
		return 0, false
	}
	lvl := d.Nodes[level]
	for i := min(start+count, len(lvl)) - 1; i >= start; i-- {
		if lvl[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// ScanPath walks segs starting in level[start:start+count], descending into
// class bodies. Every segment except the last must name a class.
func (d *Document) ScanPath(level, start, count int, segs []Id) (LocalPtr, error) {
	if len(segs) == 0 {
		return LocalPtr{}, ErrPathNotFound
	}
	for i, seg := range segs {
		idx, ok := d.Find(level, start, count, seg)
		if !ok {
			return LocalPtr{}, ErrPathNotFound
		}
		if i == len(segs)-1 {
			return LocalPtr{Level: u32(level), Index: u32(idx)}, nil
		}
		n := d.Nodes[level][idx]
		if n.Value.Kind != ValClass {
			return LocalPtr{}, ErrNotClass
		}
		level, start, count = level+1, int(n.Value.Start), int(n.Value.Count)
	}
	return LocalPtr{}, ErrPathNotFound
}

// ScanForMulti resolves a dotted path from the top level.
func (d *Document) ScanForMulti(names []Name) (LocalPtr, error) {
	segs := make([]Id, len(names))
	for i, n := range names {
		segs[i] = Single(n)
	}
	return d.ScanPath(0, 0, d.LevelLen(0), segs)
}

// WriteOrAddNode writes n into level[start:start+count]: a node with the same
// name is overwritten in place, otherwise n is appended. A dotted name is
// followed through existing class or object bodies first; its last segment is
// written into the innermost body, which may only grow while it is the tail
// of its level. Returns where n landed and whether it was appended.
func (d *Document) WriteOrAddNode(level, start, count int, n Node) (LocalPtr, bool, error) {
	var parent *LocalPtr
	if n.ID.IsMulti() {
		segs := d.Segments(n.ID)
		if len(segs) == 0 {
			return LocalPtr{}, false, ErrPathNotFound
		}
		for _, seg := range segs[:len(segs)-1] {
			idx, ok := d.Find(level, start, count, seg)
			if !ok {
				return LocalPtr{}, false, ErrPathNotFound
			}
			p := d.Nodes[level][idx]
			if p.Value.Kind != ValClass && p.Value.Kind != ValObject {
				return LocalPtr{}, false, ErrNotClass
			}
			parent = &LocalPtr{Level: u32(level), Index: u32(idx)}
			level, start, count = level+1, int(p.Value.Start), int(p.Value.Count)
		}
		n.ID = segs[len(segs)-1]
	}

	if idx, ok := d.Find(level, start, count, n.ID); ok {
		d.Nodes[level][idx] = n
		return LocalPtr{Level: u32(level), Index: u32(idx)}, false, nil
	}
	if parent != nil {
		if start+count != d.LevelLen(level) {
			return LocalPtr{}, false, ErrClosedRange
		}
		d.Nodes[parent.Level][parent.Index].Value.Count++
	}
	idx := d.PushNode(level, n)
	return LocalPtr{Level: u32(level), Index: idx}, true, nil
}
