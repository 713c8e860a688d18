package registry

import (
	"strings"

	"liveweave/internal/live"
	"liveweave/internal/source"
)

// Reader gives access to expanded documents by file index. Both Registry and
// Snapshot implement it.
type Reader interface {
	Document(fi live.FileIndex) (*live.Document, bool)
}

// Document returns the expanded document at fi.
func (r *Registry) Document(fi live.FileIndex) (*live.Document, bool) {
	if int(fi) >= len(r.expanded) || r.expanded[fi] == nil {
		return nil, false
	}
	return r.expanded[fi], true
}

// Document returns the document at fi.
func (s *Snapshot) Document(fi live.FileIndex) (*live.Document, bool) {
	if int(fi) >= len(s.Modules) {
		return nil, false
	}
	return s.Modules[fi].Doc, true
}

// Export converts the node at ptr into plain Go values:
//
//	bool, int64, float64, string     scalars and strings
//	int64                            colors as 0xRRGGBBAA
//	[]any                            vectors and arrays
//	map[string]any                   classes and objects, keyed by member name
//	map[string]any{"call", "args"}   calls
//	map[string]any{"fn"}             fn bodies as source text
//
// Resolved references are followed; a reference loop or an unresolved name
// exports as the reference text.
func Export(rd Reader, names *source.Interner, ptr live.NodePtr) any {
	x := exporter{rd: rd, names: names, seen: map[live.NodePtr]struct{}{}}
	return x.node(ptr)
}

// Export is Export(r, r.Names(), ptr).
func (r *Registry) Export(ptr live.NodePtr) any { return Export(r, r.names, ptr) }

type exporter struct {
	rd    Reader
	names *source.Interner
	seen  map[live.NodePtr]struct{}
}

func (x *exporter) node(ptr live.NodePtr) any {
	doc, ok := x.rd.Document(ptr.File)
	if !ok {
		return nil
	}
	n, ok := doc.At(ptr.Local())
	if !ok {
		return nil
	}
	v := n.Value
	switch v.Kind {
	case live.ValBool:
		return v.Bool()
	case live.ValInt:
		return v.Int
	case live.ValFloat:
		return v.Float()
	case live.ValColor:
		return int64(v.Color())
	case live.ValVec2:
		return []any{v.Vec[0], v.Vec[1]}
	case live.ValVec3:
		return []any{v.Vec[0], v.Vec[1], v.Vec[2]}
	case live.ValString:
		return doc.String(v)
	case live.ValId:
		if !v.Ref.IsPtr() {
			return v.Ref.Format(x.names, doc.MultiIDs)
		}
		if _, loop := x.seen[ptr]; loop {
			return v.Ref.Ptr.String()
		}
		x.seen[ptr] = struct{}{}
		defer delete(x.seen, ptr)
		return x.node(v.Ref.Ptr)
	case live.ValClass, live.ValObject:
		out := make(map[string]any, v.Count)
		x.each(ptr, v, func(child live.NodePtr, c live.Node) {
			if c.ID.IsSingle() {
				out[x.names.MustLookup(c.ID.Name)] = x.node(child)
			}
		})
		return out
	case live.ValArray:
		out := make([]any, 0, v.Count)
		x.each(ptr, v, func(child live.NodePtr, _ live.Node) { out = append(out, x.node(child)) })
		return out
	case live.ValCall:
		args := make([]any, 0, v.Count)
		x.each(ptr, v, func(child live.NodePtr, _ live.Node) { args = append(args, x.node(child)) })
		return map[string]any{"call": x.refName(v.Ref, doc), "args": args}
	case live.ValFn:
		end := min(int(v.Start+v.Count), len(doc.Tokens))
		parts := make([]string, 0, v.Count)
		for _, t := range doc.Tokens[v.Start:end] {
			parts = append(parts, t.Text)
		}
		return map[string]any{"fn": strings.Join(parts, " ")}
	}
	return nil
}

func (x *exporter) each(ptr live.NodePtr, v live.Value, fn func(live.NodePtr, live.Node)) {
	doc, _ := x.rd.Document(ptr.File)
	level := ptr.Level + 1
	for i := v.Start; i < v.Start+v.Count; i++ {
		child := live.NodePtr{File: ptr.File, Level: level, Index: i}
		if c, ok := doc.At(child.Local()); ok {
			fn(child, c)
		}
	}
}

// refName names what a call target resolved to.
func (x *exporter) refName(id live.Id, doc *live.Document) string {
	if !id.IsPtr() {
		return id.Format(x.names, doc.MultiIDs)
	}
	tdoc, ok := x.rd.Document(id.Ptr.File)
	if !ok {
		return id.Ptr.String()
	}
	if n, ok := tdoc.At(id.Ptr.Local()); ok && n.ID.IsSingle() {
		return x.names.MustLookup(n.ID.Name)
	}
	return id.Ptr.String()
}
