package registry

import (
	"slices"

	"liveweave/internal/live"
)

// copyChildren copies src.Nodes[level][start:start+count] to the end of
// outLevel, skipping use nodes, and returns the new range. bind registers the
// copies in the innermost scope.
func (e *expander) copyChildren(src *live.Document, srcModule live.CrateModule, level int, start, count uint32, outLevel int, bind bool) (uint32, uint32) {
	newStart := e.out.LevelLen(outLevel)
	for i := start; i < start+count; i++ {
		n := src.Nodes[level][i]
		if n.Value.Kind == live.ValUse {
			continue
		}
		n.Value = e.copyValue(src, srcModule, level, n.Value, outLevel)
		n.ID = e.rehomeID(src, n.ID)
		p := live.LocalPtr{Level: u32(outLevel), Index: e.out.PushNode(outLevel, n)}
		if bind {
			e.bind(p)
		}
	}
	return u32(newStart), u32(e.out.LevelLen(outLevel) - newStart)
}

// copyValue copies v, found at level of src, for a node placed at outLevel.
// Values from another module's document get their strings, fn tokens and
// scope snapshots, and dotted ids moved into the output pools.
func (e *expander) copyValue(src *live.Document, srcModule live.CrateModule, level int, v live.Value, outLevel int) live.Value {
	foreign := src != e.out
	switch v.Kind {
	case live.ValClass, live.ValObject, live.ValArray, live.ValCall:
		v.Start, v.Count = e.copyChildren(src, srcModule, level+1, v.Start, v.Count, outLevel+1, false)
		v.Ref = e.rehomeID(src, v.Ref)
	case live.ValId:
		v.Ref = e.rehomeID(src, v.Ref)
	case live.ValString:
		if foreign {
			v = e.out.AddString(src.String(v))
		}
	case live.ValFn:
		if foreign {
			tokStart := len(e.out.Tokens)
			e.out.Tokens = append(e.out.Tokens, src.Tokens[v.Start:v.Start+v.Count]...)
			scopeStart := len(e.out.Scopes)
			for _, s := range src.Scopes[v.ScopeStart : v.ScopeStart+v.ScopeCount] {
				e.out.Scopes = append(e.out.Scopes, s.Reexported(srcModule))
			}
			v = live.FnValue(u32(tokStart), v.Count, u32(scopeStart), v.ScopeCount)
		}
	}
	return v
}

func (e *expander) rehomeID(src *live.Document, id live.Id) live.Id {
	if !id.IsMulti() || src == e.out {
		return id
	}
	return e.out.AddMulti(slices.Clone(src.Segments(id)))
}
