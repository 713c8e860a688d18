// Package testkit holds structural checks shared by parser tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"liveweave/internal/live"
	"liveweave/internal/source"
)

// CheckDocument runs the structural invariants of a flattened document:
//  1. child ranges stay inside the next level
//  2. no node is the child of two parents
//  3. string, token, scope and multi-id ranges stay inside their pools
func CheckDocument(doc *live.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	for level, nodes := range doc.Nodes {
		var owned []bool
		if level+1 < len(doc.Nodes) {
			owned = make([]bool, len(doc.Nodes[level+1]))
		}
		for i, n := range nodes {
			at := fmt.Sprintf("node %d:%d", level, i)
			if err := checkValue(doc, n.Value); err != nil {
				return fmt.Errorf("%s: %w", at, err)
			}
			if err := checkID(doc, n.ID); err != nil {
				return fmt.Errorf("%s id: %w", at, err)
			}
			if !n.Value.HasChildren() || n.Value.Count == 0 {
				continue
			}
			end := int(n.Value.Start) + int(n.Value.Count)
			if end > len(owned) {
				return fmt.Errorf("%s: children %d..%d beyond level %d (len %d)", at, n.Value.Start, end, level+1, len(owned))
			}
			for c := int(n.Value.Start); c < end; c++ {
				if owned[c] {
					return fmt.Errorf("%s: child %d:%d already has a parent", at, level+1, c)
				}
				owned[c] = true
			}
		}
	}
	return nil
}

func checkValue(doc *live.Document, v live.Value) error {
	switch v.Kind {
	case live.ValString:
		if int(v.Start)+int(v.Count) > len(doc.Strings) {
			return fmt.Errorf("string %d+%d beyond pool %d", v.Start, v.Count, len(doc.Strings))
		}
	case live.ValFn:
		if int(v.Start)+int(v.Count) > len(doc.Tokens) {
			return fmt.Errorf("fn tokens %d+%d beyond pool %d", v.Start, v.Count, len(doc.Tokens))
		}
		if int(v.ScopeStart)+int(v.ScopeCount) > len(doc.Scopes) {
			return fmt.Errorf("fn scopes %d+%d beyond pool %d", v.ScopeStart, v.ScopeCount, len(doc.Scopes))
		}
	case live.ValId, live.ValClass, live.ValCall:
		return checkID(doc, v.Ref)
	}
	return nil
}

func checkID(doc *live.Document, id live.Id) error {
	if id.IsMulti() && int(id.Start)+int(id.Count) > len(doc.MultiIDs) {
		return fmt.Errorf("multi id %d+%d beyond pool %d", id.Start, id.Count, len(doc.MultiIDs))
	}
	return nil
}

// CheckTokens verifies that every token of a raw document lies inside sf and
// that node key tokens address the token stream.
func CheckTokens(doc *live.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prev uint32
	for i, t := range doc.Tokens {
		sp := t.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d: span %v outside content (%d bytes)", i, sp, lenContent)
		}
		if sp.Start < prev {
			return fmt.Errorf("token %d: span %v starts before previous token end %d", i, sp, prev)
		}
		prev = sp.End
	}
	for level, nodes := range doc.Nodes {
		for i, n := range nodes {
			if int(n.Token.Index) >= len(doc.Tokens) {
				return fmt.Errorf("node %d:%d: key token %d beyond %d tokens", level, i, n.Token.Index, len(doc.Tokens))
			}
		}
	}
	return nil
}
