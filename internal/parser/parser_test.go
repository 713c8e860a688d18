package parser_test

import (
	"errors"
	"testing"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/parser"
	"liveweave/internal/source"
	"liveweave/internal/testkit"
)

func parse(t *testing.T, src string) (*live.Document, *source.Interner, error) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.live", []byte(src)))
	names := live.NewInterner()
	doc, err := parser.Parse(f, names, parser.Options{})
	if err == nil {
		if ierr := testkit.CheckDocument(doc); ierr != nil {
			t.Errorf("document invariants: %v", ierr)
		}
		if ierr := testkit.CheckTokens(doc, f); ierr != nil {
			t.Errorf("token invariants: %v", ierr)
		}
	}
	return doc, names, err
}

func mustParse(t *testing.T, src string) (*live.Document, *source.Interner) {
	t.Helper()
	doc, names, err := parse(t, src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc, names
}

func name(names *source.Interner, n live.Name) string { return names.MustLookup(n) }

func TestParseScalars(t *testing.T) {
	doc, names := mustParse(t, `a: 1, b: -2.5; c: true
d: "hi\n" e: #f0a f: #11223344 g: vec2(1, -2) h: vec3(0.5, 1, 2) i: 0xff`)
	top := doc.Nodes[0]
	if len(top) != 9 {
		t.Fatalf("got %d top-level nodes, want 9", len(top))
	}
	want := []live.Value{
		live.IntValue(1),
		live.FloatValue(-2.5),
		live.BoolValue(true),
		{}, // string, checked below
		live.ColorValue(0xff00aaff),
		live.ColorValue(0x11223344),
		live.Vec2Value(1, -2),
		live.Vec3Value(0.5, 1, 2),
		live.IntValue(255),
	}
	for i, w := range want {
		if i == 3 {
			continue
		}
		if !top[i].Value.Equal(w) {
			t.Errorf("%s = %+v, want %+v", name(names, top[i].ID.Name), top[i].Value, w)
		}
	}
	if s := doc.String(top[3].Value); s != "hi\n" {
		t.Errorf("string = %q", s)
	}
	if !doc.Recompile {
		t.Errorf("fresh documents must be marked for expansion")
	}
}

func TestParseNestedBodiesAreContiguous(t *testing.T) {
	doc, names := mustParse(t, `
Root: Component {
    inner: View { x: 1 y: 2 }
    list: [1, 2, { z: 3 }]
    tail: 4
}
Other: Root {}
`)
	if got := len(doc.Nodes[0]); got != 2 {
		t.Fatalf("top level = %d nodes", got)
	}
	root := doc.Nodes[0][0]
	if root.Value.Kind != live.ValClass || !root.Value.Ref.Is(live.NameComponent) {
		t.Fatalf("Root = %+v", root.Value)
	}
	kids := doc.Children(0, root)
	if len(kids) != 3 {
		t.Fatalf("Root has %d children", len(kids))
	}
	if name(names, kids[0].ID.Name) != "inner" || kids[0].Value.Kind != live.ValClass {
		t.Errorf("first child = %+v", kids[0])
	}
	if got := doc.Children(1, kids[0]); len(got) != 2 || got[1].Value.Int != 2 {
		t.Errorf("inner body = %+v", got)
	}
	arr := doc.Children(1, kids[1])
	if kids[1].Value.Kind != live.ValArray || len(arr) != 3 {
		t.Fatalf("list = %+v", arr)
	}
	if !arr[0].ID.IsEmpty() || arr[2].Value.Kind != live.ValObject {
		t.Errorf("array elements = %+v", arr)
	}
	other := doc.Nodes[0][1]
	if other.Value.Count != 0 || name(names, other.Value.Ref.Name) != "Root" {
		t.Errorf("Other = %+v", other.Value)
	}
}

func TestParseDottedKeysAndPaths(t *testing.T) {
	doc, names := mustParse(t, `a.b.c: Self.x.y, call: theme.make(1, "s")`)
	n := doc.Nodes[0][0]
	if !n.ID.IsMulti() || n.ID.Format(names, doc.MultiIDs) != "a.b.c" {
		t.Errorf("key = %s", n.ID.Format(names, doc.MultiIDs))
	}
	if n.Value.Kind != live.ValId || n.Value.Ref.Format(names, doc.MultiIDs) != "Self.x.y" {
		t.Errorf("value = %+v", n.Value)
	}
	c := doc.Nodes[0][1]
	if c.Value.Kind != live.ValCall || c.Value.Count != 2 {
		t.Fatalf("call = %+v", c.Value)
	}
	if got := c.Value.Ref.Format(names, doc.MultiIDs); got != "theme.make" {
		t.Errorf("call target = %s", got)
	}
}

func TestParseUse(t *testing.T) {
	doc, names := mustParse(t, `
use crate::theme::*
use base::widgets::Button
use base::widgets::Panel::header
use base::widgets::Panel::*
`)
	top := doc.Nodes[0]
	if len(top) != 4 {
		t.Fatalf("got %d use nodes", len(top))
	}
	for _, n := range top {
		if n.Value.Kind != live.ValUse {
			t.Fatalf("not a use node: %+v", n)
		}
	}
	if top[0].Value.Module.Crate != live.NameCrate || !top[0].ID.IsEmpty() {
		t.Errorf("wildcard use = %+v", top[0])
	}
	if top[1].Value.Module.Format(names) != "base::widgets" || name(names, top[1].ID.Name) != "Button" {
		t.Errorf("single use = %+v", top[1])
	}
	if got := top[2].ID.Format(names, doc.MultiIDs); got != "Panel.header" {
		t.Errorf("path use = %s", got)
	}
	if got := top[3].ID.Format(names, doc.MultiIDs); got != "Panel.*" {
		t.Errorf("path wildcard use = %s", got)
	}
}

func TestParseFnCapturesTokens(t *testing.T) {
	doc, names := mustParse(t, `
on_click: fn(self) { if self.x { self.y = 1 } }
fn helper(a, b) { a + b }
after: 1`)
	top := doc.Nodes[0]
	if len(top) != 3 {
		t.Fatalf("got %d nodes", len(top))
	}
	fn := top[0].Value
	if fn.Kind != live.ValFn {
		t.Fatalf("on_click = %+v", fn)
	}
	first, last := doc.Tokens[fn.Start], doc.Tokens[fn.Start+fn.Count-1]
	if first.Text != "fn" || last.Text != "}" {
		t.Errorf("fn tokens %q..%q", first.Text, last.Text)
	}
	if name(names, top[1].ID.Name) != "helper" || top[1].Value.Kind != live.ValFn {
		t.Errorf("named fn = %+v", top[1])
	}
	if doc.Tokens[top[1].Token.Index].Text != "helper" {
		t.Errorf("named fn keyed by %q", doc.Tokens[top[1].Token.Index].Text)
	}
	if top[2].Value.Int != 1 {
		t.Errorf("parsing did not resume after fn bodies")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing colon", "a 1", diag.SynExpectColon},
		{"missing value", "a: ,", diag.SynExpectValue},
		{"unclosed body", "a: B { x: 1", diag.SynUnclosedDelimiter},
		{"bad vector", "a: vec3(1, 2)", diag.SynBadVector},
		{"bad use", "use crate::x", diag.SynBadUsePath},
		{"wildcard in middle", "use c::m::*::x", diag.SynWildcardNotLast},
		{"lex error", "a: 1 @", diag.LexUnknownChar},
		{"unclosed fn", "f: fn() { 1", diag.SynUnclosedDelimiter},
		{"int overflow", "a: 99999999999999999999", diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := parse(t, tt.src)
			if doc != nil {
				t.Errorf("failed parse must not return a document")
			}
			if !errors.Is(err, parser.ErrParse) {
				t.Fatalf("err = %v, want ErrParse", err)
			}
			var perr *parser.Error
			if !errors.As(err, &perr) {
				t.Fatalf("err is %T", err)
			}
			found := false
			for _, d := range perr.Diagnostics {
				if d.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Errorf("want %v among %+v", tt.code, perr.Diagnostics)
			}
		})
	}
}

func TestParseReporterAndDepth(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("deep.live", []byte("a: {b: {c: {d: 1}}}")))
	bag := diag.NewBag(0)
	_, err := parser.Parse(f, live.NewInterner(), parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxDepth: 2})
	if err == nil {
		t.Fatalf("expected nesting error")
	}
	if bag.Len() == 0 {
		t.Errorf("reporter saw no diagnostics")
	}
}
