package testkit

import (
	"strings"
	"testing"

	"liveweave/internal/live"
	"liveweave/internal/source"
	"liveweave/internal/token"
)

func TestCheckDocumentRejectsSharedChildren(t *testing.T) {
	d := live.NewDocument()
	d.PushNode(1, live.Node{Value: live.IntValue(1)})
	d.PushNode(0, live.Node{Value: live.ObjectValue(0, 1)})
	if err := CheckDocument(d); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
	d.PushNode(0, live.Node{Value: live.ArrayValue(0, 1)})
	err := CheckDocument(d)
	if err == nil || !strings.Contains(err.Error(), "already has a parent") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckDocumentRanges(t *testing.T) {
	cases := map[string]live.Value{
		"children": live.ObjectValue(0, 2),
		"string":   live.StringValue(0, 4),
		"fn":       live.FnValue(0, 1, 0, 0),
		"multi":    live.IdValue(live.Multi(0, 2)),
	}
	for name, v := range cases {
		d := live.NewDocument()
		d.PushNode(0, live.Node{Value: v})
		if err := CheckDocument(d); err == nil {
			t.Errorf("%s: out-of-range value accepted", name)
		}
	}
	if err := CheckDocument(nil); err == nil {
		t.Errorf("nil document accepted")
	}
}

func TestCheckTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("x.live", []byte("a: 1")))
	d := live.NewDocument()
	d.Tokens = []token.Token{
		{Span: source.Span{File: f.ID, Start: 0, End: 1}},
		{Span: source.Span{File: f.ID, Start: 3, End: 4}},
	}
	d.PushNode(0, live.Node{Token: live.TokenID{Index: 0}, Value: live.IntValue(1)})
	if err := CheckTokens(d, f); err != nil {
		t.Fatalf("valid tokens rejected: %v", err)
	}
	d.Tokens[1].Span.End = 9
	if err := CheckTokens(d, f); err == nil {
		t.Errorf("span beyond content accepted")
	}
	d.Tokens[1].Span = source.Span{File: f.ID, Start: 3, End: 4}
	d.PushNode(0, live.Node{Token: live.TokenID{Index: 5}})
	if err := CheckTokens(d, f); err == nil {
		t.Errorf("dangling key token accepted")
	}
}
