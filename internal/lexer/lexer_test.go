package lexer_test

import (
	"strings"
	"testing"

	"liveweave/internal/diag"
	"liveweave/internal/lexer"
	"liveweave/internal/source"
	"liveweave/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.live", []byte(src)))
	bag := diag.NewBag(0)
	toks, _ := lexer.Tokenize(f, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizeDocument(t *testing.T) {
	src := `use crate::theme::*;
Button: Component {
    color: #ff00aa, // trailing comment
    size: vec2(1.5, -2),
    /* block /* nested */ */ label: "hi \"there\""
}`
	toks, bag := lex(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwUse, token.Ident, token.ColonColon, token.Ident, token.ColonColon, token.Star, token.Semicolon,
		token.Ident, token.Colon, token.Ident, token.LBrace,
		token.Ident, token.Colon, token.ColorLit, token.Comma,
		token.Ident, token.Colon, token.Ident, token.LParen, token.FloatLit, token.Comma, token.Minus, token.IntLit, token.RParen, token.Comma,
		token.Ident, token.Colon, token.StringLit,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d (%q): got %v, want %v", i, toks[i].Text, got[i], want[i])
		}
	}
	if toks[13].Text != "#ff00aa" {
		t.Errorf("color text = %q", toks[13].Text)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"0xFF", token.IntLit},
		{"1_000", token.IntLit},
		{"1.25", token.FloatLit},
		{".5", token.FloatLit},
		{"3e8", token.FloatLit},
		{"2.5E-3", token.FloatLit},
	}
	for _, tt := range tests {
		toks, bag := lex(t, tt.src)
		if bag.Len() != 0 || toks[0].Kind != tt.kind || toks[0].Text != tt.src {
			t.Errorf("%q: got %v %q (diags %d)", tt.src, toks[0].Kind, toks[0].Text, bag.Len())
		}
	}
}

func TestIdentifierNFC(t *testing.T) {
	// "é" в виде e + combining acute должен совпасть с составным символом
	toks, bag := lex(t, "cafe\u0301 caf\u00e9")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[0].Kind != token.Ident || toks[0].Text != toks[1].Text {
		t.Errorf("identifiers not normalized: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{"#12345", diag.LexBadColor},
		{"0x", diag.LexBadNumber},
		{"1e+", diag.LexBadNumber},
		{"a $ b", diag.LexUnknownChar},
		{"/* never closed", diag.LexUnterminatedBlock},
	}
	for _, tt := range tests {
		_, bag := lex(t, tt.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
			t.Errorf("%q: want %s, got %v", tt.src, tt.code.ID(), bag.Items())
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("p.live", []byte("a b"))), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
	for range 3 {
		if lx.Next().Kind != token.EOF {
			t.Fatal("EOF must be sticky")
		}
	}
}

func TestSpansCoverText(t *testing.T) {
	src := "root: Base { inner: 12 }"
	toks, _ := lex(t, src)
	for _, tok := range toks[:len(toks)-1] {
		if got := src[tok.Span.Start:tok.Span.End]; !strings.EqualFold(got, tok.Text) {
			t.Errorf("span %v covers %q, token text %q", tok.Span, got, tok.Text)
		}
	}
}
