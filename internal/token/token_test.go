package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	for s, want := range map[string]Kind{"use": KwUse, "fn": KwFn, "true": KwTrue, "false": KwFalse} {
		got, ok := LookupKeyword(s)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v", s, got, ok)
		}
	}
	for _, s := range []string{"Use", "Self", "vec2", "crate"} {
		if _, ok := LookupKeyword(s); ok {
			t.Errorf("%q must stay an identifier", s)
		}
	}
}

func TestKindString(t *testing.T) {
	if ColonColon.String() != "ColonColon" || ColorLit.String() != "ColorLit" {
		t.Errorf("unexpected names %q %q", ColonColon, ColorLit)
	}
	if Kind(250).String() != "Kind(?)" {
		t.Errorf("out of range kinds must not panic")
	}
}

func TestOpens(t *testing.T) {
	if k, ok := (Token{Kind: LBrace}).Opens(); !ok || k != RBrace {
		t.Errorf("LBrace opens %v,%v", k, ok)
	}
	if _, ok := (Token{Kind: RBrace}).Opens(); ok {
		t.Errorf("RBrace does not open a group")
	}
}
