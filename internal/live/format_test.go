package live

import (
	"testing"

	"liveweave/internal/token"
)

func TestFormatValue(t *testing.T) {
	in := NewInterner()
	d := NewDocument()
	d.Tokens = []token.Token{{Text: "a"}, {Text: "+"}, {Text: "b"}}
	button := Single(in.Intern("Button"))
	path := d.AddMulti([]Id{Single(in.Intern("theme")), Single(in.Intern("accent"))})
	ui, err := ParseCrateModule(in, "app::ui")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		v    Value
		want string
	}{
		{BoolValue(true), "true"},
		{IntValue(-3), "-3"},
		{FloatValue(0.5), "0.5"},
		{ColorValue(0xff8800ff), "#ff8800ff"},
		{Vec2Value(1, 2.5), "(1, 2.5)"},
		{Vec3Value(0, 1, 2), "(0, 1, 2)"},
		{d.AddString(`say "hi"`), `"say \"hi\""`},
		{IdValue(path), "theme.accent"},
		{ClassValue(button, 0, 0), "Button"},
		{CallValue(button, 0, 0), "Button()"},
		{FnValue(0, 3, 0, 0), "a + b"},
		{FnValue(1, 9, 0, 0), "+ b"},
		{UseValue(ui), "app::ui"},
		{ObjectValue(0, 0), ""},
		{IdValue(PtrID(NodePtr{File: 1, Level: 2, Index: 3})), NodePtr{File: 1, Level: 2, Index: 3}.String()},
	}
	for _, c := range cases {
		if got := d.FormatValue(in, c.v); got != c.want {
			t.Errorf("FormatValue(%s) = %q, want %q", c.v.Kind, got, c.want)
		}
	}
}
