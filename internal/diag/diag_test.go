package diag

import (
	"testing"

	"liveweave/internal/source"
)

func TestFormatGolden(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("app/widgets.live", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		NewError(SemItemNotOnScope, source.Span{File: file, Start: 2, End: 3}, "cannot find item on scope: Missing").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "declared\nhere"),
		New(SevWarning, ProjImportCycle, source.Span{File: file, Start: 0, End: 1}, "cycle"),
	}

	want := "note SEM3001 app/widgets.live:1:1 declared here\n" +
		"warning PRJ5003 app/widgets.live:1:1 cycle\n" +
		"error SEM3001 app/widgets.live:2:1 cannot find item on scope: Missing"
	if got := FormatGolden(diags, fs, true); got != want {
		t.Fatalf("unexpected golden output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{File: 0, Start: start, End: start + 1} }

	b.Add(NewError(SemPathNotFound, sp(9), "late"))
	b.Add(New(SevWarning, SemInfo, sp(1), "warn"))
	b.Add(NewError(SemPathNotFound, sp(9), "late"))
	if b.Add(NewError(SemPathNotFound, sp(0), "overflow")) {
		t.Fatalf("bag must reject diagnostics over the limit")
	}
	if b.Dropped() != 1 {
		t.Errorf("Dropped = %d", b.Dropped())
	}

	b.Dedup()
	b.Sort()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Message != "warn" || items[1].Message != "late" {
		t.Errorf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
	if !b.HasErrors() {
		t.Errorf("HasErrors = false")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, SemTargetNotCall, source.Span{}, "target not a call").Emit()
	}
	ReportWarning(r, SemTargetNotCall, source.Span{}, "target not a call").Emit()
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexBadColor:           "LEX1005",
		SynExpectColon:        "SYN2004",
		SemOverrideNonClass:   "SEM3003",
		IOLoadFileError:       "IO4001",
		ProjMissingDependency: "PRJ5001",
		ObsTimings:            "OBS6001",
		Code(42):              "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code must fall back to the generic title")
	}
}
