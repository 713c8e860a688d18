package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNopSpanIsInert(t *testing.T) {
	s := Begin(Nop, ScopePass, "expand_all", 0)
	if s.ID() != 0 {
		t.Fatalf("nop span has id %d", s.ID())
	}
	if d := s.WithExtra("k", "v").End("done"); d != 0 {
		t.Fatalf("nop span measured %v", d)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	Begin(ring, ScopePass, "expand_all", 0).End("")
	Begin(ring, ScopeModule, "expand", 0).End("")
	evs := ring.Snapshot()
	if len(evs) != 2 {
		t.Fatalf("got %d events, want begin+end of the pass only", len(evs))
	}
	for _, ev := range evs {
		if ev.Name != "expand_all" {
			t.Errorf("unexpected event %q", ev.Name)
		}
	}
}

func TestRingWrapsInOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	var got []string
	for _, ev := range ring.Snapshot() {
		got = append(got, ev.Name)
	}
	if strings.Join(got, "") != "cde" {
		t.Fatalf("ring = %v", got)
	}
}

func TestChromeStreamIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatChrome)
	pass := Begin(st, ScopePass, "expand_all", 0)
	Begin(st, ScopeModule, "expand", pass.ID()).WithExtra("module", "app::main").End("")
	pass.End("0 diagnostics")
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 4 {
		t.Fatalf("got %d events", len(doc.TraceEvents))
	}
	if doc.TraceEvents[0]["ph"] != "B" || doc.TraceEvents[3]["ph"] != "E" {
		t.Errorf("phases = %v .. %v", doc.TraceEvents[0]["ph"], doc.TraceEvents[3]["ph"])
	}
}

func TestTextExtraIsSorted(t *testing.T) {
	out := string(FormatEvent(&Event{Kind: KindSpanEnd, Name: "expand", Extra: map[string]string{"z": "1", "a": "2"}}, FormatText))
	if !strings.Contains(out, "{a=2, z=1}") {
		t.Fatalf("text = %q", out)
	}
}

func TestMultiCopiesEvents(t *testing.T) {
	r1, r2 := NewRingTracer(4, LevelDebug), NewRingTracer(4, LevelDebug)
	m := NewMultiTracer(LevelDebug, r1, r2)
	ev := &Event{Kind: KindPoint, Scope: ScopeDriver, Name: "x"}
	m.Emit(ev)
	if ev.Seq != 0 {
		t.Errorf("multi tracer mutated the caller's event")
	}
	if len(r1.Snapshot()) != 1 || len(r2.Snapshot()) != 1 {
		t.Errorf("fan-out missed a tracer")
	}
}

func TestConfigParsing(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give the nop tracer")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel accepted garbage")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat(ndjson) = %v, %v", f, err)
	}
}

func TestChildNestsUnderParent(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	pass := Begin(ring, ScopePass, "expand_all", 0)
	pass.Child(ScopeModule, "expand").End("")
	pass.Child(ScopeNode, "resolve").End("") // finer than detail
	pass.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("got %d events", len(evs))
	}
	if evs[1].ParentID != pass.ID() || evs[1].Name != "expand" {
		t.Errorf("child event = %+v", evs[1])
	}
	if Begin(Nop, ScopePass, "x", 0).Child(ScopeModule, "y").ID() != 0 {
		t.Errorf("child of an inert span is live")
	}
}

func TestPointAndDump(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	Point(ring, ScopeDriver, "cache_hit", "abcd")
	Point(ring, ScopeModule, "ignored", "")
	Point(Nop, ScopeDriver, "nop", "")

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "• cache_hit (abcd)") || strings.Contains(out, "ignored") {
		t.Fatalf("dump:\n%s", out)
	}

	buf.Reset()
	if err := ring.Dump(&buf, FormatChrome); err != nil {
		t.Fatal(err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Fatalf("chrome dump is not JSON:\n%s", buf.String())
	}
}

func TestErrorLevelKeepsEventsInMemory(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "expand_all", 0).End("")
	if buf.Len() != 0 {
		t.Errorf("error level streamed %q", buf.String())
	}
	ring, ok := Ring(tr)
	if !ok || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring = %v, %v", ring, ok)
	}

	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Ring(tr); !ok {
		t.Errorf("both mode has no ring")
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Errorf("ParseMode accepted garbage")
	}
}
