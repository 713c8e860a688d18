package observ

import (
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	var marks []Mark
	tm := NewTimer(func(m Mark) { marks = append(marks, m) })
	parse := tm.Start("parse")
	expand := tm.Start("expand")
	if d := expand.Stop("3 modules"); d <= 0 {
		t.Errorf("expand took %v", d)
	}
	expand.Stop("again")
	parse.Stop("")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[1].Note != "3 modules" {
		t.Fatalf("report = %+v", r)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("total %v < phase %v", r.TotalMS, r.Phases[0].DurationMS)
	}
	want := []Mark{{Phase: "parse"}, {Phase: "expand"}, {Phase: "expand", Done: true}, {Phase: "parse", Done: true}}
	if len(marks) != len(want) {
		t.Fatalf("marks = %+v", marks)
	}
	for i, m := range marks {
		if m.Phase != want[i].Phase || m.Done != want[i].Done {
			t.Errorf("mark %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestRunningPhaseCountsZero(t *testing.T) {
	tm := NewTimer(nil)
	tm.Start("load").Stop("")
	tm.Start("expand")
	time.Sleep(time.Millisecond)
	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[1].DurationMS != 0 {
		t.Fatalf("report = %+v", r)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	if tm.Start("x").Stop("") != 0 {
		t.Fatalf("nil timer measured time")
	}
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer recorded phases")
	}
}
