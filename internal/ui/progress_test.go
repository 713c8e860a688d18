package ui

import (
	"strings"
	"testing"

	"liveweave/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := newProgressModel("expand", []string{"a.live", "b.live"}, nil)

	m.applyEvent(driver.Event{File: "a.live", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("status = %q", got)
	}
	m.applyEvent(driver.Event{File: "a.live", Stage: driver.StageExpand, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.live", Stage: driver.StageRegister, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "unknown.live", Stage: driver.StageParse, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Stage: driver.StageExpand, Status: driver.StatusWorking})

	if p := m.percent(); p != 1 {
		t.Errorf("percent = %v, want 1", p)
	}
	view := m.View()
	for _, want := range []string{"expand (expanding)", "done", "error", "a.live", "b.live"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestPartialProgress(t *testing.T) {
	m := newProgressModel("x", []string{"a.live", "b.live"}, nil)
	m.applyEvent(driver.Event{File: "a.live", Stage: driver.StageParse, Status: driver.StatusDone})
	if p := m.percent(); p != 0.2 {
		t.Errorf("percent = %v, want 0.2", p)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("短い", 10); got != "短い" {
		t.Errorf("truncate = %q", got)
	}
}

func TestViewShowsModuleAndCounts(t *testing.T) {
	m := newProgressModel("expand", []string{"src/ui.live"}, nil)
	m.applyEvent(driver.Event{File: "src/ui.live", Module: "app::ui", Stage: driver.StageExpand, Status: driver.StatusDone})
	view := m.View()
	for _, want := range []string{"app::ui", "src/ui.live", "1/1 modules, 0 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}
