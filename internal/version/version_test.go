package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, v, commit, msg, date string) {
	t.Helper()
	orig := [4]string{Version, GitCommit, GitMessage, BuildDate}
	Version, GitCommit, GitMessage, BuildDate = v, commit, msg, date
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = orig[0], orig[1], orig[2], orig[3]
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	override(t, "1.2.3-rc.1", "", "", "")
	if got := Colored(false); got != "1.2.3-rc.1" {
		t.Errorf("Colored(false) = %q", got)
	}
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored(true) = %q", got)
	}
}

func TestColoredLeavesOddVersions(t *testing.T) {
	override(t, "nightly", "", "", "")
	if got := Colored(true); got != "nightly" {
		t.Errorf("Colored = %q", got)
	}
}

func TestInfo(t *testing.T) {
	override(t, "0.2.0", "abc123", "fix cache", "2026-01-15")
	want := "liveweave 0.2.0 (commit abc123, built 2026-01-15)\n  fix cache"
	if got := Info(false); got != want {
		t.Errorf("Info = %q, want %q", got, want)
	}
	override(t, "0.2.0", "", "", "")
	if got := Info(false); got != "liveweave 0.2.0" {
		t.Errorf("Info = %q", got)
	}
}
