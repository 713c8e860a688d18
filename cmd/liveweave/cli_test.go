package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.Execute()
	traceCleanup(err)
	return out.String(), errOut.String(), err
}

func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestInitThenExpand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "demo-ws")
	out, _, err := run(t, "init", target)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, `"demo_ws"`) {
		t.Fatalf("init output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(target, "src", "main.live")); err != nil {
		t.Fatalf("main module not created: %v", err)
	}
	if _, _, err := run(t, "init", target); err == nil {
		t.Fatalf("second init succeeded")
	}

	out, stderr, err := run(t, "expand", "--ui", "off", "--tree", target)
	if err != nil {
		t.Fatalf("expand: %v\n%s", err, stderr)
	}
	for _, want := range []string{"demo_ws::main", "App: class", `title: string "hello"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expand output lacks %q:\n%s", want, out)
		}
	}
}

func TestExpandReportsErrors(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"live.toml":     "[package]\nname = \"app\"\nroot = \"src\"\n",
		"src/main.live": `A: Missing {}`,
	})
	_, stderr, err := run(t, "expand", "--ui", "off", "--tree=false", "--format", "short", root)
	if err == nil {
		t.Fatalf("expand succeeded on an unresolved base")
	}
	if !strings.Contains(stderr, "Missing") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestComponentCommand(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"live.toml": `[package]
name = "app"
root = "src"

[[component]]
module = "app::main"
type = "Panel"
script = "scripts/panel.risor"
`,
		"src/main.live":       `Panel: Component { title: "base", width: 3 }
Wide: Panel { width: 12 }`,
		"scripts/panel.risor": "out := {\"title\": node[\"title\"], \"double\": node[\"width\"] * 2}\nout",
	})
	out, stderr, err := run(t, "component", "app::main", "Wide", root)
	if err != nil {
		t.Fatalf("component: %v\n%s", err, stderr)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["title"] != "base" || got["double"] != float64(24) {
		t.Errorf("component = %v", got)
	}

	if _, _, err := run(t, "component", "app::main", "Nope", root); err == nil {
		t.Errorf("missing component succeeded")
	}
}

func TestIndexCommand(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"live.toml":     "[package]\nname = \"app\"\nroot = \"src\"\n",
		"src/base.live": `Widget: Component { field: 1 }`,
		"src/ui.live": `use crate::base::Widget
Big: Widget { field: 2 }`,
	})
	db := filepath.Join(t.TempDir(), "ix.db")
	out, stderr, err := run(t, "index", "--db", db, "--refs", "app::base:Widget", "--importers", "app::base", root)
	if err != nil {
		t.Fatalf("index: %v\n%s", err, stderr)
	}
	for _, want := range []string{"indexed 2 modules", "1 references to app::base Widget", "Big", "1 modules import app::base", "app::ui"} {
		if !strings.Contains(out, want) {
			t.Errorf("index output lacks %q:\n%s", want, out)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if payload.Tool != "liveweave" || payload.Version == "" {
		t.Errorf("payload = %+v", payload)
	}
	if _, _, err := run(t, "version", "--format", "yaml"); err == nil {
		t.Errorf("yaml format accepted")
	}
	versionFormat = "pretty"
}

func TestSplitNodeRef(t *testing.T) {
	cases := []struct {
		in           string
		module, path string
		ok           bool
	}{
		{"app::ui:Button.label", "app::ui", "Button.label", true},
		{"app::ui:", "", "", false},
		{"app::ui", "", "", false},
		{"ui:Button", "", "", false},
	}
	for _, c := range cases {
		m, p, ok := splitNodeRef(c.in)
		if ok != c.ok || (ok && (m != c.module || p != c.path)) {
			t.Errorf("splitNodeRef(%q) = %q, %q, %v", c.in, m, p, ok)
		}
	}
}
