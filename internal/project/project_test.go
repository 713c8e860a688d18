package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestAndSources(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ManifestName), `
[package]
name = "app"
root = "src"

[crates.theme]
root = "vendor/theme"

[[component]]
module = "app::main"
type = "Button"
script = "scripts/button.risor"
`)
	write(t, filepath.Join(root, "src", "main.live"), "a: 1")
	write(t, filepath.Join(root, "src", "widgets", "button.live"), "b: 2")
	write(t, filepath.Join(root, "src", "notes.txt"), "ignored")
	write(t, filepath.Join(root, "vendor", "theme", "colors.live"), "c: #fff")

	sub := filepath.Join(root, "src", "widgets")
	m, err := LoadManifest(sub)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Root != root || m.Config.Package.Name != "app" {
		t.Fatalf("manifest = %+v", m)
	}
	if len(m.Config.Components) != 1 || m.ScriptPath(m.Config.Components[0]) != filepath.Join(root, "scripts", "button.risor") {
		t.Fatalf("components = %+v", m.Config.Components)
	}

	files, err := m.SourceFiles()
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}
	var ids []string
	for _, f := range files {
		ids = append(ids, f.ModuleID())
	}
	want := []string{"app::main", "app::widgets_button", "theme::colors"}
	if len(ids) != len(want) {
		t.Fatalf("modules = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("module[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no package", "[crates.x]\nroot = \"x\"\n"},
		{"bad name", "[package]\nname = \"my-app\"\n"},
		{"crate without root", "[package]\nname = \"a\"\n[crates.b]\n"},
		{"unknown key", "[package]\nname = \"a\"\nmain = \"x\"\n"},
		{"incomplete component", "[package]\nname = \"a\"\n[[component]]\nmodule = \"a::b\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			write(t, path, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	// t.TempDir lives under the system temp dir, which has no live.toml above it
	if _, err := LoadManifest(t.TempDir()); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestModuleName(t *testing.T) {
	tests := map[string]string{
		"main.live":             "main",
		"widgets/button.live":   "widgets_button",
		"/leading/slash.live":   "leading_slash",
		"a/../b.live":           "",
		"with-dash.live":        "",
		"":                      "",
	}
	for in, want := range tests {
		got, err := ModuleName(in)
		if want == "" {
			if err == nil {
				t.Errorf("ModuleName(%q) = %q, want error", in, got)
			}
			continue
		}
		if err != nil || got != want {
			t.Errorf("ModuleName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestModuleDigestDependsOnName(t *testing.T) {
	var content Digest
	if ModuleDigest("a::b", content) == ModuleDigest("a::c", content) {
		t.Fatalf("digest must depend on the module name")
	}
}
