package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveweave/internal/diag"
	"liveweave/internal/driver"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func workspace(t *testing.T, extra map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"live.toml": `
[package]
name = "app"
root = "src"

[[component]]
module = "app::base"
type = "Widget"
script = "scripts/widget.risor"
`,
		"src/base.live": `Widget: Component { width: 4, label: "base" }`,
		"src/ui.live": `use crate::base::Widget
Wide: Widget { width: 10 }
`,
		"scripts/widget.risor": `out := {"label": node["label"], "width": node["width"], "module": module}
out`,
	}
	for k, v := range extra {
		files[k] = v
	}
	writeFiles(t, root, files)
	return root
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestLoadWorkspaceExpandsAndBindsScripts(t *testing.T) {
	root := workspace(t, nil)
	ws, err := driver.LoadWorkspace(context.Background(), filepath.Join(root, "src"), driver.Options{Jobs: 2})
	require.NoError(t, err)
	require.Zero(t, ws.Bag.Len(), "diagnostics: %v", ws.Bag.Items())
	require.NotNil(t, ws.Registry)
	assert.False(t, ws.CacheHit)

	require.Len(t, ws.Snapshot.Modules, 2)
	assert.Equal(t, "app::base", ws.Snapshot.Modules[0].Module)
	assert.Equal(t, "app::ui", ws.Snapshot.Modules[1].Module)

	ui, err := ws.Registry.Module("app::ui")
	require.NoError(t, err)
	v, err := ws.Registry.CreateComponent(ui, "Wide")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"label": "base", "width": int64(10), "module": "app::ui"}, v)
}

func TestLoadWorkspaceCache(t *testing.T) {
	root := workspace(t, nil)
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	opts := driver.Options{Cache: cache}

	first, err := driver.LoadWorkspace(context.Background(), root, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := driver.LoadWorkspace(context.Background(), root, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Nil(t, second.Registry)
	assert.Equal(t, first.Digest, second.Digest)
	require.Len(t, second.Snapshot.Modules, len(first.Snapshot.Modules))
	for i, m := range first.Snapshot.Modules {
		got := second.Snapshot.Modules[i]
		assert.Equal(t, m.Module, got.Module)
		require.Len(t, got.Doc.Nodes, len(m.Doc.Nodes))
		for l := range m.Doc.Nodes {
			assert.True(t, slices.Equal(m.Doc.Nodes[l], got.Doc.Nodes[l]), "%s level %d", m.Module, l)
		}
	}
	assert.Equal(t, first.Snapshot.Names, second.Snapshot.Names)

	// any edit changes the digest
	writeFiles(t, root, map[string]string{"src/base.live": `Widget: Component { width: 5 }`})
	third, err := driver.LoadWorkspace(context.Background(), root, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.NotEqual(t, first.Digest, third.Digest)

	require.NoError(t, cache.DropAll())
	fourth, err := driver.LoadWorkspace(context.Background(), root, opts)
	require.NoError(t, err)
	assert.False(t, fourth.CacheHit)
}

func TestCacheKeyCoversManifestAndOptions(t *testing.T) {
	root := workspace(t, nil)
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	load := func(opts driver.Options) *driver.Workspace {
		t.Helper()
		opts.Cache = cache
		ws, err := driver.LoadWorkspace(context.Background(), root, opts)
		require.NoError(t, err)
		return ws
	}

	base := load(driver.Options{})
	require.True(t, load(driver.Options{}).CacheHit)

	limited := load(driver.Options{MaxDiagnostics: 1})
	assert.False(t, limited.CacheHit, "diagnostic limit is part of the key")
	assert.NotEqual(t, base.Digest, limited.Digest)

	writeFiles(t, root, map[string]string{"scripts/widget.risor": "out := {}\nout"})
	assert.False(t, load(driver.Options{}).CacheHit, "script edits invalidate")

	writeFiles(t, root, map[string]string{"live.toml": `
[package]
name = "app"
root = "src"
`})
	dropped := load(driver.Options{})
	assert.False(t, dropped.CacheHit, "manifest edits invalidate")
	assert.NotEqual(t, base.Digest, dropped.Digest)
}

func TestParseFailureIsolatesModule(t *testing.T) {
	root := workspace(t, map[string]string{"src/base.live": `Widget: Component { width: }`})
	ws, err := driver.LoadWorkspace(context.Background(), root, driver.Options{})
	require.NoError(t, err)

	got := codes(ws.Bag)
	assert.Contains(t, got, diag.SynExpectValue)
	assert.Contains(t, got, diag.ProjParseFailed)
	assert.Contains(t, got, diag.ProjMissingDependency, "the importer reports the unregistered module")
	require.Len(t, ws.Registry.Files(), 1)
	assert.Equal(t, filepath.Join(root, "src", "ui.live"), ws.Registry.Files()[0].Path)
}

func TestBadComponentScript(t *testing.T) {
	root := workspace(t, nil)
	require.NoError(t, os.Remove(filepath.Join(root, "scripts", "widget.risor")))
	ws, err := driver.LoadWorkspace(context.Background(), root, driver.Options{})
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.ProjBadManifest}, codes(ws.Bag))
}

func TestMissingManifest(t *testing.T) {
	_, err := driver.LoadWorkspace(context.Background(), t.TempDir(), driver.Options{})
	require.Error(t, err)
}

func TestEventsAndTimings(t *testing.T) {
	root := workspace(t, nil)
	events := make(chan driver.Event, 64)
	var phases []string
	ws, err := driver.LoadWorkspace(context.Background(), root, driver.Options{
		Events:  events,
		Timings: true,
		PhaseObserver: func(ev driver.PhaseEvent) {
			if ev.Status == driver.PhaseEnd {
				phases = append(phases, ev.Name)
			}
		},
	})
	require.NoError(t, err)
	close(events)

	done := map[string]bool{}
	for ev := range events {
		if ev.Stage == driver.StageExpand && ev.Status == driver.StatusDone {
			done[ev.Module] = true
		}
	}
	assert.Equal(t, map[string]bool{"app::base": true, "app::ui": true}, done)
	assert.Equal(t, []string{"manifest", "load", "parse", "register", "expand"}, phases)
	assert.Equal(t, []diag.Code{diag.ObsTimings}, codes(ws.Bag))
}

func TestSingleFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.live")
	writeFiles(t, dir, map[string]string{"one.live": `a: 1, b: "x"`})

	tr, err := driver.Tokenize(path, 0)
	require.NoError(t, err)
	assert.Zero(t, tr.Bag.Len())
	assert.NotEmpty(t, tr.Tokens)

	pr, err := driver.Parse(path, 0)
	require.NoError(t, err)
	require.NotNil(t, pr.Doc)
	assert.Len(t, pr.Doc.Nodes[0], 2)

	writeFiles(t, dir, map[string]string{"one.live": `a: `})
	pr, err = driver.Parse(path, 0)
	require.NoError(t, err)
	assert.Nil(t, pr.Doc)
	assert.True(t, pr.Bag.HasErrors())

	_, err = driver.Parse(filepath.Join(dir, "missing.live"), 0)
	assert.Error(t, err)
}
