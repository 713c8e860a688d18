package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveweave/internal/registry"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ix, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, ix.Migrate())
	t.Cleanup(func() { ix.Close() })
	return ix
}

func snapshot(t *testing.T, modules ...[2]string) *registry.Snapshot {
	t.Helper()
	r := registry.New(nil, nil, registry.Options{})
	for _, m := range modules {
		cm, err := r.Module(m[0])
		require.NoError(t, err)
		_, err = r.Register(m[0]+".live", cm, []byte(m[1]))
		require.NoError(t, err)
	}
	bag := r.ExpandAll()
	require.Zero(t, bag.Len(), "unexpected diagnostics: %v", bag.Items())
	return r.Snapshot()
}

func exported(t *testing.T) *Index {
	t.Helper()
	ix := newTestIndex(t)
	snap := snapshot(t,
		[2]string{"app::base", `Widget: Component { field: 1, other: 7 }`},
		[2]string{"app::ui", `
use crate::base::Widget
MyWidget: Widget { field: 2 }
ref: Widget.field
tint: #f00
`},
	)
	require.NoError(t, ix.Export(snap))
	return ix
}

func TestMigrateIsIdempotent(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.Migrate())
}

func TestExportModules(t *testing.T) {
	ix := exported(t)
	mods, err := ix.Modules()
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, Module{ID: 0, Name: "app::base", Path: "app::base.live"}, mods[0])
	assert.Equal(t, "app::ui", mods[1].Name)

	importers, err := ix.Importers("app::base")
	require.NoError(t, err)
	assert.Equal(t, []string{"app::ui"}, importers)

	importers, err = ix.Importers("app::ui")
	require.NoError(t, err)
	assert.Empty(t, importers)
}

func TestLookupAndChildren(t *testing.T) {
	ix := exported(t)

	my, err := ix.Lookup("app::ui", "MyWidget")
	require.NoError(t, err)
	assert.Equal(t, "class", my.Kind)
	require.NotNil(t, my.Ref, "class base is resolved")
	assert.Equal(t, Loc{Module: "app::base", Level: 0, Index: 0}, *my.Ref)

	children, err := ix.Children(my.Loc)
	require.NoError(t, err)
	values := map[string]string{}
	for _, c := range children {
		values[c.Name] = c.Value
	}
	assert.Equal(t, map[string]string{"field": "2", "other": "7"}, values)

	field, err := ix.Lookup("app::ui", "MyWidget.field")
	require.NoError(t, err)
	assert.Equal(t, "int", field.Kind)
	assert.Equal(t, "2", field.Value)

	tint, err := ix.Lookup("app::ui", "tint")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000ff", tint.Value)

	_, err = ix.Lookup("app::ui", "MyWidget.missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ix.Lookup("app::nope", "MyWidget")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReferences(t *testing.T) {
	ix := exported(t)

	widget, err := ix.Lookup("app::base", "Widget")
	require.NoError(t, err)
	refs, err := ix.References(widget.Loc)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "MyWidget", refs[0].Name)

	field, err := ix.Lookup("app::base", "Widget.field")
	require.NoError(t, err)
	refs, err = ix.References(field.Loc)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "ref", refs[0].Name)
	assert.Equal(t, "app::ui", refs[0].Module)
}

func TestExportReplacesContents(t *testing.T) {
	ix := exported(t)
	snap := snapshot(t, [2]string{"lib::only", `A: Component { b: true }`})
	require.NoError(t, ix.Export(snap))

	mods, err := ix.Modules()
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "lib::only", mods[0].Name)

	var count int
	require.NoError(t, ix.DB().QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count))
	assert.Equal(t, 2, count)

	b, err := ix.Lookup("lib::only", "A.b")
	require.NoError(t, err)
	assert.Equal(t, "true", b.Value)
}
