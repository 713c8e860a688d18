package script_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveweave/internal/registry"
	"liveweave/internal/script"
)

func TestRunReturnsPlainValues(t *testing.T) {
	d := script.New("inline", `out := {"sum": node["a"] + node["b"], "name": "x-" + component, "items": [1, 2.5, true, nil]}
out`)
	got, err := d.Run(context.Background(),
		map[string]any{"a": int64(1), "b": int64(2)},
		map[string]any{"component": "W"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"sum":   int64(3),
		"name":  "x-W",
		"items": []any{int64(1), 2.5, true, nil},
	}, got)
}

func TestColorBuiltins(t *testing.T) {
	d := script.New("colors", `[hex(node["c"]), rgba(node["c"])]`)
	got, err := d.Run(context.Background(), map[string]any{"c": int64(0xff000080)}, nil)
	require.NoError(t, err)
	list, ok := got.([]any)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "#ff000080", list[0])
	rgba, ok := list[1].([]any)
	require.True(t, ok)
	require.Len(t, rgba, 4)
	assert.InDelta(t, 1.0, rgba[0], 1e-9)
	assert.InDelta(t, 0.0, rgba[1], 1e-9)
	assert.InDelta(t, 128.0/255, rgba[3], 1e-9)
}

func TestErrorsAreWrapped(t *testing.T) {
	for name, src := range map[string]string{
		"undefined name": `missing_name + 1`,
		"bad builtin":    `hex("red")`,
		"syntax":         `x := {"a": `,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := script.New(name, src).Run(context.Background(), map[string]any{}, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, script.ErrScript)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestUnsupportedGlobal(t *testing.T) {
	_, err := script.New("g", `1`).Run(context.Background(), nil, map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, script.ErrScript)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := script.Load(filepath.Join(t.TempDir(), "nope.risor"))
	assert.Error(t, err)
}

func TestDeserializeThroughRegistry(t *testing.T) {
	r := registry.New(nil, nil, registry.Options{})
	app, err := r.Module("app::main")
	require.NoError(t, err)
	_, err = r.Register("main.live", app, []byte(`
Widget: Component { width: 4, label: "hi", tint: #f00 }
Big: Widget { width: 10 }
`))
	require.NoError(t, err)
	require.Zero(t, r.ExpandAll().Len())

	r.RegisterComponent(app, "Widget", script.New("widget", `
w := node["width"]
out := {"label": node["label"], "area": w * w, "tint": hex(node["tint"]), "module": module}
out
`))
	got, err := r.CreateComponent(app, "Big")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"label":  "hi",
		"area":   int64(100),
		"tint":   "#ff0000ff",
		"module": "app::main",
	}, got)
}
