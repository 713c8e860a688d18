// Package script implements component deserializers written in Risor.
//
// A script sees the expanded component as the global `node` (the shape
// produced by registry.Export) plus `module` and `path`, and its last
// expression is the component value:
//
//	size := node["width"] * 2
//	out := {"label": node["label"], "size": size, "tint": rgba(node["color"])}
//	out
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"liveweave/internal/live"
	"liveweave/internal/registry"
)

// ErrScript wraps every failure raised while evaluating a script.
var ErrScript = errors.New("script failed")

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 5 * time.Second

// Deserializer evaluates one Risor script per component.
type Deserializer struct {
	label   string
	source  string
	timeout time.Duration
}

var _ registry.Deserializer = (*Deserializer)(nil)

// New returns a deserializer for inline source; label names it in errors.
func New(label, source string) *Deserializer {
	return &Deserializer{label: label, source: source, timeout: DefaultTimeout}
}

// Load reads a script from disk.
func Load(path string) (*Deserializer, error) {
	// #nosec G304 -- путь из манифеста рабочего пространства
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: loading %s: %w", path, err)
	}
	return New(path, string(data)), nil
}

// WithTimeout returns a copy that aborts evaluation after d; zero disables it.
func (d *Deserializer) WithTimeout(t time.Duration) *Deserializer {
	cp := *d
	cp.timeout = t
	return &cp
}

// Deserialize implements registry.Deserializer.
func (d *Deserializer) Deserialize(r *registry.Registry, ptr live.NodePtr) (any, error) {
	globals := map[string]any{"path": ptr.String()}
	if cm, ok := r.ModuleOfFile(ptr.File); ok {
		globals["module"] = r.FormatModule(cm)
	}
	return d.Run(context.Background(), r.Export(ptr), globals)
}

// Run evaluates the script with node bound to `node` and returns the value
// of its last expression as plain Go values.
func (d *Deserializer) Run(ctx context.Context, node any, extra map[string]any) (any, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	nodeObj, err := toObject(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: node: %w", ErrScript, d.label, err)
	}
	opts := []risor.Option{
		risor.WithGlobal("node", nodeObj),
		risor.WithGlobal("rgba", rgbaBuiltin()),
		risor.WithGlobal("hex", hexBuiltin()),
	}
	for name, v := range extra {
		obj, err := toObject(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: global %s: %w", ErrScript, d.label, name, err)
		}
		opts = append(opts, risor.WithGlobal(name, obj))
	}

	res, err := risor.Eval(ctx, d.source, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScript, d.label, err)
	}
	if e, ok := res.(*object.Error); ok {
		return nil, fmt.Errorf("%w: %s: %s", ErrScript, d.label, e.Inspect())
	}
	return fromObject(res), nil
}
