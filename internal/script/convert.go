package script

import (
	"context"
	"fmt"
	"slices"

	"github.com/risor-io/risor/object"
)

// toObject converts the values registry.Export produces into Risor objects.
func toObject(v any) (object.Object, error) {
	switch v := v.(type) {
	case nil:
		return object.Nil, nil
	case object.Object:
		return v, nil
	case bool:
		return object.NewBool(v), nil
	case int:
		return object.NewInt(int64(v)), nil
	case int64:
		return object.NewInt(v), nil
	case float64:
		return object.NewFloat(v), nil
	case string:
		return object.NewString(v), nil
	case []any:
		items := make([]object.Object, len(v))
		for i, x := range v {
			o, err := toObject(x)
			if err != nil {
				return nil, err
			}
			items[i] = o
		}
		return object.NewList(items), nil
	case map[string]any:
		m := make(map[string]object.Object, len(v))
		for k, x := range v {
			o, err := toObject(x)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = o
		}
		return object.NewMap(m), nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// fromObject converts a script result back to plain Go values. Objects
// without a plain counterpart fall back to their Interface value.
func fromObject(o object.Object) any {
	switch o := o.(type) {
	case nil, *object.NilType:
		return nil
	case *object.Bool:
		return o.Value()
	case *object.Int:
		return o.Value()
	case *object.Float:
		return o.Value()
	case *object.String:
		return o.Value()
	case *object.List:
		items := o.Value()
		out := make([]any, len(items))
		for i, x := range items {
			out[i] = fromObject(x)
		}
		return out
	case *object.Map:
		m := o.Value()
		out := make(map[string]any, len(m))
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			out[k] = fromObject(m[k])
		}
		return out
	}
	return o.Interface()
}

func colorArg(name string, args []object.Object) (uint32, object.Object) {
	if len(args) != 1 {
		return 0, object.NewArgsError(name, 1, len(args))
	}
	i, ok := args[0].(*object.Int)
	if !ok {
		return 0, object.Errorf("%s: color must be an int, got %s", name, args[0].Type())
	}
	return uint32(i.Value()), nil // #nosec G115 -- цвета хранятся как 0xRRGGBBAA
}

// rgbaBuiltin: rgba(color) -> [r, g, b, a] in 0..1.
func rgbaBuiltin() *object.Builtin {
	return object.NewBuiltin("rgba", func(ctx context.Context, args ...object.Object) object.Object {
		c, errObj := colorArg("rgba", args)
		if errObj != nil {
			return errObj
		}
		out := make([]object.Object, 4)
		for i := range out {
			b := (c >> (24 - 8*uint(i))) & 0xff
			out[i] = object.NewFloat(float64(b) / 255)
		}
		return object.NewList(out)
	})
}

// hexBuiltin: hex(color) -> "#rrggbbaa".
func hexBuiltin() *object.Builtin {
	return object.NewBuiltin("hex", func(ctx context.Context, args ...object.Object) object.Object {
		c, errObj := colorArg("hex", args)
		if errObj != nil {
			return errObj
		}
		return object.NewString(fmt.Sprintf("#%08x", c))
	})
}
