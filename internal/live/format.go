package live

import (
	"fmt"
	"strconv"
	"strings"

	"liveweave/internal/source"
)

// FormatValue renders the payload of v without its kind. Containers render
// as their base or target only; their children are separate nodes.
func (d *Document) FormatValue(names *source.Interner, v Value) string {
	switch v.Kind {
	case ValBool:
		return strconv.FormatBool(v.Bool())
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case ValColor:
		return fmt.Sprintf("#%08x", v.Color())
	case ValVec2:
		return fmt.Sprintf("(%g, %g)", v.Vec[0], v.Vec[1])
	case ValVec3:
		return fmt.Sprintf("(%g, %g, %g)", v.Vec[0], v.Vec[1], v.Vec[2])
	case ValString:
		return strconv.Quote(d.String(v))
	case ValId, ValClass:
		return v.Ref.Format(names, d.MultiIDs)
	case ValCall:
		return v.Ref.Format(names, d.MultiIDs) + "()"
	case ValFn:
		end := min(int(v.Start+v.Count), len(d.Tokens))
		parts := make([]string, 0, v.Count)
		for _, t := range d.Tokens[min(int(v.Start), end):end] {
			parts = append(parts, t.Text)
		}
		return strings.Join(parts, " ")
	case ValUse:
		return v.Module.Format(names)
	}
	return ""
}
