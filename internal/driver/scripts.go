package driver

import (
	"fmt"

	"liveweave/internal/diag"
	"liveweave/internal/script"
	"liveweave/internal/source"
)

// bindComponents installs the [[component]] scripts of the manifest as
// registry factories. Bad entries become ProjBadManifest diagnostics.
func bindComponents(ws *Workspace) {
	m := ws.Manifest
	for _, c := range m.Config.Components {
		cm, err := ws.Registry.Module(c.Module)
		if err == nil {
			var d *script.Deserializer
			d, err = script.Load(m.ScriptPath(c))
			if err == nil {
				ws.Registry.RegisterComponent(cm, c.Type, d)
				continue
			}
		}
		ws.Bag.Add(diag.NewError(diag.ProjBadManifest, source.Span{},
			fmt.Sprintf("%s: component %s::%s: %v", m.Path, c.Module, c.Type, err)))
	}
}
